package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/johnsulf/jsf-ca-ecom-store/client"
	"github.com/johnsulf/jsf-ca-ecom-store/service"
)

// Handler is the HTTP layer that talks to service.Service
type Handler struct {
	svc     service.ServiceInterface
	log     logrus.FieldLogger
	limiter *RateLimiter
}

// NewHandler returns a Handler instance. limiter guards the contact form.
func NewHandler(s service.ServiceInterface, limiter *RateLimiter, log logrus.FieldLogger) *Handler {
	return &Handler{svc: s, limiter: limiter, log: log}
}

// RegisterRoutes registers all routes on the provided router
func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/health", h.Health).Methods(http.MethodGet)

	// Products
	r.HandleFunc("/products", h.ListProducts).Methods(http.MethodGet)
	r.HandleFunc("/products/{id}", h.GetProduct).Methods(http.MethodGet)

	// Cart
	r.HandleFunc("/cart", h.CreateCart).Methods(http.MethodPost)
	r.HandleFunc("/cart/{cartID}", h.GetCart).Methods(http.MethodGet)
	r.HandleFunc("/cart/{cartID}", h.ClearCart).Methods(http.MethodDelete)
	r.HandleFunc("/cart/{cartID}/items", h.AddToCart).Methods(http.MethodPost)
	r.HandleFunc("/cart/{cartID}/items/{productID}", h.RemoveFromCart).Methods(http.MethodDelete)

	// Checkout
	r.HandleFunc("/checkout/{cartID}", h.Checkout).Methods(http.MethodPost)

	// Contact
	r.Handle("/contact", h.limiter.Limit(http.HandlerFunc(h.Contact))).Methods(http.MethodPost)
}

// --- request shapes ---
type addToCartReq struct {
	ProductID string `json:"product_id"`
}

// --- helpers ---
func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}

// writeServiceErr maps service and backend errors to HTTP codes.
func (h *Handler) writeServiceErr(w http.ResponseWriter, r *http.Request, err error) {
	var httpErr *client.HTTPError
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{"error": verr.Error(), "fields": verr.Fields})
	case errors.Is(err, service.ErrCartIDRequired),
		errors.Is(err, service.ErrInvalidCartID),
		errors.Is(err, service.ErrProductIDRequired),
		errors.Is(err, service.ErrCartEmpty):
		writeErr(w, http.StatusBadRequest, err.Error())
	case errors.As(err, &httpErr):
		code := http.StatusBadGateway
		if httpErr.StatusCode == http.StatusNotFound {
			code = http.StatusNotFound
		}
		writeErr(w, code, httpErr.Error())
	default:
		h.log.WithError(err).WithField("path", r.URL.Path).Error("request failed")
		writeErr(w, http.StatusInternalServerError, err.Error())
	}
}

// --- Handler ---

// Health handles GET /health
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ListProducts handles GET /products?search=...
func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	ps, err := h.svc.ListProducts(r.Context(), r.URL.Query().Get("search"))
	if err != nil {
		h.writeServiceErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ps)
}

// GetProduct handles GET /products/{id}
func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	p, err := h.svc.GetProduct(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.writeServiceErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// CreateCart handles POST /cart
func (h *Handler) CreateCart(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusCreated, map[string]string{"cart_id": h.svc.NewCart()})
}

// GetCart handles GET /cart/{cartID}
func (h *Handler) GetCart(w http.ResponseWriter, r *http.Request) {
	c, err := h.svc.GetCart(r.Context(), mux.Vars(r)["cartID"])
	if err != nil {
		h.writeServiceErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// AddToCart handles POST /cart/{cartID}/items
// body: { "product_id": "..." }
func (h *Handler) AddToCart(w http.ResponseWriter, r *http.Request) {
	var req addToCartReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json")
		return
	}
	c, err := h.svc.AddToCart(r.Context(), mux.Vars(r)["cartID"], req.ProductID)
	if err != nil {
		h.writeServiceErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// RemoveFromCart handles DELETE /cart/{cartID}/items/{productID}
func (h *Handler) RemoveFromCart(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	c, err := h.svc.RemoveFromCart(r.Context(), vars["cartID"], vars["productID"])
	if err != nil {
		h.writeServiceErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// ClearCart handles DELETE /cart/{cartID}
func (h *Handler) ClearCart(w http.ResponseWriter, r *http.Request) {
	c, err := h.svc.ClearCart(r.Context(), mux.Vars(r)["cartID"])
	if err != nil {
		h.writeServiceErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// Checkout handles POST /checkout/{cartID}
func (h *Handler) Checkout(w http.ResponseWriter, r *http.Request) {
	ord, err := h.svc.Checkout(r.Context(), mux.Vars(r)["cartID"])
	if err != nil {
		h.writeServiceErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, ord)
}

// Contact handles POST /contact
// body: { "name": "...", "subject": "...", "email": "...", "body": "..." }
func (h *Handler) Contact(w http.ResponseWriter, r *http.Request) {
	var form service.ContactForm
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json")
		return
	}
	receipt, err := h.svc.SubmitContact(r.Context(), form)
	if err != nil {
		h.writeServiceErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, receipt)
}
