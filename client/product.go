// Package client reads the product catalogue from the storefront REST backend.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	models "github.com/johnsulf/jsf-ca-ecom-store/model"
)

// HTTPError is returned when the backend answers with a non-2xx status.
type HTTPError struct {
	Op         string
	StatusCode int
	StatusText string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("failed to fetch %s: %d %s", e.Op, e.StatusCode, e.StatusText)
}

// ProductsPage is the body of the list endpoint.
type ProductsPage struct {
	Data []models.Product `json:"data"`
	Meta models.PageMeta  `json:"meta"`
}

type productResponse struct {
	Data models.Product         `json:"data"`
	Meta map[string]interface{} `json:"meta"`
}

// Client talks to one product backend. It never retries; a zero timeout
// leaves cancellation entirely to the caller's context.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        logrus.FieldLogger
}

type Option func(*Client)

func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func WithLogger(log logrus.FieldLogger) Option {
	return func(c *Client) { c.log = log }
}

func New(baseURL string, opts ...Option) *Client {
	l := logrus.New()
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
		log:        l,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// FetchAllProducts returns the products of GET {baseURL}.
func (c *Client) FetchAllProducts(ctx context.Context) ([]models.Product, error) {
	page, err := c.FetchProductsPage(ctx)
	if err != nil {
		return nil, err
	}
	return page.Data, nil
}

// FetchProductsPage returns the products of GET {baseURL} together with the
// pagination metadata.
func (c *Client) FetchProductsPage(ctx context.Context) (ProductsPage, error) {
	var page ProductsPage
	if err := c.get(ctx, c.baseURL, "products", &page); err != nil {
		return ProductsPage{}, err
	}
	if page.Data == nil {
		page.Data = []models.Product{}
	}
	return page, nil
}

// FetchProductByID returns the product of GET {baseURL}/{id}.
func (c *Client) FetchProductByID(ctx context.Context, id string) (models.Product, error) {
	var resp productResponse
	if err := c.get(ctx, c.baseURL+"/"+url.PathEscape(id), "product "+id, &resp); err != nil {
		return models.Product{}, err
	}
	return resp.Data, nil
}

func (c *Client) get(ctx context.Context, endpoint, op string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return errors.Wrapf(err, "build request for %s", op)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.Wrapf(err, "fetch %s", op)
	}
	defer resp.Body.Close()

	c.log.WithFields(logrus.Fields{
		"url":      endpoint,
		"status":   resp.StatusCode,
		"duration": time.Since(start),
	}).Debug("product backend call")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &HTTPError{Op: op, StatusCode: resp.StatusCode, StatusText: reasonPhrase(resp)}
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.Wrapf(err, "decode %s", op)
	}
	return nil
}

// reasonPhrase is the status text the backend sent, or the standard one
// when it sent none.
func reasonPhrase(resp *http.Response) string {
	text := strings.TrimSpace(strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)))
	if text == "" {
		return http.StatusText(resp.StatusCode)
	}
	return text
}

// FilterByTitle keeps products whose title contains term, ignoring case.
func FilterByTitle(products []models.Product, term string) []models.Product {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return products
	}
	out := make([]models.Product, 0, len(products))
	for _, p := range products {
		if strings.Contains(strings.ToLower(p.Title), term) {
			out = append(out, p)
		}
	}
	return out
}
