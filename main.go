package main

// GET    /products?search=         - List (and search) the catalogue
// GET    /products/{id}            - Product detail with reviews
// POST   /cart                     - Allocate a cart id
// GET    /cart/{cartID}            - Cart with line totals and total
// POST   /cart/{cartID}/items      - Add one unit of a product
// DELETE /cart/{cartID}/items/{id} - Remove a product's line item
// DELETE /cart/{cartID}            - Empty the cart
// POST   /checkout/{cartID}        - Place the order and empty the cart
// POST   /contact                  - Contact form

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/johnsulf/jsf-ca-ecom-store/cart"
	"github.com/johnsulf/jsf-ca-ecom-store/client"
	"github.com/johnsulf/jsf-ca-ecom-store/config"
	"github.com/johnsulf/jsf-ca-ecom-store/handler"
	"github.com/johnsulf/jsf-ca-ecom-store/logging"
	"github.com/johnsulf/jsf-ca-ecom-store/service"
	"github.com/johnsulf/jsf-ca-ecom-store/storage"
)

const appName = "storefront"

func main() {
	app := &cli.App{
		Name:  appName,
		Usage: "storefront cart and catalogue API",
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "run the HTTP API",
				Action: serve,
			},
			{
				Name:  "products",
				Usage: "print the product catalogue",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "search", Usage: "only titles containing this text"},
				},
				Action: listProducts,
			},
			{
				Name:   "migrate",
				Usage:  "create the postgres cart_storage table",
				Action: migrate,
			},
		},
		DefaultCommand: "serve",
	}

	if err := app.Run(os.Args); err != nil {
		logrus.WithError(err).Fatal("storefront exited")
	}
}

func setup() (config.Config, *logrus.Entry, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, nil, err
	}
	log := logging.New(logging.Options{
		Service: appName,
		Env:     cfg.AppEnv,
		Level:   cfg.LogLevel,
		Format:  cfg.LogFormat,
	})
	return cfg, log, nil
}

func newProductClient(cfg config.Config, log logrus.FieldLogger) *client.Client {
	return client.New(cfg.ProductAPIURL,
		client.WithTimeout(cfg.ProductAPITimeout),
		client.WithLogger(log.WithField("component", "product_client")),
	)
}

func serve(c *cli.Context) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := storage.Open(ctx, cfg)
	if err != nil {
		return errors.Wrap(err, "open storage")
	}
	defer st.Close()

	carts := cart.NewRegistry(st, cfg.StorageKeyPrefix, log.WithField("component", "cart"))
	carts.SetIdleTTL(cfg.CartIdleTTL)
	svc := service.NewService(newProductClient(cfg, log), carts, log.WithField("component", "service"))
	h := handler.NewHandler(svc, handler.NewRateLimiter(cfg.ContactRate, cfg.ContactBurst), log)

	r := mux.NewRouter()
	h.RegisterRoutes(r)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins: cfg.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
	}).Handler(r)

	server := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: handler.LogRequests(log, corsHandler),
	}

	errCh := make(chan error, 1)
	go func() {
		log.WithFields(logrus.Fields{"addr": cfg.HTTPAddr, "storage": cfg.StorageBackend}).Info("server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return errors.Wrap(err, "listen")
	case <-ctx.Done():
	}

	log.Info("shutdown signal received; shutting down gracefully")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(err, "graceful shutdown")
	}
	log.Info("server stopped cleanly")
	return nil
}

func listProducts(c *cli.Context) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}

	products, err := newProductClient(cfg, log).FetchAllProducts(c.Context)
	if err != nil {
		return err
	}
	for _, p := range client.FilterByTitle(products, c.String("search")) {
		line := fmt.Sprintf("%-38s %-40s %10.2f", p.ID, p.Title, p.DiscountedPrice)
		if p.HasDiscount() {
			line += fmt.Sprintf("  (-%d%%)", p.DiscountPercent())
		}
		fmt.Fprintln(c.App.Writer, line)
	}
	return nil
}

func migrate(c *cli.Context) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}

	st, err := storage.NewPostgresStore(c.Context, cfg.PostgresDSN)
	if err != nil {
		return err
	}
	defer st.Close()

	if err := st.Migrate(c.Context); err != nil {
		return err
	}
	log.Info("database migrations executed successfully")
	return nil
}
