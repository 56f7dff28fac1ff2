package app

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/julienschmidt/httprouter"

	"reservio/pkg/config"
	"reservio/pkg/contracts"
	"reservio/pkg/middleware"
)

// Application owns the HTTP server, the shared middleware chain and the
// background resources the chain depends on.
type Application struct {
	cfg              *config.Config
	router           *httprouter.Router
	server           *http.Server
	rateLimiter      *middleware.ClientRateLimiter
	idempotencyStore *middleware.InMemoryIdempotencyStore
}

func NewApplication(cfg *config.Config) *Application {
	router := httprouter.New()

	app := &Application{
		cfg:              cfg,
		router:           router,
		rateLimiter:      middleware.NewClientRateLimiter(cfg.RateLimitRequests, cfg.RateLimitWindow),
		idempotencyStore: middleware.NewInMemoryIdempotencyStore(cfg.IdempotencyTTL),
	}

	router.GET("/health", app.healthHandler)
	router.GET("/ready", app.readyHandler)

	return app
}

// SetApp registers the service routes and assembles the middleware
// chain around them. Outermost first: recovery, request logging,
// identity, rate limiting, body size cap, content type, idempotency,
// per-request timeout.
func (a *Application) SetApp(handler contracts.Handler) {
	handler.RegisterRoutes(a.router)

	chain := http.Handler(a.router)
	chain = middleware.RequestTimeout(a.cfg.RequestTimeout)(chain)
	chain = middleware.Idempotency(a.idempotencyStore, a.cfg.Log)(chain)
	chain = middleware.ContentTypeValidation(a.cfg.Log)(chain)
	chain = middleware.MaxRequestSize(int64(a.cfg.MaxRequestSize))(chain)
	chain = middleware.RateLimit(a.rateLimiter, a.cfg.Log)(chain)
	chain = middleware.Identity()(chain)
	chain = middleware.RequestLogging(a.cfg.Log)(chain)
	chain = middleware.Recovery(a.cfg.Log)(chain)

	a.server = &http.Server{
		Addr:         ":" + a.cfg.Port,
		Handler:      chain,
		ReadTimeout:  a.cfg.ReadTimeout,
		WriteTimeout: a.cfg.WriteTimeout,
		IdleTimeout:  a.cfg.IdleTimeout,
	}
}

// Run serves HTTP until SIGINT/SIGTERM, then drains in-flight requests
// within the configured shutdown timeout.
func (a *Application) Run() {
	log := a.cfg.Log

	go func() {
		log.Info("HTTP server listening", "port", a.cfg.Port)

		if err := a.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info("Shutdown signal received", "signal", sig.String())

	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()

	if err := a.server.Shutdown(ctx); err != nil {
		log.Error("HTTP server shutdown failed", "error", err)
	}

	a.rateLimiter.Stop()
	a.idempotencyStore.Stop()

	log.Info("HTTP server stopped")
}
