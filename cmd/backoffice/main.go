package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/jcmexdev/backoffice/internal/catalog"
	"github.com/jcmexdev/backoffice/internal/cep"
	"github.com/jcmexdev/backoffice/internal/customer"
	"github.com/jcmexdev/backoffice/internal/httpx"
	"github.com/jcmexdev/backoffice/internal/order"
	"github.com/jcmexdev/backoffice/internal/pkg/cache"
	"github.com/jcmexdev/backoffice/internal/pkg/telemetry"
	"github.com/jcmexdev/backoffice/internal/schedule"
	"github.com/jcmexdev/backoffice/internal/store"
)

func main() {
	telemetry.InitLogger()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdown, err := telemetry.SetupTracer(ctx, getEnv("OTEL_SERVICE_NAME", "backoffice"))
	if err != nil {
		slog.Error("failed to initialise tracer", "error", err)
		os.Exit(1)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			slog.Error("tracer shutdown error", "error", err)
		}
	}()

	st, err := store.Open(getEnv("DB_PATH", "./data/backoffice.db"))
	if err != nil {
		slog.Error("failed to open store", "error", err)
		os.Exit(1)
	}
	defer st.Close()

	// The lookup cache is optional: without REDIS_ADDR every postal-code
	// resolution goes straight to the provider.
	var lookupCache cache.Cache
	if redisAddr := os.Getenv("REDIS_ADDR"); redisAddr != "" {
		lookupCache = cache.NewRedisCache(redisAddr, "cep")
	}
	addressLookup := cep.NewClient(getEnv("CEP_BASE_URL", cep.DefaultBaseURL), lookupCache)

	catalogSrv := catalog.NewService(st.Products())
	customerSrv := customer.NewService(st.Customers(), addressLookup)
	orderSrv := order.NewService(st, st.Orders(), st.Customers(), st.Products())

	runner := schedule.NewRunner(orderSrv, catalogSrv)
	go runner.Run(ctx)

	router := httpx.NewRouter(
		httpx.NewCustomerHandler(customerSrv),
		httpx.NewProductHandler(catalogSrv),
		httpx.NewOrderHandler(orderSrv),
	)

	addr := ":" + getEnv("PORT", "8080")
	srv := &http.Server{
		Addr:    addr,
		Handler: otelhttp.NewHandler(router, "backoffice"),
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("http shutdown error", "error", err)
		}
	}()

	slog.Info("backoffice HTTP server running", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("http server failed", "error", err)
		os.Exit(1)
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
