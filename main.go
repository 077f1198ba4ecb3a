package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	appcheckout "github.com/Zhima-Mochi/minishop-checkout/internal/application/checkout"
	"github.com/Zhima-Mochi/minishop-checkout/internal/domain/cart"
	"github.com/Zhima-Mochi/minishop-checkout/internal/domain/catalog"
	"github.com/Zhima-Mochi/minishop-checkout/internal/domain/customer"
	domevent "github.com/Zhima-Mochi/minishop-checkout/internal/domain/event"
	"github.com/Zhima-Mochi/minishop-checkout/internal/infrastructure/memory"
	"github.com/Zhima-Mochi/minishop-checkout/internal/infrastructure/observability/oteltrace"
	"github.com/Zhima-Mochi/minishop-checkout/internal/infrastructure/observability/prometrics"
	"github.com/Zhima-Mochi/minishop-checkout/internal/infrastructure/observability/telemetry"
	"github.com/Zhima-Mochi/minishop-checkout/internal/infrastructure/observability/zaplogger"
	"github.com/Zhima-Mochi/minishop-checkout/internal/infrastructure/outbox"
	"github.com/Zhima-Mochi/minishop-checkout/internal/observability"
	"github.com/Zhima-Mochi/minishop-checkout/internal/pkg/clock"
	"github.com/Zhima-Mochi/minishop-checkout/internal/presentation/console"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	serviceName := getenvDefault("SERVICE_NAME", "minishop-checkout")
	env := getenvDefault("ENV", "dev")

	baseLogger := zaplogger.New(
		observability.F("service", serviceName),
		observability.F("env", env),
	)
	defer func() { _ = baseLogger.Sync() }()

	registry := prometrics.New("minishop", "checkout")
	tel := telemetry.New(oteltrace.New(serviceName), baseLogger, telemetry.NewMetricSet(registry))

	ctx := context.Background()

	bus := outbox.NewBus(baseLogger)
	bus.Subscribe(appcheckout.CompletedEvent{}.EventName(), func(ctx context.Context, e domevent.Event) error {
		done, ok := e.(appcheckout.CompletedEvent)
		if !ok {
			return nil
		}
		baseLogger.Info("checkout_completed",
			observability.F("customer", done.Customer),
			observability.F("total", done.Total),
			observability.F("items", done.Items),
		)
		return nil
	})
	bus.Start(ctx)
	defer bus.Stop(ctx)

	clk := clock.System()
	now := clk.Now()

	cheese := mustProduct(catalog.NewExpiring("Cheese", 100, 10, now.AddDate(0, 0, 3), 0.4))
	biscuits := mustProduct(catalog.NewExpiring("Biscuits", 150, 5, now.AddDate(0, 0, 2), 0.7))
	tv := mustProduct(catalog.NewDurable("TV", 5000, 3, 8))
	card := mustProduct(catalog.NewDigital("Scratch Card", 50, 100))

	store := memory.NewCatalog()
	for _, p := range []*catalog.Product{cheese, biscuits, tv, card} {
		if err := store.Save(ctx, p); err != nil {
			baseLogger.Error("catalog_save_failed", observability.F("error", err))
			os.Exit(1)
		}
	}

	svc := appcheckout.NewService(clk, bus, tel)
	out := console.NewRenderer(os.Stdout)

	// Happy path: Bob buys two perishables and a digital card.
	bob := customer.New("Bob", 1000)
	crt := cart.New(clk)
	mustAdd(crt, cheese, 2)
	mustAdd(crt, biscuits, 1)
	mustAdd(crt, card, 1)

	if receipt, err := svc.Checkout(ctx, bob, crt); err != nil {
		fmt.Println(err)
	} else {
		out.ShipmentNotice(receipt.Shipment)
		out.Receipt(receipt)
	}

	// Failure scenarios: each error is reported and the demo continues.
	if _, err := svc.Checkout(ctx, bob, cart.New(clk)); err != nil {
		fmt.Println(err)
	}

	jane := customer.New("Jane", 50)
	big := cart.New(clk)
	mustAdd(big, tv, 1)
	if _, err := svc.Checkout(ctx, jane, big); err != nil {
		fmt.Println(err)
	}

	milk := mustProduct(catalog.NewExpiring("Milk", 20, 1, now.AddDate(0, 0, -1), 0.5))
	if err := cart.New(clk).Add(milk, 1); err != nil {
		fmt.Println(err)
	}

	if err := cart.New(clk).Add(tv, 99); err != nil {
		fmt.Println(err)
	}

	if addr := os.Getenv("METRICS_ADDR"); addr != "" {
		serveMetrics(addr, baseLogger)
	}
}

// serveMetrics blocks on a /metrics endpoint until interrupted.
func serveMetrics(addr string, logger observability.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	server := &http.Server{Addr: addr, Handler: mux}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("metrics_server_start", observability.F("addr", addr))
		err := server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics_server_error", observability.F("error", err))
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("metrics_server_shutdown_error", observability.F("error", err))
	} else {
		logger.Info("metrics_server_stopped")
	}
}

func mustProduct(p *catalog.Product, err error) *catalog.Product {
	if err != nil {
		panic(err)
	}
	return p
}

func mustAdd(c *cart.Cart, p *catalog.Product, qty int) {
	if err := c.Add(p, qty); err != nil {
		panic(err)
	}
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
