package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"github.com/payflow/gateway/internal/config"
	"github.com/payflow/gateway/internal/handler"
	"github.com/payflow/gateway/internal/metrics"
	appMiddleware "github.com/payflow/gateway/internal/middleware"
	"github.com/payflow/gateway/internal/repository"
	"github.com/payflow/gateway/internal/service"
	"github.com/payflow/gateway/internal/settlement"
	"github.com/payflow/gateway/internal/ws"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

func main() {
	// Load .env file if present (for local development)
	_ = godotenv.Load()

	log, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("config error", zap.Error(err))
	}

	ctx := context.Background()

	db, err := repository.NewDB(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal("database error", zap.Error(err))
	}
	defer db.Close()

	if err := repository.RunMigrations(ctx, db); err != nil {
		log.Fatal("migration error", zap.Error(err))
	}
	log.Info("database connected and migrated")

	merchantRepo := repository.NewMerchantRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)

	if err := merchantRepo.SeedTestMerchant(ctx); err != nil {
		log.Fatal("merchant seed error", zap.Error(err))
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(registry)

	bank := settlement.NewSimulatedBank(settlement.Config{
		TestMode:        cfg.TestMode,
		FixedDelay:      cfg.TestDelay,
		ForceSuccess:    cfg.TestPaymentSuccess,
		MinDelay:        cfg.MinDelay,
		MaxDelay:        cfg.MaxDelay,
		UPISuccessRate:  cfg.UPISuccessRate,
		CardSuccessRate: cfg.CardSuccessRate,
	})
	engine := settlement.NewEngine(bank, paymentRepo, log.Named("settlement"), m)

	sweepCtx, stopSweeper := context.WithCancel(ctx)
	defer stopSweeper()
	sweeper := settlement.NewSweeper(paymentRepo, cfg.MaxDelay+cfg.StuckMaxAge, cfg.SweepInterval, log.Named("sweeper"))
	sweeper.Start(sweepCtx)

	merchantSvc := service.NewMerchantService(merchantRepo, cfg.JWTSecret, log.Named("merchant"))
	orderSvc := service.NewOrderService(orderRepo, m, log.Named("order"))
	paymentSvc := service.NewPaymentService(paymentRepo, orderRepo, engine, m, log.Named("payment"))

	healthHandler := handler.NewHealthHandler(db)
	orderHandler := handler.NewOrderHandler(orderSvc)
	paymentHandler := handler.NewPaymentHandler(paymentSvc)
	merchantHandler := handler.NewMerchantHandler(merchantSvc, paymentSvc)
	sandboxHandler := handler.NewSandboxHandler(merchantSvc, paymentSvc, repository.TestMerchantID)
	paymentStream := ws.NewPaymentStreamHandler(paymentSvc, cfg.CORSOrigins, log.Named("ws"))

	r := chi.NewRouter()

	r.Use(appMiddleware.Recovery(log))
	r.Use(appMiddleware.Logger(log))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Api-Key", "X-Api-Secret"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Global rate limiter (20 req/sec per IP, burst of 40)
	globalRL := appMiddleware.NewRateLimiter(20, 40)
	r.Use(globalRL.Middleware())

	r.Get("/health", healthHandler.Check)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	// Public checkout routes (no auth)
	r.Get("/api/v1/orders/{order_id}/public", orderHandler.GetPublic)
	r.Post("/api/v1/payments/public", paymentHandler.CreatePublic)
	r.Get("/api/v1/payments/{payment_id}/public", paymentHandler.GetPublic)

	// Dashboard login
	r.Group(func(r chi.Router) {
		r.Use(appMiddleware.StrictRateLimiter())
		r.Post("/api/v1/merchant/login", merchantHandler.Login)
	})

	// Merchant API (api key/secret or dashboard token)
	r.Group(func(r chi.Router) {
		r.Use(appMiddleware.Auth(merchantSvc))

		r.Post("/api/v1/orders", orderHandler.Create)
		r.Get("/api/v1/orders", orderHandler.List)
		r.Get("/api/v1/orders/{order_id}", orderHandler.Get)

		r.Post("/api/v1/payments", paymentHandler.Create)
		r.Get("/api/v1/payments", paymentHandler.List)
		r.Get("/api/v1/payments/{payment_id}", paymentHandler.Get)

		r.Get("/api/v1/merchant/stats", merchantHandler.Stats)
	})

	// Sandbox routes, visible only in test mode
	r.Group(func(r chi.Router) {
		r.Use(appMiddleware.Sandbox(cfg.TestMode))
		r.Get("/api/v1/test/merchant", sandboxHandler.TestMerchant)
		r.Get("/api/v1/test/stats/{merchant_id}", sandboxHandler.TestStats)
	})

	// WebSocket payment status stream
	r.HandleFunc("/ws/payments/{payment_id}", paymentStream.Handle)

	addr := "0.0.0.0:" + cfg.Port
	server := &http.Server{
		Addr:        addr,
		Handler:     r,
		ReadTimeout: 30 * time.Second,
		// WriteTimeout must be 0 for WebSocket connections (they are long-lived)
		IdleTimeout: 120 * time.Second,
	}

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Error("shutdown error", zap.Error(err))
		}
	}()

	log.Info("gateway listening", zap.String("addr", addr), zap.Bool("test_mode", cfg.TestMode))
	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatal("server error", zap.Error(err))
	}

	// Let in-flight settlements write their terminal status before exiting.
	stopSweeper()
	engine.Drain()
	log.Info("settlements drained, exiting")
}
