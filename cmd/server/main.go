package main

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/robfig/cron/v3"
	"github.com/spf13/viper"
	httpSwagger "github.com/swaggo/http-swagger"
	"github.com/vendorpay/backend/docs"
	"github.com/vendorpay/backend/internal/config"
	"github.com/vendorpay/backend/internal/database"
	"github.com/vendorpay/backend/internal/handlers"
	mW "github.com/vendorpay/backend/internal/middleware"
	"github.com/vendorpay/backend/internal/services"
	"github.com/vendorpay/backend/internal/store"
)

// @title Vendor Payments API
// @version 1.0
// @description API for vendor payment scheduling and account management
// @host localhost:8080
// @BasePath /api/v1
// @schemes http https

func main() {
	// Initialize config
	viper.SetConfigFile(".env") // explicitly point to .env file
	viper.AutomaticEnv()        // allow environment variables to override .env

	viper.BindEnv("redis.host", "REDIS_HOST")
	viper.BindEnv("redis.port", "REDIS_PORT")
	viper.BindEnv("redis.password", "REDIS_PASSWORD")
	viper.BindEnv("redis.db", "REDIS_DB")

	viper.BindEnv("jwt.secret_key", "JWT_SECRET_KEY")
	viper.BindEnv("jwt.expiry_hours", "JWT_EXPIRY_HOURS")
	viper.BindEnv("auth.username", "AUTH_USERNAME")
	viper.BindEnv("auth.password", "AUTH_PASSWORD")
	viper.BindEnv("payments.pin", "PAYMENTS_PIN")
	viper.BindEnv("payments.pin_hash", "PAYMENTS_PIN_HASH")
	viper.BindEnv("mirror.url", "MIRROR_URL")
	viper.BindEnv("argon2.time", "ARGON2_TIME")
	viper.BindEnv("argon2.memory", "ARGON2_MEMORY")
	viper.BindEnv("argon2.threads", "ARGON2_THREADS")
	viper.BindEnv("argon2.key_length", "ARGON2_KEY_LENGTH")
	viper.BindEnv("argon2.salt_length", "ARGON2_SALT_LENGTH")

	if err := viper.ReadInConfig(); err != nil {
		log.Printf("Config file not found, using defaults: %v", err)
	}

	// Initialize Swagger docs
	docs.SwaggerInfo.Title = "Vendor Payments API"
	docs.SwaggerInfo.Description = "API for vendor payment scheduling and account management"
	docs.SwaggerInfo.Version = "1.0"
	docs.SwaggerInfo.Host = "localhost:8080"
	docs.SwaggerInfo.BasePath = "/api/v1"
	docs.SwaggerInfo.Schemes = []string{"http", "https"}

	// Initialize storage
	redisClient := database.InitRedis()
	if redisClient != nil {
		defer redisClient.Close()
	}

	var st store.Store
	if redisClient != nil {
		st = store.NewRedis(redisClient)
	} else {
		log.Println("Using in-memory store; state is lost on restart")
		st = store.NewMemory()
	}

	paymentsCfg := config.LoadPaymentsConfig()

	var mirror services.MirrorSink = services.NoopSink{}
	if url := viper.GetString("mirror.url"); url != "" {
		mirror = services.NewWebhookSink(url)
		log.Printf("Mirror sink configured: %s", url)
	}

	// Initialize services
	paymentService := services.NewPaymentService(st, services.LogNotifier{}, services.NewPINChecker(), mirror, paymentsCfg)
	vendorService := services.NewVendorService(st, mirror, paymentsCfg)
	authService := services.NewAuthService(redisClient)
	exportService := services.NewExportService(st)
	paymentHandler := handlers.NewPaymentHandler(paymentService)

	// Automatic scheduled pass
	var scheduler *cron.Cron
	if spec := paymentsCfg.RunSchedule; spec != "" {
		scheduler = cron.New()
		_, err := scheduler.AddFunc(spec, func() {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			if _, err := paymentService.RunScheduled(ctx); err != nil {
				log.Printf("[CRON] Scheduled run failed: %v", err)
			}
		})
		if err != nil {
			log.Fatalf("Invalid PAYMENTS_RUN_SCHEDULE %q: %v", spec, err)
		}
		scheduler.Start()
		log.Printf("Scheduled payment runs enabled: %s", spec)
	}

	// Initialize auth middleware with Redis
	mW.InitAuthMiddleware(redisClient)

	// Setup router
	r := chi.NewRouter()

	// Middleware
	r.Use(mW.SecurityHeaders)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(middleware.Timeout(60 * time.Second))

	// CORS
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "Access-Control-Allow-Origin"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"status": "healthy"})
	})

	// Swagger documentation
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("http://localhost:8080/swagger/doc.json"),
	))

	// Task pane assets
	r.Handle("/taskpane/*", http.StripPrefix("/taskpane/",
		mW.StaticFileServer("./static/taskpane")))

	// API routes
	r.Route("/api/v1", func(r chi.Router) {
		// Public endpoints (no auth required)
		r.Post("/auth/login", authService.Login)
		r.Post("/auth/logout", authService.Logout)

		// Protected endpoints (auth required)
		r.Group(func(r chi.Router) {
			r.Use(mW.AuthMiddleware)

			r.Get("/vendors", vendorService.ListVendors)
			r.Post("/vendors", vendorService.CreateVendor)
			r.Put("/vendors/{vendorId}", vendorService.UpdateVendor)
			r.Delete("/vendors/{vendorId}", vendorService.DeleteVendor)

			r.Get("/accounts", paymentHandler.Accounts)

			r.Post("/payments/run", paymentHandler.RunScheduled)
			r.Post("/payments/on-demand/{vendorId}", paymentHandler.OnDemand)
			r.Get("/payments/pending", paymentHandler.ListPending)
			r.Post("/payments/pending/{pendingId}/retry", paymentHandler.Retry)
			r.Get("/payments/history", paymentHandler.History)
			r.Post("/payments/mirror", paymentHandler.MirrorReport)
			r.Get("/payments/export", exportService.ExportHistory)
		})
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	// Start server
	server := &http.Server{
		Addr:         ":" + port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Printf("Server starting on :%s", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Server shutting down...")
	if scheduler != nil {
		scheduler.Stop()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server stopped")
}
