package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"notes-backend/internal/auth"
	"notes-backend/internal/cache"
	"notes-backend/internal/events"
	"notes-backend/internal/handlers"
	appmw "notes-backend/internal/middleware"
	"notes-backend/internal/quota"
	"notes-backend/internal/services"
	"notes-backend/internal/storage"
)

func main() {
	if os.Getenv("JWT_SECRET") == "" {
		log.Fatal("JWT_SECRET is required")
	}

	// Database connection (with retries)
	var db *sqlx.DB
	var err error
	for i := 0; i < 10; i++ {
		db, err = sqlx.Connect("postgres", buildDSN())
		if err == nil {
			break
		}
		log.Printf("DB connection attempt %d failed: %v", i+1, err)
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	log.Println("Connected to database")

	store := storage.NewStorage(db)
	enforcer := quota.NewEnforcer(store)
	authHandler := auth.NewHandler(store)
	webhook := services.NewWebhookClient()

	// Audit events are optional; the service runs without NATS.
	var publisher *events.Publisher
	if os.Getenv("NATS_URL") != "" {
		publisher, err = events.Connect()
		if err != nil {
			log.Fatalf("Failed to connect to NATS: %v", err)
		}
		defer publisher.Close()
	} else {
		log.Println("WARN NATS_URL not set; audit events disabled")
	}

	h := handlers.New(store, enforcer, authHandler, publisher, webhook)

	// Login rate limiting is optional; the service runs without Redis.
	var redisClient *cache.RedisCache
	if os.Getenv("REDIS_URL") != "" {
		redisClient, err = cache.NewRedisClient()
		if err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer redisClient.Close()
		h.WithLoginLimiter(appmw.RateLimitLogin(redisClient))
	} else {
		log.Println("WARN REDIS_URL not set; login rate limiting disabled")
	}

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	h.RegisterRoutes(r)

	server := &http.Server{
		Addr:    ":" + getEnv("PORT", "8080"),
		Handler: r,
	}

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		log.Println("Shutting down...")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()

		_ = server.Shutdown(shutdownCtx)
	}()

	log.Printf("Server starting on %s", server.Addr)
	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatalf("Server error: %v", err)
	}
	log.Println("Server stopped")
}

func buildDSN() string {
	return "host=" + getEnv("DB_HOST", "localhost") +
		" user=" + getEnv("DB_USER", "notes_user") +
		" password=" + getEnv("DB_PASSWORD", "notes_pass") +
		" dbname=" + getEnv("DB_NAME", "notes") +
		" sslmode=disable"
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
