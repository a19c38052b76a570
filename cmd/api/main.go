// cmd/api/main.go
// Main entry point for the matching engine API
// This file bootstraps all components and starts the server

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/gorilla/mux"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/lumeapp/lume-algo/internal/appwrite"
	"github.com/lumeapp/lume-algo/internal/cache"
	"github.com/lumeapp/lume-algo/internal/common/database"
	"github.com/lumeapp/lume-algo/internal/config"
	"github.com/lumeapp/lume-algo/internal/matches"
	"github.com/lumeapp/lume-algo/internal/matching"
	"github.com/lumeapp/lume-algo/internal/seen"
)

func main() {
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	log.Println("========================================")
	log.Println("🚀 Starting Lume Matching Engine API")
	log.Println("========================================")

	// 1. Load environment variables
	log.Println("📁 Step 1: Loading .env file...")
	if err := godotenv.Load(); err != nil {
		log.Printf("⚠️  Warning: No .env file found (%v), using environment variables", err)
	} else {
		log.Println("✅ .env file loaded successfully")
	}

	// 2. Load configuration
	log.Println("\n📋 Step 2: Loading configuration...")
	cfg := config.Load()
	log.Println("✅ Configuration loaded")

	// 3. Validate configuration
	log.Println("\n✔️  Step 3: Validating configuration...")
	if err := cfg.Validate(); err != nil {
		log.Fatal("❌ Configuration validation failed:", err)
	}
	log.Println("✅ Configuration is valid")

	// 4. Connect to PostgreSQL
	log.Println("\n🗄️  Step 4: Connecting to PostgreSQL...")
	db, err := database.NewPostgresDBFromURL(cfg.DatabaseURL, nil)
	if err != nil {
		log.Fatal("❌ Failed to connect to PostgreSQL:", err)
	}
	defer db.Close()
	log.Println("✅ Connected to PostgreSQL successfully")

	// 5. Connect to Redis (optional)
	log.Println("\n📮 Step 5: Connecting to Redis...")
	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = database.NewRedisClientFromURL(cfg.RedisURL)
		if err != nil {
			log.Printf("⚠️  Redis unavailable (%v), continuing with in-process cache only", err)
			redisClient = nil
		} else {
			defer redisClient.Close()
			log.Println("✅ Connected to Redis successfully")
		}
	} else {
		log.Println("⚠️  Redis URL not configured, skipping Redis connection")
	}

	// 6. Run database migrations
	log.Println("\n🔨 Step 6: Running database migrations...")
	if err := runMigrations(db); err != nil {
		log.Fatal("❌ Failed to run migrations:", err)
	}
	log.Println("✅ Database migrations completed")

	// 7. Initialize Appwrite client
	log.Println("\n📡 Step 7: Initializing Appwrite client...")
	store := appwrite.NewClient(
		cfg.AppwriteEndpoint,
		cfg.AppwriteAPIKey,
		cfg.AppwriteProjectID,
		cfg.AppwriteDatabaseID,
		appwrite.Collections{
			UserProfiles:    cfg.ProfilesCollection,
			UserPreferences: cfg.PreferencesCollection,
			MatchEvents:     cfg.EventsCollection,
			UserMatches:     cfg.MatchesCollection,
		},
	)
	log.Println("✅ Appwrite client initialized")

	// 8. Initialize cache
	log.Println("\n🧰 Step 8: Initializing cache...")
	resultCache := cache.New(redisClient, cfg.L1CacheSize, cfg.CacheTTL)
	log.Printf("✅ Cache initialized (L1 size %d, TTL %s)", cfg.L1CacheSize, cfg.CacheTTL)

	// 9. Initialize matching engine
	log.Println("\n🎯 Step 9: Initializing matching engine...")
	weights := matching.ScoringWeights{
		Distance: cfg.DistanceWeight,
		Age:      cfg.AgeWeight,
		Sports:   cfg.SportsWeight,
		Height:   cfg.HeightWeight,
		Verified: cfg.VerifiedWeight,
	}
	matcher := matching.NewMatcherWithMinScore(weights, cfg.MinMatchScore)
	log.Printf("✅ Matching engine initialized (min score %.1f)", cfg.MinMatchScore)

	// 10. Initialize matches module
	log.Println("\n💘 Step 10: Initializing matches module...")
	seenRepo := seen.NewPostgresRepository(db)
	matchesService := matches.NewService(store, seenRepo, resultCache, matcher, matches.Config{
		DefaultLimit:    cfg.DefaultLimit,
		MaxLimit:        cfg.MaxLimit,
		CandidateFanout: cfg.CandidateFanout,
	})
	matchesHandler := matches.NewHandler(matchesService)
	log.Println("✅ Matches module initialized")

	// 11. Setup routes
	log.Println("\n🛣️  Step 11: Setting up routes...")
	router := mux.NewRouter()

	router.HandleFunc("/health", healthCheck(matchesService)).Methods("GET")
	router.Handle("/metrics", promhttp.Handler()).Methods("GET")

	matches.RegisterRoutes(router, matchesHandler)
	log.Println("   ✅ Matches routes registered")

	router.Use(loggingMiddleware)
	router.Use(corsMiddleware)

	// 12. Create and start HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Println("\n========================================")
		log.Printf("🚀 Server starting on http://localhost%s", srv.Addr)
		log.Printf("🌍 Environment: %s", cfg.Environment)
		log.Println("========================================")

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("❌ Failed to start server:", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("\n⚠️  Shutdown signal received...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("❌ Server forced to shutdown:", err)
	}

	log.Println("✅ Server exited gracefully")
}

// runMigrations creates the seen profile tracking table
func runMigrations(db *sqlx.DB) error {
	log.Println("   - Creating/updating tables...")

	schema := `
	CREATE TABLE IF NOT EXISTS seen_profiles (
		user_id        TEXT NOT NULL,
		target_user_id TEXT NOT NULL,
		event_type     TEXT NOT NULL,
		seen_at        TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		PRIMARY KEY (user_id, target_user_id)
	);

	CREATE INDEX IF NOT EXISTS idx_seen_profiles_user_id
		ON seen_profiles (user_id);

	CREATE INDEX IF NOT EXISTS idx_seen_profiles_seen_at
		ON seen_profiles (user_id, seen_at DESC);
	`

	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create seen_profiles table: %w", err)
	}

	return nil
}

// healthCheck reports service and dependency status
func healthCheck(service matches.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := map[string]interface{}{
			"status":    "healthy",
			"service":   "lume-algo",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		}

		code := http.StatusOK
		if err := service.HealthCheck(r.Context()); err != nil {
			status["status"] = "degraded"
			status["database"] = err.Error()
			code = http.StatusServiceUnavailable
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		json.NewEncoder(w).Encode(status)
	}
}

// Middleware functions

// loggingMiddleware logs all requests
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		log.Printf("→ %s %s from %s", r.Method, r.RequestURI, r.RemoteAddr)

		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(wrapped, r)

		duration := time.Since(start)
		log.Printf("← %s %s [%d] %v", r.Method, r.RequestURI, wrapped.statusCode, duration)
	})
}

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// corsMiddleware handles CORS
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
