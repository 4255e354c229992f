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
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/jobtrackr/backend/internal/applications"
	"github.com/jobtrackr/backend/internal/auth"
	"github.com/jobtrackr/backend/internal/config"
	"github.com/jobtrackr/backend/internal/jobs"
	"github.com/jobtrackr/backend/internal/media"
	"github.com/jobtrackr/backend/internal/middleware"
	"github.com/jobtrackr/backend/internal/store"
	"github.com/jobtrackr/backend/internal/users"
)

func main() {
	godotenv.Load()
	cfg := config.Load()
	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET must be set")
	}
	ctx := context.Background()

	// ── MongoDB ──────────────────────────────────────────────
	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatalf("mongo connect: %v", err)
	}
	defer mongoClient.Disconnect(ctx)
	db := mongoClient.Database(cfg.MongoDB)

	userStore := store.NewUsers(db)
	jobStore := store.NewJobs(db)
	appStore := store.NewApplications(db)
	for _, ensure := range []func(context.Context) error{
		userStore.EnsureIndexes, jobStore.EnsureIndexes, appStore.EnsureIndexes,
	} {
		if err := ensure(ctx); err != nil {
			log.Fatalf("mongo indexes: %v", err)
		}
	}

	// ── Redis ────────────────────────────────────────────────
	rdb, err := store.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword)
	if err != nil {
		log.Fatalf("redis connect: %v", err)
	}
	defer rdb.Close()

	// ── MinIO (avatar host) ──────────────────────────────────
	avatars, err := media.NewAvatarStore(
		ctx, cfg.MinioEndpoint, cfg.MinioAccessKey,
		cfg.MinioSecretKey, cfg.MinioBucket, cfg.MinioUseSSL,
	)
	if err != nil {
		log.Fatalf("minio connect: %v", err)
	}

	// ── Handlers ─────────────────────────────────────────────
	tokens := auth.NewTokenManager(cfg.JWTSecret)
	authHandler := auth.NewHandler(userStore, tokens)
	jobHandler := jobs.NewHandler(jobStore)
	appHandler := applications.NewHandler(appStore, userStore)
	userHandler := users.NewHandler(userStore, avatars)

	// ── Router ───────────────────────────────────────────────
	r := chi.NewRouter()
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.RealIP)
	r.Use(middleware.RateLimit(rdb, cfg.RateLimit, time.Duration(cfg.RateWindowSec)*time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)
			r.Get("/refresh-token", authHandler.Refresh)
			r.Post("/logout", authHandler.Logout)
		})

		r.Route("/jobs", func(r chi.Router) {
			r.Use(middleware.RequireAuth(tokens))
			r.Get("/", jobHandler.List)
			r.Post("/", jobHandler.Create)
			r.Get("/{id}", jobHandler.Get)
			r.Put("/{id}", jobHandler.Update)
			r.Delete("/{id}", jobHandler.Delete)
		})

		r.Route("/applications", func(r chi.Router) {
			r.Use(middleware.RequireAuth(tokens))
			r.Get("/", appHandler.List)
			r.Post("/", appHandler.Create)
			r.Get("/{id}", appHandler.Get)
			r.Put("/{id}", appHandler.Update)
			r.Delete("/{id}", appHandler.Delete)
		})

		r.Route("/users", func(r chi.Router) {
			r.Use(middleware.RequireAuth(tokens))
			r.Get("/me", userHandler.GetMe)
			r.Put("/me", userHandler.UpdateMe)
			r.Put("/me/avatar", userHandler.UpdateAvatar)
			r.Delete("/me/avatar", userHandler.DeleteAvatar)
		})
	})

	// ── Server ───────────────────────────────────────────────
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  time.Minute,
		WriteTimeout: time.Minute,
	}

	go func() {
		log.Printf("Server listening on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down...")
	shutCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	srv.Shutdown(shutCtx)
}
