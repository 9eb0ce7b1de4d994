//	@title			Gridbin API
//	@version		1.0
//	@description	Chunked blob storage service: upload, list and download files.
//
//	@host		localhost:5000
//	@BasePath	/

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
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"github.com/gridbin/service/internal/blob"
	"github.com/gridbin/service/internal/catalog"
	"github.com/gridbin/service/internal/config"
	"github.com/gridbin/service/internal/db"
	appMiddleware "github.com/gridbin/service/internal/middleware"

	_ "github.com/gridbin/service/docs/swagger"
)

func main() {
	cfg := config.Load()

	pool, err := db.Connect(context.Background(), cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("database connection failed: %v", err)
	}
	defer pool.Close()

	if err := db.Migrate(cfg.DatabaseURL); err != nil {
		log.Fatalf("database migration failed: %v", err)
	}

	// Records always live in Postgres; chunk payloads go wherever
	// CHUNK_BACKEND points.
	repo := blob.NewRepository(pool)
	var chunks blob.ChunkStore = repo
	if cfg.ChunkBackend == "s3" {
		chunks, err = blob.NewMinioChunkStore(
			cfg.StorageEndpoint,
			cfg.StorageAccessKey,
			cfg.StorageSecretKey,
			cfg.StorageBucket,
			cfg.StorageUseSSL,
		)
		if err != nil {
			log.Fatalf("chunk storage init failed: %v", err)
		}
	}

	// Wire dependencies: repository → service → handler
	catalogRepo := catalog.NewRepository(pool)
	catalogSvc := catalog.NewService(catalogRepo)
	catalogHandler := catalog.NewHandler(catalogSvc)

	blobSvc := blob.NewService(repo, chunks, cfg.ChunkSizeBytes)
	blobHandler := blob.NewHandler(blobSvc, catalogSvc)

	// Router
	r := chi.NewRouter()
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(appMiddleware.Logger)
	r.Use(appMiddleware.MethodOverride)
	r.Use(chiMiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		MaxAge:         300,
	}))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	// Swagger UI — available at http://localhost:5000/swagger/
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	r.Get("/", catalogHandler.Index)
	r.Post("/upload", blobHandler.Upload)
	r.Get("/files", catalogHandler.Files)
	r.Get("/files/{filename}", catalogHandler.File)
	r.Get("/image/{filename}", blobHandler.Image)
	r.Delete("/files/{id}", blobHandler.Delete)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine; wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Printf("server listening on :%s (env=%s, chunkSize=%d, chunkBackend=%s)",
			cfg.Port, cfg.AppEnv, cfg.ChunkSizeBytes, cfg.ChunkBackend)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	<-quit
	log.Println("shutting down gracefully...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("forced shutdown: %v", err)
	}

	log.Println("server stopped")
}
