package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"

	"github.com/berwahousing/records-backend/internal/api/middleware"
	"github.com/berwahousing/records-backend/internal/api/rest"
	"github.com/berwahousing/records-backend/internal/config"
	"github.com/berwahousing/records-backend/internal/pkg/logger"
	"github.com/berwahousing/records-backend/internal/pkg/tracing"
	"github.com/berwahousing/records-backend/internal/repository"
	"github.com/berwahousing/records-backend/internal/service"
	"github.com/berwahousing/records-backend/migrations"
)

func main() {
	log := logger.StdLogger()
	log.Info("records backend starting")

	cfg, err := config.Load()
	if err != nil {
		log.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if cfg.AuthMode != "disabled" && cfg.JWTSecret == "" {
		log.Error("jwt_secret is required unless auth_mode is disabled")
		os.Exit(1)
	}

	shutdownTracing, err := tracing.Init("records-backend", cfg.TracingEndpoint, cfg.TracingSampleRate)
	if err != nil {
		log.Error("failed to init tracing", "error", err)
		os.Exit(1)
	}
	defer shutdownTracing()

	repo, err := openStore(cfg)
	if err != nil {
		log.Error("failed to initialize database", "error", err)
		os.Exit(1)
	}
	defer repo.Close()
	log.Info("database ready", "driver", cfg.DatabaseDriver)

	reportService := service.NewReportService(repo, repo)
	handler := rest.NewHandler(repo, reportService)
	authHandler := rest.NewAuthHandler(repo, cfg)

	router := mux.NewRouter()
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"healthy","service":"records-backend"}`))
	}).Methods("GET")
	router.Handle("/metrics", promhttp.Handler()).Methods("GET")

	api := router.PathPrefix("/api").Subrouter()
	rest.SetupAuthRoutes(api, authHandler)
	rest.SetupRoutes(api, handler)

	router.Use(middleware.RequestID)
	router.Use(middleware.Tracing)
	router.Use(middleware.StructuredLog)
	router.Use(middleware.Recovery)
	router.Use(middleware.Auth(cfg))

	c := cors.New(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	})

	timeout := time.Duration(cfg.RequestTimeoutSec) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      c.Handler(router),
		ReadTimeout:  timeout,
		WriteTimeout: timeout,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("server listening", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(),
		time.Duration(cfg.ShutdownTimeoutSec)*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warn("server forced to shutdown", "error", err)
	}
	log.Info("server exited")
}

// openStore constructs the configured storage backend and applies the
// embedded schema.
func openStore(cfg *config.Config) (repository.Store, error) {
	pool := repository.PoolConfig{
		MaxOpenConns:    cfg.DBMaxOpenConns,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		ConnMaxLifetime: time.Duration(cfg.DBConnMaxLifetimeSec) * time.Second,
	}

	switch cfg.DatabaseDriver {
	case "postgres":
		repo, err := repository.NewPostgresRepository(cfg.DatabaseURL, pool)
		if err != nil {
			return nil, err
		}
		schema, err := migrations.FS.ReadFile("001_initial_schema.postgres.sql")
		if err != nil {
			return nil, err
		}
		if err := repo.RunMigrations(string(schema)); err != nil {
			return nil, fmt.Errorf("run migrations: %w", err)
		}
		return repo, nil
	case "sqlite", "":
		repo, err := repository.NewSQLiteRepository(cfg.DatabasePath, pool)
		if err != nil {
			return nil, err
		}
		schema, err := migrations.FS.ReadFile("001_initial_schema.sqlite.sql")
		if err != nil {
			return nil, err
		}
		if err := repo.RunMigrations(string(schema)); err != nil {
			return nil, fmt.Errorf("run migrations: %w", err)
		}
		return repo, nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.DatabaseDriver)
	}
}
