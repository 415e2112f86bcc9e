package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"missingpet-backend/internal/config"
	"missingpet-backend/internal/handlers"
	"missingpet-backend/internal/middleware"
	"missingpet-backend/internal/repository"
	"missingpet-backend/internal/services"
	"missingpet-backend/migrations"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func Run() {
	// Load configuration
	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Setup logger
	setupLogger(cfg.Log.Level)

	// Apply database migrations
	if err := migrations.Up(context.Background(), cfg.Database.DSN()); err != nil {
		log.Fatal().Err(err).Msg("Failed to apply migrations")
	}

	// Connect to database
	db, err := pgxpool.New(context.Background(), cfg.Database.DSN())
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	// Test database connection
	if err := db.Ping(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to ping database")
	}
	log.Info().Msg("Database connection established")

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	announcementRepo := repository.NewAnnouncementRepository(db)
	resetCodeRepo := repository.NewResetCodeRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)

	// Initialize services
	userService := services.NewUserService(
		userRepo,
		cfg.JWT.Secret,
		time.Duration(cfg.JWT.LifetimeDays)*24*time.Hour,
	)
	photoStorage, err := services.NewS3PhotoStorage(
		cfg.AWS.Region,
		cfg.AWS.S3Bucket,
		cfg.AWS.AccessKey,
		cfg.AWS.SecretKey,
		cfg.AWS.Endpoint,
	)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create photo storage")
	}
	announcementService := services.NewAnnouncementService(
		announcementRepo,
		photoStorage,
		cfg.Pagination.PageSize,
	)
	var mailer services.Mailer = services.LogMailer{}
	if cfg.Mail.SendGridAPIKey != "" {
		mailer = services.NewSendGridMailer(cfg.Mail.SendGridAPIKey, cfg.Mail.FromEmail, cfg.Mail.FromName)
	}
	resetService := services.NewResetService(
		resetCodeRepo,
		userRepo,
		mailer,
		cfg.Reset.CodeLength,
		cfg.Reset.LifetimeSeconds,
	)
	settingsService := services.NewSettingsService(settingsRepo, cfg.App.SettingsName)

	// Initialize handlers
	userHandler := handlers.NewUserHandler(userService)
	authHandler := handlers.NewAuthHandler(userService, resetService)
	announcementHandler := handlers.NewAnnouncementHandler(announcementService)
	settingsHandler := handlers.NewSettingsHandler(settingsService)

	// Setup router
	r := chi.NewRouter()

	// Middleware
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(corsMiddleware)

	// Routes
	r.Route("/api/v1", func(r chi.Router) {
		// Public routes: registration, login, password reset, listings
		r.Post("/users", userHandler.Register)
		r.Post("/auth/login", authHandler.Login)
		r.Post("/auth/password-reset", authHandler.PasswordReset)
		r.Post("/auth/password-reset/confirm", authHandler.PasswordResetConfirm)

		r.Get("/announcements", announcementHandler.List)
		r.Get("/announcements/user/{user_id}", announcementHandler.ListForUser)
		r.Get("/announcements/feed/{user_id}", announcementHandler.Feed)
		r.Get("/announcements/map", announcementHandler.Map)
		r.Get("/announcements/map/{user_id}", announcementHandler.MapForUser)
		r.Get("/announcements/{id}", announcementHandler.Get)
		r.Get("/settings", settingsHandler.Get)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(middleware.AuthMiddleware(userService))
			r.Get("/users/me", userHandler.Me)
			r.Post("/announcements", announcementHandler.Create)
			r.Put("/announcements/{id}", announcementHandler.Update)
			r.Delete("/announcements/{id}", announcementHandler.Delete)
		})
	})

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info().
			Str("host", cfg.Server.Host).
			Int("port", cfg.Server.Port).
			Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	// Shutdown HTTP server
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}

// setupLogger configures zerolog logger
func setupLogger(level string) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	switch level {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "info":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}

// corsMiddleware handles CORS
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
