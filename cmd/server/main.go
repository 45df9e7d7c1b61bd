package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/roadwatch/roadwatch/internal/accident"
	"github.com/roadwatch/roadwatch/internal/alert"
	"github.com/roadwatch/roadwatch/internal/auth"
	"github.com/roadwatch/roadwatch/internal/config"
	"github.com/roadwatch/roadwatch/internal/database"
	"github.com/roadwatch/roadwatch/internal/email"
	"github.com/roadwatch/roadwatch/internal/handler"
	"github.com/roadwatch/roadwatch/internal/logger"
	"github.com/roadwatch/roadwatch/internal/middleware"
	"github.com/roadwatch/roadwatch/internal/notice"
	"github.com/roadwatch/roadwatch/internal/repository"
	"github.com/roadwatch/roadwatch/internal/router"
	"github.com/roadwatch/roadwatch/internal/service"
	"github.com/roadwatch/roadwatch/internal/view"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.New(cfg.Log.Level, cfg.Log.Format)
	log.Info().Str("version", handler.Version).Msg("starting RoadWatch alert server")

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	// Connect to PostgreSQL only when a component reads from it
	var db *database.Postgres
	if cfg.NeedsDatabase() {
		db, err = database.NewPostgres(cfg.Database)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to database")
		}
		defer db.Close()
		log.Info().Msg("connected to PostgreSQL")
	}

	// Connect to Redis
	var rdb *database.Redis
	var notices notice.Publisher = notice.NewMemoryStore()
	if cfg.Redis.Enabled {
		rdb, err = database.NewRedis(cfg.Redis)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to Redis")
		}
		defer rdb.Close()
		notices = notice.NewRedisStore(rdb, cfg.Session.NoticeTTL)
		log.Info().Msg("connected to Redis")
	} else {
		log.Warn().Msg("redis disabled: notices kept in memory, rate limits off")
	}

	// Accident provider
	var provider accident.Provider
	switch cfg.Accidents.Source {
	case "database":
		provider = repository.NewAccidentRepository(db)
	default:
		provider = accident.NewClient(accident.ClientConfig{
			BaseURL:    cfg.Accidents.BaseURL,
			CacheTTL:   cfg.Accidents.CacheTTL,
			HTTPClient: &http.Client{Timeout: cfg.Accidents.Timeout},
		})
	}
	log.Info().Str("source", cfg.Accidents.Source).Msg("accident provider initialized")

	// Rescue-team directory
	var teams service.RescueTeamLister
	if db != nil {
		teams = repository.NewRescueTeamRepository(db)
	}
	directory, err := service.LoadDirectory(ctx, cfg.Directory, teams)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load rescue-team directory")
	}
	log.Info().Int("contacts", directory.Len()).Str("source", cfg.Directory.Source).Msg("directory loaded")

	// Mail transport
	sender, err := newSender(ctx, cfg.Mail)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize mail transport")
	}
	event := log.Info().Str("provider", cfg.Mail.Provider).Str("sender", cfg.Mail.SenderAddress)
	if smtp, ok := sender.(*email.SMTPSender); ok {
		event = event.Str("smtp_host", smtp.Host())
	}
	event.Msg("mail transport initialized")

	dispatcher := alert.NewDispatcher(sender, alert.Identity{
		Address: cfg.Mail.SenderAddress,
		Name:    cfg.Mail.SenderName,
	}, log)

	// Initialize services
	alertSvc := service.NewAlertService(view.Deps{
		Directory:  directory,
		Provider:   provider,
		Dispatcher: dispatcher,
		Notices:    notices,
		Log:        log,
	}, cfg.Session.IdleTTL, log)
	go alertSvc.Run(ctx)

	// Operator token validation
	var validator *auth.TokenValidator
	if cfg.Security.JWT.Disabled {
		log.Warn().Msg("operator authentication disabled")
	} else {
		validator, err = auth.NewTokenValidator(cfg.Security.JWT)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to initialize token validator")
		}
	}

	// Initialize handlers
	h := handler.New(db, rdb, log, cfg, alertSvc, notices)

	// Initialize middleware
	mw := middleware.New(rdb, log, cfg)

	// Set up router
	r := router.New(h, mw, cfg, validator)

	// Create HTTP server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("addr", addr).Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server error")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server...")
	stop()

	// Graceful shutdown with timeout; in-flight dispatches finish first
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}

// newSender builds the configured mail transport
func newSender(ctx context.Context, cfg config.MailConfig) (email.Sender, error) {
	switch cfg.Provider {
	case "gmail":
		return email.NewGmailSender(ctx, email.GmailConfig{
			CredentialsJSON: cfg.Gmail.CredentialsJSON,
			ClientID:        cfg.Gmail.ClientID,
			ClientSecret:    cfg.Gmail.ClientSecret,
			RefreshToken:    cfg.Gmail.RefreshToken,
			SenderAddress:   cfg.SenderAddress,
			SenderName:      cfg.SenderName,
		})
	default:
		return email.NewSMTPSender(email.SMTPConfig{
			Host:               cfg.SMTP.Host,
			Port:               cfg.SMTP.Port,
			Username:           cfg.SMTP.Username,
			Password:           cfg.SMTP.Password,
			SSL:                cfg.SMTP.SSL,
			InsecureSkipVerify: cfg.SMTP.InsecureSkipVerify,
			SenderAddress:      cfg.SenderAddress,
			SenderName:         cfg.SenderName,
		})
	}
}
