package main

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/PabloGalante/timetable-bot/internal/adapters/console"
	httpadapter "github.com/PabloGalante/timetable-bot/internal/adapters/http"
	firestorestore "github.com/PabloGalante/timetable-bot/internal/adapters/storage/firestore"
	memstore "github.com/PabloGalante/timetable-bot/internal/adapters/storage/memory"
	pgstore "github.com/PabloGalante/timetable-bot/internal/adapters/storage/postgres"
	redisstore "github.com/PabloGalante/timetable-bot/internal/adapters/storage/redis"
	"github.com/PabloGalante/timetable-bot/internal/app/auth"
	"github.com/PabloGalante/timetable-bot/internal/app/conversation"
	"github.com/PabloGalante/timetable-bot/internal/app/dialog"
	"github.com/PabloGalante/timetable-bot/internal/app/export"
	"github.com/PabloGalante/timetable-bot/internal/app/timetable"
	"github.com/PabloGalante/timetable-bot/internal/config"
	"github.com/PabloGalante/timetable-bot/internal/domain"
	"github.com/PabloGalante/timetable-bot/internal/observability"
)

const shutdownTimeout = 10 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// In console mode stdout belongs to the chat.
	logOut := io.Writer(os.Stdout)
	if cfg.Transport == config.TransportConsole {
		logOut = os.Stderr
	}
	log := observability.Setup(logOut, cfg.LogLevel, cfg.LogFormat)

	// Storage: Memory, Firestore or Postgres
	stores, closeStores, err := openStores(ctx, cfg)
	if err != nil {
		log.Error("failed to open storage", "backend", cfg.StorageBackend, "error", err)
		os.Exit(1)
	}
	defer closeStores()

	sessions, closeSessions, err := openSessions(ctx, cfg)
	if err != nil {
		log.Error("failed to open session store", "backend", cfg.SessionBackend, "error", err)
		os.Exit(1)
	}
	defer closeSessions()

	// Services
	tt := timetable.NewService(stores, timetable.WithClock(func() time.Time {
		return time.Now().In(cfg.Location)
	}))
	authSvc := auth.NewService(stores, auth.Config{
		Username:     cfg.AdminUsername,
		Password:     cfg.AdminPassword,
		PasswordHash: cfg.AdminPasswordHash,
		Secret:       []byte(cfg.JWTSecret),
		TokenTTL:     cfg.JWTTTL,
	})

	engine := dialog.NewEngine(sessions,
		dialog.NewSelectionController(stores, stores),
		dialog.NewLoginController(authSvc),
		dialog.NewGroupController(stores),
		dialog.NewScheduleController(stores, stores, tt),
	)
	svc := conversation.NewService(engine, tt, stores, stores, authSvc)

	if cfg.Transport == config.TransportConsole {
		c := console.New(svc, domain.Profile{ChatID: "console", Username: os.Getenv("USER")})
		if err := c.Run(ctx); err != nil {
			log.Error("console stopped", "error", err)
			os.Exit(1)
		}
		return
	}

	handler := httpadapter.NewServer(httpadapter.Deps{
		Conversation: svc,
		Auth:         authSvc,
		Groups:       stores,
		Timetable:    tt,
		Export:       export.NewService(stores, tt),
	})
	serveHTTP(ctx, log, ":"+cfg.Port, handler)
}

func serveHTTP(ctx context.Context, log *slog.Logger, addr string, handler http.Handler) {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("timetable-bot listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			log.Error("http server failed", "error", err)
			os.Exit(1)
		}
	case <-ctx.Done():
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("graceful shutdown failed", "error", err)
		}
	}
}

func openStores(ctx context.Context, cfg *config.Config) (domain.Stores, func(), error) {
	log := observability.WithFields("component", "storage")

	switch cfg.StorageBackend {
	case config.StorageFirestore:
		log.Info("using firestore storage", "project", cfg.GCPProjectID)
		s, err := firestorestore.NewStore(ctx, cfg.GCPProjectID)
		if err != nil {
			return nil, nil, err
		}
		return s, func() { _ = s.Close() }, nil

	case config.StoragePostgres:
		log.Info("using postgres storage")
		s, err := pgstore.Open(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, nil, err
		}
		return s, func() { _ = s.Close() }, nil

	default:
		log.Info("using in-memory storage")
		return memstore.NewStore(), func() {}, nil
	}
}

func openSessions(ctx context.Context, cfg *config.Config) (dialog.SessionStore, func(), error) {
	log := observability.WithFields("component", "sessions")

	if cfg.SessionBackend == config.SessionsRedis {
		log.Info("using redis sessions", "addr", cfg.RedisAddr)
		s, err := redisstore.Dial(ctx, redisstore.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			TTL:      cfg.SessionTTL,
		})
		if err != nil {
			return nil, nil, err
		}
		return s, func() { _ = s.Close() }, nil
	}

	log.Info("using in-memory sessions")
	return memstore.NewSessionStore(), func() {}, nil
}
