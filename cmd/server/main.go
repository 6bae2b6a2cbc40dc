// Package main initializes and starts the GophNotes HTTP server, setting up
// configuration, logging, the selected store, services, handlers and
// optional TLS.
package main

import (
	"cmp"
	"context"
	"crypto/rand"
	"crypto/tls"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	nethttp "net/http"

	"github.com/atinyakov/GophNotes/internal/auth"
	"github.com/atinyakov/GophNotes/internal/config"
	"github.com/atinyakov/GophNotes/internal/logger"
	"github.com/atinyakov/GophNotes/internal/middleware"
	"github.com/atinyakov/GophNotes/internal/server/handler/http"
	"github.com/atinyakov/GophNotes/internal/service"
	"go.uber.org/zap"
)

var (
	// version holds the build version set via ldflags.
	version string
	// buildDate holds the build timestamp set via ldflags.
	buildDate string
)

const shutdownTimeout = 5 * time.Second

func main() {
	// Parse command-line, config file and environment configuration.
	options := config.Parse()

	// Print build metadata (or "N/A" if unset).
	fmt.Printf("Build version: %s\n", cmp.Or(version, "N/A"))
	fmt.Printf("Build date: %s\n", cmp.Or(buildDate, "N/A"))

	// Initialize structured logging.
	log := logger.New()
	defer func() { _ = log.Log.Sync() }()
	if err := log.Init(options.LogLevel); err != nil {
		fmt.Fprintf(os.Stderr, "failed to init logger: %v\n", err)
		os.Exit(1)
	}
	zapLogger := log.Log

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Open the configured store.
	st, err := openStore(ctx, options, zapLogger)
	if err != nil {
		zapLogger.Fatal("cannot init store", zap.Error(err), zap.String("storage", options.Storage))
	}
	defer func() {
		if err := st.close(); err != nil {
			zapLogger.Warn("closing store", zap.Error(err))
		}
	}()

	secret := []byte(options.JWTSecret)
	if len(secret) == 0 {
		secret = make([]byte, 32)
		if _, err := rand.Read(secret); err != nil {
			zapLogger.Fatal("cannot generate jwt secret", zap.Error(err))
		}
		zapLogger.Warn("no jwt secret configured; tokens will not survive a restart")
	}

	// Credential primitives.
	hasher := auth.NewBcryptHasher(options.BcryptCost)
	issuer := auth.NewJWTIssuer(secret, options.TokenTTL)

	// Business-logic services.
	accountService := service.NewAccountService(st.users, hasher)
	authService := service.NewAuthService(accountService, st.users, hasher, issuer)
	noteService := service.NewNoteService(st.notes)

	// HTTP handlers.
	handlers := http.Handlers{
		Auth:   &http.AuthHandler{AuthService: authService, Log: zapLogger},
		Users:  &http.UserHandler{Accounts: accountService, Log: zapLogger},
		Notes:  &http.NoteHandler{Notes: noteService, Log: zapLogger},
		Health: &http.HealthHandler{Store: st.pinger, Log: zapLogger},
	}

	var verifier middleware.TokenVerifier
	if options.AuthRequired {
		verifier = issuer
	} else {
		zapLogger.Warn("bearer authentication disabled")
	}

	// Build the router with middleware and routes.
	router := http.NewRouter(handlers, verifier, zapLogger)

	server := &nethttp.Server{
		Addr:              options.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	useTLS := options.TLSCert != "" && options.TLSKey != ""
	if useTLS {
		cert, err := tls.LoadX509KeyPair(options.TLSCert, options.TLSKey)
		if err != nil {
			zapLogger.Fatal("failed to load server TLS cert/key", zap.Error(err))
		}
		server.TLSConfig = &tls.Config{
			Certificates: []tls.Certificate{cert},
			MinVersion:   tls.VersionTLS12,
		}
	}

	errCh := make(chan error, 1)
	go func() {
		zapLogger.Info("starting server",
			zap.String("addr", options.Port),
			zap.Bool("tls", useTLS),
			zap.String("storage", options.Storage),
		)
		if useTLS {
			errCh <- server.ListenAndServeTLS("", "")
		} else {
			errCh <- server.ListenAndServe()
		}
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, nethttp.ErrServerClosed) {
			zapLogger.Error("server stopped", zap.Error(err))
		}
	case <-ctx.Done():
		zapLogger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			zapLogger.Error("graceful shutdown failed", zap.Error(err))
		}
	}
}
