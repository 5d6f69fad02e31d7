// Package main initializes and starts the blog API server,
// setting up configuration, logging, database connections, repositories,
// the credential manager, services, handlers and optional TLS.
package main

import (
	"cmp"
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	nethttp "net/http"

	"github.com/atinyakov/quill/internal/config"
	"github.com/atinyakov/quill/internal/credential"
	"github.com/atinyakov/quill/internal/db"
	"github.com/atinyakov/quill/internal/logger"
	"github.com/atinyakov/quill/internal/repository"
	"github.com/atinyakov/quill/internal/server/handler/http"
	"github.com/atinyakov/quill/internal/service"
	"go.uber.org/zap"
)

var (
	// version holds the build version set via ldflags.
	version string
	// buildDate holds the build timestamp set via ldflags.
	buildDate string
)

const shutdownTimeout = 10 * time.Second

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

	// Initialize PostgreSQL connection.
	postgresDB, err := db.InitPostgres(options.DatabaseDSN)
	if err != nil {
		zapLogger.Fatal("cannot init database", zap.Error(err))
	}
	defer postgresDB.Close()

	// Deleting a post leaves its comments behind; sweep them periodically.
	db.StartOrphanCommentCleaner(ctx, postgresDB, options.CleanupInterval.Duration, zapLogger)

	userRepo := repository.NewPostgresUserRepository(postgresDB)
	postRepo := repository.NewPostgresPostRepository(postgresDB)
	commentRepo := repository.NewPostgresCommentRepository(postgresDB)

	credentials, err := credential.NewManager(options.BcryptCost)
	if err != nil {
		zapLogger.Fatal("invalid bcrypt cost", zap.Int("cost", options.BcryptCost), zap.Error(err))
	}
	zapLogger.Info("credential manager ready", zap.Int("bcrypt_cost", credentials.Cost()))

	// Initialize business-logic services.
	userService := service.NewUserService(userRepo, credentials, zapLogger)
	postService := service.NewPostService(postRepo)
	commentService := service.NewCommentService(commentRepo)
	statsService := service.NewStatsService(userRepo, postRepo)

	userHandler := &http.UserHandler{Users: userService, Stats: statsService}
	postHandler := &http.PostHandler{Posts: postService}
	commentHandler := &http.CommentHandler{Comments: commentService}

	// Build the router with middleware and routes.
	router := http.NewRouter(userHandler, postHandler, commentHandler, zapLogger, options.CORSOrigins)

	server := &nethttp.Server{
		Addr:              options.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if options.TLSEnabled() {
			server.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
			zapLogger.Info("starting HTTPS server", zap.String("addr", options.Port))
			errCh <- server.ListenAndServeTLS(options.TLSCert, options.TLSKey)
			return
		}
		zapLogger.Info("starting HTTP server", zap.String("addr", options.Port))
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, nethttp.ErrServerClosed) {
			zapLogger.Fatal("server stopped", zap.Error(err))
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
