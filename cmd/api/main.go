package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Paburo99/fitmind-backend/internal/auth"
	"github.com/Paburo99/fitmind-backend/internal/database"
	"github.com/Paburo99/fitmind-backend/internal/geminiservice"
	"github.com/Paburo99/fitmind-backend/internal/metrics"
	"github.com/Paburo99/fitmind-backend/internal/server"
	"github.com/Paburo99/fitmind-backend/internal/user"
)

func gracefulShutdown(apiServer *http.Server, done chan bool) {
	// Create context that listens for the interrupt signal from the OS.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Listen for the interrupt signal.
	<-ctx.Done()

	log.Info().Msg("shutting down gracefully, press Ctrl+C again to force")
	stop() // Allow Ctrl+C to force shutdown

	// The context is used to inform the server it has 5 seconds to finish
	// the request it is currently handling
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := apiServer.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown with error")
	}

	log.Info().Msg("Server exiting")

	// Notify the main goroutine that the shutdown is complete
	done <- true
}

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if os.Getenv("APP_ENV") != "production" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	ctx := context.Background()

	dbService, err := database.NewService(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("could not connect to the database")
	}
	defer dbService.Close()

	verifier, err := auth.NewVerifier()
	if err != nil {
		log.Fatal().Err(err).Msg("could not initialize token verification")
	}

	generator := geminiservice.NewClient()

	queries := dbService.Queries()
	handler := user.NewHandler(queries, metrics.New(queries), generator)

	apiServer := server.NewServer(dbService, handler, verifier)

	// Create a done channel to signal when the shutdown is complete
	done := make(chan bool, 1)

	// Run graceful shutdown in a separate goroutine
	go gracefulShutdown(apiServer, done)

	log.Info().Str("addr", apiServer.Addr).Msg("starting API server")
	if err := apiServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("http server error")
	}

	// Wait for the graceful shutdown to complete
	<-done
	log.Info().Msg("Graceful shutdown complete.")
}
