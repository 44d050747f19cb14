/*
Package server implements the application's network transport layer.
It initializes the HTTP server, configures timeouts, and wires the
handlers onto the router.
*/
package server

import (
	"fmt"
	"net/http"
	"os"
	"strconv"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/labstack/echo/v4"

	"github.com/Paburo99/fitmind-backend/internal/auth"
	"github.com/Paburo99/fitmind-backend/internal/database"
	"github.com/Paburo99/fitmind-backend/internal/user"
)

// Server defines the configuration and dependencies for the HTTP service.
type Server struct {
	// port specifies the TCP port the server will listen on.
	port int

	// db provides access to the database service and connection pool.
	db database.Service

	// handler holds the authenticated API handlers.
	handler *user.Handler

	// verifier validates bearer tokens on protected routes.
	verifier *auth.Verifier

	// Echo is the underlying web framework instance.
	*echo.Echo
}

// NewServer wires the dependencies into a configured *http.Server.
// It reads the listen port from the environment and sets
// production-ready network timeouts.
func NewServer(db database.Service, handler *user.Handler, verifier *auth.Verifier) *http.Server {
	// Fallback to 8080 if PORT is not set or invalid.
	port, err := strconv.Atoi(os.Getenv("PORT"))
	if err != nil || port == 0 {
		port = 8080
	}

	newApp := &Server{
		port:     port,
		db:       db,
		handler:  handler,
		verifier: verifier,
	}

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", newApp.port),
		Handler:      newApp.RegisterRoutes(), // Injected from routes.go
		IdleTimeout:  time.Minute,             // Time to wait for the next request on keep-alive connections.
		ReadTimeout:  10 * time.Second,        // Maximum duration for reading the entire request.
		WriteTimeout: 60 * time.Second,        // Generation endpoints block on the model call.
	}

	return server
}
