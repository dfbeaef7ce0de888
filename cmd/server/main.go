package main

import (
	"cafe_directory/internal/app"    // Application context
	"cafe_directory/internal/config" // Custom package for configuration
	"cafe_directory/internal/server" // Route table
	"context"                        // Startup and shutdown deadlines
	"errors"                         // Server close detection
	"net/http"                       // HTTP server
	"os"                             // Signals
	"os/signal"                      // Signal notification
	"syscall"                        // SIGTERM
	"time"                           // Timeouts

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logrus for structured logging
)

// Main function to set up and run the server
func main() {
	cfg, err := config.LoadConfig() // Load configuration
	if err != nil {
		logrus.Fatalf("failed to load config: %v", err)
	}

	// Setup logger
	if cfg.IsProd {
		logrus.SetFormatter(&logrus.JSONFormatter{})
		gin.SetMode(gin.ReleaseMode) // Set Mode to Release if in production
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Connect the database and the optional cache
	a, err := app.New(ctx, cfg)
	if err != nil {
		logrus.Fatalf("failed to start application: %v", err)
	}
	defer func() {
		if err := a.Close(); err != nil {
			logrus.Errorf("failed to close resources: %v", err)
		}
	}()

	r, err := server.NewRouter(a)
	if err != nil {
		logrus.Fatalf("failed to build router: %v", err)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.AppPort, // Listen address
		Handler:           r,                 // Gin engine
		ReadHeaderTimeout: 10 * time.Second,  // Slow client protection
		ReadTimeout:       30 * time.Second,  // Whole request
		WriteTimeout:      30 * time.Second,  // Whole response
	}
	go func() {
		logrus.Info("Server running on " + cfg.AppPort) // Log server start
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.Fatalf("server failed: %v", err)
		}
	}()

	<-ctx.Done() // Wait for SIGINT or SIGTERM
	logrus.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logrus.Errorf("graceful shutdown failed: %v", err)
	}
}
