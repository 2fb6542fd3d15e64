package main

import (
	"context"
	"io"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/google/logger"

	"prizewheel/internal/config"
	"prizewheel/internal/gateway"
	"prizewheel/internal/handlers"
	"prizewheel/internal/services"
	"prizewheel/internal/storage"
	"prizewheel/internal/wheel"
)

func main() {
	// 1. Load configuration and initialize logging.
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	defer logger.Init("wheel", true, false, io.Discard).Close()

	// 2. Open the persistent session store.
	store, err := storage.Open(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to open session store: %v", err)
	}
	defer store.Close()

	// 3. Build the spin session: authority gateway, animation driver and
	// the state machine recovering any persisted record.
	client := gateway.NewClient(cfg.APIBaseURL, cfg.APITimeout)
	driver := wheel.NewTimedDriver(cfg.SpinDuration)
	session := services.NewSession(context.Background(), store, client, driver)

	// 4. Set up the Gin router and register the presentation routes.
	r := gin.Default()
	httpHandler := handlers.NewHTTPHandler(session)
	httpHandler.RegisterRoutes(r)

	// 5. Run the server.
	logger.Infof("Session server starting on %s (phase %s)", cfg.ListenAddr, session.Phase())
	if err := r.Run(cfg.ListenAddr); err != nil {
		log.Fatalf("Failed to run server: %v", err)
	}
}
