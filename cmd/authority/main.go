package main

import (
	"io"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/google/logger"

	"prizewheel/internal/authority"
	"prizewheel/internal/config"
)

func main() {
	// 1. Load configuration and initialize logging.
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	defer logger.Init("authority", true, false, io.Discard).Close()

	// 2. Initialize the authority over the default prize table.
	service := authority.NewService(authority.DefaultPrizes)

	// 3. Set up the Gin router and register the API routes.
	r := gin.Default()
	httpHandler := authority.NewHTTPHandler(service)
	httpHandler.RegisterRoutes(r)

	// 4. Run the server.
	logger.Infof("Authority server starting on %s", cfg.AuthorityListenAddr)
	if err := r.Run(cfg.AuthorityListenAddr); err != nil {
		log.Fatalf("Failed to run server: %v", err)
	}
}
