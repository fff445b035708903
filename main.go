package main

import (
	"log"
	"os"
	"time"

	"cardparty/config"
	_ "cardparty/config/swagger"
	"cardparty/middleware"
	"cardparty/routes"
	"cardparty/services/catalog"
	"cardparty/services/game"
	"cardparty/services/redis"
	"cardparty/services/socket_io"
	"cardparty/services/votes"
	"cardparty/utils"

	"github.com/gin-gonic/gin"
)

// @title Cardparty API
// @version 1.0
// @description Gin-Gonic server for the party-game card API
// @BasePath /
func main() {
	cfg := config.Load()
	log.Println("Setting up server...")

	if cfg.Prod {
		gin.SetMode(gin.ReleaseMode)
	}

	redisClient, err := config.Connect_redis(cfg.RedisURL)
	if err != nil {
		log.Fatalf("Error connecting to Redis: %v", err)
	}
	defer redis.CloseRedis(redisClient)

	catalogService := catalog.NewService(redisClient)
	if err := catalogService.SeedOfficialCards(catalog.OfficialCards()); err != nil {
		log.Fatalf("Error seeding official cards: %v", err)
	}

	ledger := votes.NewLedger(redisClient)
	gate := utils.NewRecentSubmissionGate(5 * time.Minute)

	registry := game.NewRegistry(catalogService, game.RegistryConfig{
		HandSize:    cfg.HandSize,
		RoundLength: cfg.RoundLength,
		Expansion:   cfg.Expansion,
		PartyTTL:    cfg.PartyTTL,
	})
	if err := registry.StartSweeper(); err != nil {
		log.Fatalf("Error starting party sweeper: %v", err)
	}
	defer registry.Stop()

	r := gin.Default()

	middleware.SetUpMiddleware(r, cfg.SessionKey)

	routes.SetupRoutes(r, catalogService, ledger, gate, cfg.JWTSecret)

	var sio socket_io.MySocketServer
	sio.Start(r, registry)

	port := cfg.Port
	if os.Getenv("USE_HTTPS") == "true" {
		certFile := os.Getenv("TLS_CERT_FILE")
		keyFile := os.Getenv("TLS_KEY_FILE")

		if err := r.RunTLS(":"+port, certFile, keyFile); err != nil {
			log.Fatalf("Error starting server: %v", err)
		}
	} else {
		if err := r.Run(":" + port); err != nil {
			log.Fatalf("Error starting server: %v", err)
		}
	}
	log.Printf("Server started on port %s", port)
}
