package config

import (
	"log"
	"os"
	"strconv"
	"time"

	game_constants "cardparty/constants/game"

	"github.com/joho/godotenv"
)

// Config is the process configuration, read once from the environment.
type Config struct {
	Port        string
	RedisURL    string
	HandSize    int
	RoundLength time.Duration
	PartyTTL    time.Duration
	Expansion   string
	JWTSecret   string
	SessionKey  string
	Prod        bool
}

// Load reads .env (when present) and the environment, applying defaults.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("[CONFIG] No .env file found, using environment")
	}

	cfg := &Config{
		Port:        getEnv("PORT", "8080"),
		RedisURL:    getEnv("REDIS_URL", "localhost:6379"),
		HandSize:    getEnvInt("HAND_SIZE", game_constants.DefaultHandSize),
		RoundLength: time.Duration(getEnvInt("ROUND_SECONDS", game_constants.DefaultRoundSeconds)) * time.Second,
		PartyTTL:    time.Duration(getEnvInt("PARTY_TTL_MINUTES", game_constants.DefaultPartyTTLMinutes)) * time.Minute,
		Expansion:   getEnv("CARD_EXPANSION", "Base"),
		JWTSecret:   getEnv("JWT_SECRET", "secret"),
		SessionKey:  getEnv("SESSION_KEY", "secret"),
		Prod:        os.Getenv("PROD") == "true",
	}
	return cfg
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("[CONFIG] Invalid %s=%q, using default %d", key, value, fallback)
		return fallback
	}
	return n
}
