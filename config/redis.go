package config

import (
	"cardparty/services/redis"
	"log"
)

// Connect to Redis
func Connect_redis(redisURL string) (*redis.RedisClient, error) {
	redisClient, err := redis.InitRedis(redisURL, 0)
	if err != nil {
		log.Printf("[CONFIG] Error connecting to Redis: %v", err)
		return nil, err
	}
	log.Println("[CONFIG] Redis connection established")
	return redisClient, nil
}
