package main

import (
	"context"
	"log"
	"strings"

	"github.com/meilisearch/meilisearch-go"
	"github.com/redis/go-redis/v9"
	"stackit.dev/forum/internal/bootstrap"
	"stackit.dev/forum/internal/config"
	"stackit.dev/forum/internal/server"
	"stackit.dev/forum/pkg/database"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	db := database.Connect()
	if err := bootstrap.Migrate(db); err != nil {
		log.Fatalf("migration failed: %v", err)
	}
	if err := bootstrap.SeedRoles(db); err != nil {
		log.Fatalf("failed to seed roles: %v", err)
	}
	if err := bootstrap.SeedTags(db); err != nil {
		log.Fatalf("failed to seed tags: %v", err)
	}
	if cfg.AppEnv == "development" {
		if err := bootstrap.SeedAdminUser(db); err != nil {
			log.Fatalf("failed to seed admin user: %v", err)
		}
	}

	redisClient := connectRedis(cfg)
	meiliClient := connectMeilisearch(cfg)

	srv := server.NewServer(cfg, db, redisClient, meiliClient)

	log.Printf("listening on :%s", cfg.Port)
	if err := srv.Run(":" + cfg.Port); err != nil {
		log.Fatalf("server exited with error: %v", err)
	}
}

// connectRedis returns nil when REDIS_URL is unset or unreachable; the
// services degrade gracefully without it.
func connectRedis(cfg *config.Config) *redis.Client {
	if cfg.RedisURL == "" {
		log.Println("REDIS_URL not set, running without redis")
		return nil
	}

	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		log.Printf("invalid REDIS_URL, running without redis: %v", err)
		return nil
	}

	client := redis.NewClient(opts)
	if err := client.Ping(context.Background()).Err(); err != nil {
		log.Printf("redis unreachable, running without redis: %v", err)
		return nil
	}

	log.Println("connected to redis")
	return client
}

func connectMeilisearch(cfg *config.Config) meilisearch.ServiceManager {
	if cfg.MeiliSearchHost == "" {
		log.Println("MEILISEARCH_HOST not set, running without search indexing")
		return nil
	}

	host := cfg.MeiliSearchHost
	if !strings.HasPrefix(host, "http") {
		host = "http://" + host + ":7700"
	}

	log.Println("connected to meilisearch")
	return meilisearch.New(host, meilisearch.WithAPIKey(cfg.MeiliMasterKey))
}
