package cmd

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/psds-microservice/helpdesk-service/internal/config"
	"github.com/psds-microservice/helpdesk-service/internal/database"
	"github.com/psds-microservice/helpdesk-service/internal/model"
	"github.com/psds-microservice/helpdesk-service/internal/notify"
)

var warmCacheCmd = &cobra.Command{
	Use:   "warm-cache",
	Short: "Push public fields of all users and tickets into the Redis cache",
	RunE:  runWarmCache,
}

func init() {
	rootCmd.AddCommand(warmCacheCmd)
}

func runWarmCache(cmd *cobra.Command, args []string) error {
	_ = godotenv.Load(".env")
	_ = godotenv.Load("../.env")
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if cfg.RedisAddr == "" {
		log.Println("warm-cache: REDIS_ADDR not set, nothing to do")
		return nil
	}
	conn, err := database.Open(cfg.DSN())
	if err != nil {
		return fmt.Errorf("db: %w", err)
	}

	cache := notify.NewCache(cfg.RedisAddr, cfg.RedisPassword)
	defer cache.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	var users []model.User
	if err := conn.WithContext(ctx).Find(&users).Error; err != nil {
		return fmt.Errorf("list users: %w", err)
	}
	for i := range users {
		cache.CacheUser(ctx, &users[i])
		if (i+1)%50 == 0 || i == len(users)-1 {
			log.Printf("warm-cache: cached %d/%d users", i+1, len(users))
		}
	}

	var tickets []model.Ticket
	if err := conn.WithContext(ctx).Find(&tickets).Error; err != nil {
		return fmt.Errorf("list tickets: %w", err)
	}
	for i := range tickets {
		cache.CacheTicket(ctx, &tickets[i])
		if (i+1)%50 == 0 || i == len(tickets)-1 {
			log.Printf("warm-cache: cached %d/%d tickets", i+1, len(tickets))
		}
	}

	log.Printf("warm-cache: done, %d users and %d tickets", len(users), len(tickets))
	return nil
}
