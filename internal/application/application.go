package application

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/psds-microservice/helpdesk-service/internal/config"
	"github.com/psds-microservice/helpdesk-service/internal/database"
	"github.com/psds-microservice/helpdesk-service/internal/handler"
	"github.com/psds-microservice/helpdesk-service/internal/kafka"
	"github.com/psds-microservice/helpdesk-service/internal/notify"
	"github.com/psds-microservice/helpdesk-service/internal/router"
	"github.com/psds-microservice/helpdesk-service/internal/service"
)

// API — приложение для режима api: HTTP-сервер плюс best-effort каналы
// (Redis-кэш, Kafka-продюсер), закрываемые при остановке.
type API struct {
	cfg      *config.Config
	httpSrv  *http.Server
	cache    *notify.Cache
	producer *kafka.Producer
}

// NewAPI создаёт приложение: применяет миграции, открывает БД и собирает
// зависимости явно, без глобального состояния.
func NewAPI(cfg *config.Config) (*API, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := database.MigrateUp(cfg.DatabaseURL()); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	db, err := database.Open(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("database: %w", err)
	}

	cache := notify.NewCache(cfg.RedisAddr, cfg.RedisPassword)
	producer := kafka.NewProducer(cfg.KafkaBrokers, cfg.KafkaTopicTicket)

	userSvc := service.NewUserService(db, cache)
	ticketSvc := service.NewTicketService(db, cache, producer)

	userHandler := handler.NewUserHandler(userSvc)
	ticketHandler := handler.NewTicketHandler(ticketSvc)

	httpSrv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router.New(userHandler, ticketHandler),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	return &API{
		cfg:      cfg,
		httpSrv:  httpSrv,
		cache:    cache,
		producer: producer,
	}, nil
}

// Run запускает HTTP-сервер и блокируется до отмены ctx.
func (a *API) Run(ctx context.Context) error {
	host := a.cfg.AppHost
	if host == "0.0.0.0" {
		host = "localhost"
	}
	base := "http://" + host + ":" + a.cfg.HTTPPort
	log.Printf("HTTP server listening on %s", a.httpSrv.Addr)
	log.Printf("  Swagger UI:   %s/swagger", base)
	log.Printf("  Swagger spec: %s/swagger/openapi.json", base)
	log.Printf("  Health:       %s/health", base)
	log.Printf("  Ready:        %s/ready", base)

	go func() {
		if err := a.httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("http: %v", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := a.httpSrv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	if err := a.producer.Close(); err != nil {
		log.Printf("kafka: close: %v", err)
	}
	if err := a.cache.Close(); err != nil {
		log.Printf("cache: close: %v", err)
	}
	return nil
}
