// Package notify — best-effort побочные каналы: кэш публичных полей
// пользователей и тикетов в Redis. Ошибки здесь никогда не доходят до
// вызывающего кода — только в лог.
package notify

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/psds-microservice/helpdesk-service/internal/model"
)

// Cache пишет публичные поля сущностей в Redis. Если addr пустой,
// все методы — no-op.
type Cache struct {
	rdb *redis.Client
}

func NewCache(addr, password string) *Cache {
	if addr == "" {
		return &Cache{}
	}
	return &Cache{
		rdb: redis.NewClient(&redis.Options{
			Addr:         addr,
			Password:     password,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
		}),
	}
}

func userKey(id uint64) string   { return fmt.Sprintf("user:%d", id) }
func ticketKey(id uint64) string { return fmt.Sprintf("ticket:%d", id) }

// CacheUser кладёт публичные поля пользователя в хэш user:<id>.
func (c *Cache) CacheUser(ctx context.Context, u *model.User) {
	if c.rdb == nil || u == nil {
		return
	}
	fields := map[string]interface{}{
		"id_usuario": u.ID,
		"nombre":     u.Name,
		"rol":        string(u.Role),
	}
	if err := c.rdb.HSet(ctx, userKey(u.ID), fields).Err(); err != nil {
		log.Printf("cache: user %d: %v", u.ID, err)
	}
}

// CacheTicket кладёт публичные поля тикета в хэш ticket:<id>.
func (c *Cache) CacheTicket(ctx context.Context, t *model.Ticket) {
	if c.rdb == nil || t == nil {
		return
	}
	fields := map[string]interface{}{
		"id_ticket": t.ID,
		"asunto":    t.Subject,
		"estado":    string(t.State),
		"prioridad": string(t.Priority),
	}
	if err := c.rdb.HSet(ctx, ticketKey(t.ID), fields).Err(); err != nil {
		log.Printf("cache: ticket %d: %v", t.ID, err)
	}
}

// CacheUserAsync вызывает CacheUser в отдельной горутине (не блокирует ответ API).
func (c *Cache) CacheUserAsync(u *model.User) {
	if c.rdb == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		c.CacheUser(ctx, u)
	}()
}

// CacheTicketAsync вызывает CacheTicket в отдельной горутине.
func (c *Cache) CacheTicketAsync(t *model.Ticket) {
	if c.rdb == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		c.CacheTicket(ctx, t)
	}()
}

// Close закрывает соединение с Redis.
func (c *Cache) Close() error {
	if c.rdb == nil {
		return nil
	}
	return c.rdb.Close()
}
