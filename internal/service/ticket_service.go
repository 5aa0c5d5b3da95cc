package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/psds-microservice/helpdesk-service/internal/authz"
	"github.com/psds-microservice/helpdesk-service/internal/errs"
	"github.com/psds-microservice/helpdesk-service/internal/kafka"
	"github.com/psds-microservice/helpdesk-service/internal/model"
	"github.com/psds-microservice/helpdesk-service/internal/notify"
)

type TicketService struct {
	db       *gorm.DB
	cache    *notify.Cache
	producer kafka.TicketTaskProducer
}

func NewTicketService(db *gorm.DB, cache *notify.Cache, producer kafka.TicketTaskProducer) *TicketService {
	return &TicketService{db: db, cache: cache, producer: producer}
}

type CreateTicketInput struct {
	ClientEmail string
	Subject     string
	Description string
	Priority    model.TicketPriority
}

// requireOperator разрешает действующего пользователя и проверяет право
// изменять тикеты. Неизвестный id — errs.ErrForbidden, как и роль клиента.
func (s *TicketService) requireOperator(ctx context.Context, operatorID uint64) (*model.User, error) {
	var u model.User
	if err := s.db.WithContext(ctx).First(&u, operatorID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.ErrForbidden
		}
		return nil, err
	}
	ok, err := authz.CanMutate(u.Role)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errs.ErrForbidden
	}
	return &u, nil
}

// notifyTicket — best-effort каналы после коммита: кэш и задача воркеру.
// Выполняются вне транзакции, их сбои не влияют на результат операции.
func (s *TicketService) notifyTicket(event string, t *model.Ticket) {
	s.cache.CacheTicketAsync(t)
	if s.producer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		go func() {
			defer cancel()
			s.producer.EnqueueTicketTask(ctx, event, t.ID)
		}()
	}
}

// Create создаёт тикет от имени оператора для клиента, найденного по
// email. Состояние всегда open, что бы ни прислал вызывающий. Тикет и
// стартовая запись аудита пишутся в одной транзакции.
func (s *TicketService) Create(ctx context.Context, operatorID uint64, in CreateTicketInput) (*model.Ticket, error) {
	op, err := s.requireOperator(ctx, operatorID)
	if err != nil {
		return nil, err
	}
	var client model.User
	if err := s.db.WithContext(ctx).Where("email = ?", in.ClientEmail).First(&client).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.ErrUserNotFound
		}
		return nil, err
	}

	ticket := &model.Ticket{
		UserID:      client.ID,
		Subject:     in.Subject,
		Description: in.Description,
		State:       model.TicketStateOpen,
		Priority:    in.Priority,
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(ticket).Error; err != nil {
			return err
		}
		interaction := &model.Interaction{
			TicketID: ticket.ID,
			Author:   model.RoleOperator,
			Message: fmt.Sprintf("Ticket created by operator %s for client %s (%s), subject: %s",
				op.Name, client.Name, client.Email, in.Subject),
		}
		return tx.Create(interaction).Error
	})
	if err != nil {
		return nil, err
	}
	s.notifyTicket("ticket.created", ticket)
	return ticket, nil
}

// ChangeState переводит тикет в новое состояние. Совпадающее значение —
// no-op без записи аудита и без уведомлений. Граф переходов не
// ограничен: любое состояние может смениться любым другим.
func (s *TicketService) ChangeState(ctx context.Context, operatorID, ticketID uint64, newState model.TicketState) (*model.Ticket, error) {
	if _, err := s.requireOperator(ctx, operatorID); err != nil {
		return nil, err
	}
	var ticket model.Ticket
	changed := false
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&ticket, ticketID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errs.ErrTicketNotFound
			}
			return err
		}
		if ticket.State == newState {
			return nil
		}
		old := ticket.State
		if err := tx.Model(&ticket).Update("estado", newState).Error; err != nil {
			return err
		}
		interaction := &model.Interaction{
			TicketID: ticket.ID,
			Author:   model.RoleOperator,
			Message:  fmt.Sprintf("State changed from '%s' to '%s'", old, newState),
		}
		if err := tx.Create(interaction).Error; err != nil {
			return err
		}
		changed = true
		return nil
	})
	if err != nil {
		return nil, err
	}
	if changed {
		s.notifyTicket("ticket.updated", &ticket)
	}
	return &ticket, nil
}

// ChangePriority — та же схема, что и ChangeState, для приоритета.
// Возвращает обновлённый тикет, чтобы вызывающий мог пересинхронизироваться.
func (s *TicketService) ChangePriority(ctx context.Context, operatorID, ticketID uint64, newPriority model.TicketPriority) (*model.Ticket, error) {
	if _, err := s.requireOperator(ctx, operatorID); err != nil {
		return nil, err
	}
	var ticket model.Ticket
	changed := false
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&ticket, ticketID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errs.ErrTicketNotFound
			}
			return err
		}
		if ticket.Priority == newPriority {
			return nil
		}
		old := ticket.Priority
		if err := tx.Model(&ticket).Update("prioridad", newPriority).Error; err != nil {
			return err
		}
		interaction := &model.Interaction{
			TicketID: ticket.ID,
			Author:   model.RoleOperator,
			Message:  fmt.Sprintf("Priority changed from '%s' to '%s'", old, newPriority),
		}
		if err := tx.Create(interaction).Error; err != nil {
			return err
		}
		changed = true
		return nil
	})
	if err != nil {
		return nil, err
	}
	if changed {
		s.notifyTicket("ticket.updated", &ticket)
	}
	return &ticket, nil
}

// List возвращает тикеты по роли: оператор видит все, клиент — только
// свои. Сортировка — по времени создания, новые первыми.
func (s *TicketService) List(ctx context.Context, userID uint64, role model.Role) ([]model.Ticket, error) {
	tx := s.db.WithContext(ctx).Model(&model.Ticket{})
	switch role {
	case model.RoleOperator:
	case model.RoleClient:
		tx = tx.Where("id_usuario = ?", userID)
	default:
		return nil, errs.ErrInvalidRole
	}
	items := []model.Ticket{}
	if err := tx.Order("fecha_creacion DESC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// Get возвращает тикет с проверкой видимости по роли.
func (s *TicketService) Get(ctx context.Context, ticketID, userID uint64, role model.Role) (*model.Ticket, error) {
	var ticket model.Ticket
	if err := s.db.WithContext(ctx).First(&ticket, ticketID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.ErrTicketNotFound
		}
		return nil, err
	}
	ok, err := authz.CanView(role, userID, &ticket)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errs.ErrForbidden
	}
	return &ticket, nil
}

// History возвращает записи аудита тикета, старые первыми. Пустая
// история существующего тикета — пустой срез; несуществующий тикет —
// errs.ErrTicketNotFound, вызывающий обязан их различать.
func (s *TicketService) History(ctx context.Context, ticketID uint64) ([]model.Interaction, error) {
	var items []model.Interaction
	if err := s.db.WithContext(ctx).
		Where("id_ticket = ?", ticketID).
		Order("fecha_creacion ASC").
		Find(&items).Error; err != nil {
		return nil, err
	}
	if len(items) == 0 {
		var ticket model.Ticket
		if err := s.db.WithContext(ctx).Select("id_ticket").First(&ticket, ticketID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, errs.ErrTicketNotFound
			}
			return nil, err
		}
		return []model.Interaction{}, nil
	}
	return items, nil
}
