package model

import (
	"time"

	"github.com/psds-microservice/helpdesk-service/internal/errs"
)

type Role string

const (
	RoleClient   Role = "client"
	RoleOperator Role = "operator"
)

type TicketState string

const (
	TicketStateOpen       TicketState = "open"
	TicketStateInProgress TicketState = "in_progress"
	TicketStateClosed     TicketState = "closed"
)

type TicketPriority string

const (
	TicketPriorityLow    TicketPriority = "low"
	TicketPriorityMedium TicketPriority = "medium"
	TicketPriorityHigh   TicketPriority = "high"
)

// ParseRole валидирует строковое значение роли. Единственная точка
// валидации enum-значений для модели и HTTP-слоя.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleClient, RoleOperator:
		return Role(s), nil
	}
	return "", errs.ErrInvalidRole
}

func ParseTicketState(s string) (TicketState, error) {
	switch TicketState(s) {
	case TicketStateOpen, TicketStateInProgress, TicketStateClosed:
		return TicketState(s), nil
	}
	return "", errs.ErrInvalidState
}

func ParseTicketPriority(s string) (TicketPriority, error) {
	switch TicketPriority(s) {
	case TicketPriorityLow, TicketPriorityMedium, TicketPriorityHigh:
		return TicketPriority(s), nil
	}
	return "", errs.ErrInvalidPriority
}

type User struct {
	ID        uint64    `gorm:"column:id_usuario;primaryKey" json:"id_usuario"`
	Name      string    `gorm:"column:nombre;type:varchar(100);not null" json:"nombre"`
	Email     string    `gorm:"column:email;type:varchar(150);uniqueIndex;not null" json:"email"`
	Role      Role      `gorm:"column:rol;type:varchar(32);not null" json:"rol"`
	CreatedAt time.Time `gorm:"column:fecha_creacion" json:"fecha_creacion"`
}

func (User) TableName() string { return "usuarios" }

type Ticket struct {
	ID          uint64         `gorm:"column:id_ticket;primaryKey" json:"id_ticket"`
	UserID      uint64         `gorm:"column:id_usuario;index;not null" json:"id_usuario"`
	Subject     string         `gorm:"column:asunto;type:varchar(200);not null" json:"asunto"`
	Description string         `gorm:"column:descripcion;type:text" json:"descripcion"`
	State       TicketState    `gorm:"column:estado;type:varchar(32);index;not null" json:"estado"`
	Priority    TicketPriority `gorm:"column:prioridad;type:varchar(32);index;not null" json:"prioridad"`
	CreatedAt   time.Time      `gorm:"column:fecha_creacion" json:"fecha_creacion"`
}

func (Ticket) TableName() string { return "tickets" }

// Interaction — неизменяемая запись аудита жизненного цикла тикета.
// Только вставка; правок и удалений нет.
type Interaction struct {
	ID        uint64    `gorm:"column:id_interaccion;primaryKey" json:"id_interaccion"`
	TicketID  uint64    `gorm:"column:id_ticket;index;not null" json:"id_ticket"`
	Author    Role      `gorm:"column:autor;type:varchar(32);not null" json:"autor"`
	Message   string    `gorm:"column:mensaje;type:text;not null" json:"mensaje"`
	CreatedAt time.Time `gorm:"column:fecha_creacion" json:"fecha_creacion"`
}

func (Interaction) TableName() string { return "interacciones" }
