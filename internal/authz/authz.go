// Package authz содержит правила доступа к тикетам по ролям.
package authz

import (
	"github.com/psds-microservice/helpdesk-service/internal/errs"
	"github.com/psds-microservice/helpdesk-service/internal/model"
)

// CanView сообщает, видит ли пользователь данный тикет.
// Оператор видит все тикеты, клиент — только свои. Неизвестная роль
// отклоняется как невалидный ввод, а не трактуется как одна из известных.
func CanView(role model.Role, requesterID uint64, t *model.Ticket) (bool, error) {
	switch role {
	case model.RoleOperator:
		return true, nil
	case model.RoleClient:
		return t != nil && t.UserID == requesterID, nil
	}
	return false, errs.ErrInvalidRole
}

// CanMutate сообщает, может ли роль создавать и изменять тикеты.
func CanMutate(role model.Role) (bool, error) {
	switch role {
	case model.RoleOperator:
		return true, nil
	case model.RoleClient:
		return false, nil
	}
	return false, errs.ErrInvalidRole
}
