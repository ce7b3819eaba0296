package service

import (
	"fmt"

	"github.com/apetrova/go-bookstore-auth/internal/models"

	"github.com/google/uuid"
)

// Policy — именованная политика доступа к эндпойнту.
// Решение принимается до бизнес-логики обработчика (шлюз в transport/http).
type Policy string

const (
	// PolicyUser — доступ любой аутентифицированной роли (user или admin).
	PolicyUser Policy = "user"
	// PolicyAdmin — доступ только роли admin.
	PolicyAdmin Policy = "admin"
)

// CheckPolicy сопоставляет роль из клеймов требуемой политике.
// Отказ — ErrPermissionDenied без деталей о причине.
func CheckPolicy(role string, policy Policy) error {
	const op = "service.authz.CheckPolicy"

	switch policy {
	case PolicyUser:
		if role == models.RoleUser || role == models.RoleAdmin {
			return nil
		}
	case PolicyAdmin:
		if role == models.RoleAdmin {
			return nil
		}
	}

	return fmt.Errorf("%s: %w", op, ErrPermissionDenied)
}

// OwnerOrAdmin разрешает операцию, если субъект — администратор либо владелец
// ресурса. Используется для self-service операций над профилем.
func OwnerOrAdmin(subjectID, ownerID uuid.UUID, role string) error {
	const op = "service.authz.OwnerOrAdmin"

	if role == models.RoleAdmin || subjectID == ownerID {
		return nil
	}

	return fmt.Errorf("%s: %w", op, ErrPermissionDenied)
}
