package models

import (
	"time"

	"github.com/google/uuid"
)

// AccessClaims — фиксированный набор клеймов access-токена после валидации.
// Claims не читаются «по имени в месте использования»: декодирование отклоняет
// токен, если обязательное поле отсутствует (см. service/token.go).
type AccessClaims struct {
	UserID    uuid.UUID
	Email     string
	Role      string
	Admin     bool
	TokenID   string
	ExpiresAt time.Time
}
