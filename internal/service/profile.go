package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/apetrova/go-bookstore-auth/internal/models"
	"github.com/apetrova/go-bookstore-auth/internal/storage"

	"github.com/google/uuid"
)

// UserByID возвращает пользователя по ID (профильные операции).
// Проверка «владелец или админ» выполняется вызывающей стороной через
// OwnerOrAdmin до обращения сюда.
func (s *Service) UserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	const op = "service.profile.UserByID"

	user, err := s.storage.UserByID(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrUserNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return user, nil
}
