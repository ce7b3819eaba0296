// storage задаёт контракт хранилища пользователей.
//
// Refresh-токен живёт прямо на строке пользователя (одно активное значение
// на пользователя). Ротация выражена отдельной операцией RotateRefreshToken,
// которая обязана выполняться как одно условное обновление в БД — никаких
// read-then-write (см. комментарий к методу).
package storage

import (
	"context"
	"errors"
	"time"

	"github.com/apetrova/go-bookstore-auth/internal/models"

	"github.com/google/uuid"
)

var (
	// ErrNotFound — запись не найдена.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists — нарушение уникальности (email).
	ErrAlreadyExists = errors.New("already exists")
)

// UserStorage выполняет операции над пользователями.
type UserStorage interface {
	// SaveUser создаёт нового пользователя.
	SaveUser(ctx context.Context, user *models.User) error
	// UserByEmail находит пользователя по email (сравнение как есть).
	UserByEmail(ctx context.Context, email string) (*models.User, error)
	// UserByID находит пользователя по ID.
	UserByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	// LinkProvider привязывает внешнюю личность (provider+subject) к пользователю.
	LinkProvider(ctx context.Context, id uuid.UUID, provider, subject string) error
	// SetRefreshToken безусловно перезаписывает хэш refresh-токена и срок
	// его действия (успешный login/federation).
	SetRefreshToken(ctx context.Context, id uuid.UUID, hash string, expiresAt time.Time) error
	// RotateRefreshToken атомарно заменяет хэш refresh-токена, только если
	// текущее сохранённое значение равно oldHash и не просрочено на момент now.
	// Возвращает (false, nil), если условие не выполнено: из N гонящихся
	// вызовов с одним и тем же токеном ровно один получает true.
	RotateRefreshToken(ctx context.Context, id uuid.UUID, oldHash, newHash string, expiresAt, now time.Time) (bool, error)
}

// Storage задаёт контракт работы с БД.
type Storage interface {
	UserStorage
	Close()
}
