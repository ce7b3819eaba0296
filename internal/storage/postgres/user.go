package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/apetrova/go-bookstore-auth/internal/models"
	"github.com/apetrova/go-bookstore-auth/internal/storage"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const userColumns = `
	id, email, name, password_hash, role,
	provider, provider_subject,
	refresh_token_hash, refresh_expires_at,
	created_at, updated_at
`

// scanUser читает строку users в модель.
// NULL-able колонки (password_hash, provider и т.п.) маппятся в пустые значения.
func scanUser(row pgx.Row) (*models.User, error) {
	var (
		user             models.User
		passwordHash     *string
		provider         *string
		providerSubject  *string
		refreshTokenHash *string
		refreshExpiresAt *time.Time
	)

	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.Name,
		&passwordHash,
		&user.Role,
		&provider,
		&providerSubject,
		&refreshTokenHash,
		&refreshExpiresAt,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if passwordHash != nil {
		user.PasswordHash = *passwordHash
	}
	if provider != nil {
		user.Provider = *provider
	}
	if providerSubject != nil {
		user.ProviderSubject = *providerSubject
	}
	if refreshTokenHash != nil {
		user.RefreshTokenHash = *refreshTokenHash
	}
	if refreshExpiresAt != nil {
		user.RefreshExpiresAt = *refreshExpiresAt
	}

	return &user, nil
}

// nullable превращает пустую строку в NULL.
func nullable(s string) *string {
	if s == "" {
		return nil
	}

	return &s
}

// SaveUser создаёт нового пользователя в БД.
func (s *Storage) SaveUser(ctx context.Context, user *models.User) error {
	const op = "storage.postgres.SaveUser"

	query := `
		INSERT INTO users(id, email, name, password_hash, role, provider, provider_subject, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := s.db.Exec(ctx, query,
		user.ID,
		user.Email,
		user.Name,
		nullable(user.PasswordHash),
		user.Role,
		nullable(user.Provider),
		nullable(user.ProviderSubject),
		user.CreatedAt,
		user.UpdatedAt,
	)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return fmt.Errorf("%s: %w", op, storage.ErrAlreadyExists)
		}

		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// UserByEmail находит пользователя по email.
func (s *Storage) UserByEmail(ctx context.Context, email string) (*models.User, error) {
	const op = "storage.postgres.UserByEmail"

	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`

	user, err := scanUser(s.db.QueryRow(ctx, query, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return user, nil
}

// UserByID находит пользователя по ID.
func (s *Storage) UserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	const op = "storage.postgres.UserByID"

	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	user, err := scanUser(s.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return user, nil
}

// LinkProvider привязывает внешнюю личность к существующему пользователю.
func (s *Storage) LinkProvider(ctx context.Context, id uuid.UUID, provider, subject string) error {
	const op = "storage.postgres.LinkProvider"

	query := `
		UPDATE users
		SET provider = $2, provider_subject = $3, updated_at = $4
		WHERE id = $1
	`

	cmdTag, err := s.db.Exec(ctx, query, id, provider, subject, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	return nil
}

// SetRefreshToken безусловно перезаписывает хэш refresh-токена пользователя.
// Используется при login/federation: старая сессия (если была) вытесняется.
func (s *Storage) SetRefreshToken(ctx context.Context, id uuid.UUID, hash string, expiresAt time.Time) error {
	const op = "storage.postgres.SetRefreshToken"

	query := `
		UPDATE users
		SET refresh_token_hash = $2, refresh_expires_at = $3, updated_at = $4
		WHERE id = $1
	`

	cmdTag, err := s.db.Exec(ctx, query, id, hash, expiresAt, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	return nil
}

// RotateRefreshToken атомарно заменяет refresh-токен по протоколу ротации.
//
// Обновление выполняется одним условным UPDATE: значение подменяется, только
// если сохранённый хэш равен oldHash и срок его действия ещё не истёк.
// Из N конкурентных вызовов с одним и тем же oldHash ровно один увидит
// RowsAffected()==1 — остальные получают (false, nil). Свойство справедливо
// и при горизонтальном масштабировании: условие проверяет сама БД.
func (s *Storage) RotateRefreshToken(ctx context.Context, id uuid.UUID, oldHash, newHash string, expiresAt, now time.Time) (bool, error) {
	const op = "storage.postgres.RotateRefreshToken"

	query := `
		UPDATE users
		SET refresh_token_hash = $3, refresh_expires_at = $4, updated_at = $5
		WHERE id = $1 AND refresh_token_hash = $2 AND refresh_expires_at > $5
	`

	cmdTag, err := s.db.Exec(ctx, query, id, oldHash, newHash, expiresAt, now)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	return cmdTag.RowsAffected() == 1, nil
}
