package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/apetrova/go-bookstore-auth/internal/models"
	"github.com/apetrova/go-bookstore-auth/internal/pkg/log"
	"github.com/apetrova/go-bookstore-auth/internal/pkg/redact"
	"github.com/apetrova/go-bookstore-auth/internal/storage"
)

// RefreshToken — протокол ротации сессии: обмен просроченного access-токена
// и refresh-токена на новую пару.
//
// Шаги:
//  1. Проверка подписи/алгоритма access-токена БЕЗ проверки срока действия;
//  2. Поиск пользователя по email из клеймов;
//  3+4. Одно условное обновление в хранилище: новый хэш записывается, только
//     если сохранённое значение всё ещё равно предъявленному и не просрочено.
//
// Несовпадение, просроченная сессия и отсутствие сессии дают один и тот же
// ErrInvalidRefreshSession. Refresh-токен одноразовый: из N конкурентных
// вызовов с одним и тем же значением ровно один выигрывает условное
// обновление, остальные получают ErrInvalidRefreshSession.
//
// Политика окна сессии: скользящая — каждая успешная ротация продлевает
// срок refresh-токена на полный RefreshTokenTTL.
func (s *Service) RefreshToken(ctx context.Context, accessToken, refreshToken string) (*models.TokenPair, error) {
	const op = "service.refresh.RefreshToken"

	lg := log.From(ctx)

	claims, err := s.validateExpiredAccessToken(accessToken)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	user, err := s.storage.UserByEmail(ctx, claims.Email)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			lg.Warn("refresh_user_not_found",
				slog.String("op", op),
				slog.String("email", redact.Email(claims.Email)),
			)
			return nil, fmt.Errorf("%s: %w", op, ErrInvalidRefreshSession)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	now := s.now()

	newAccess, err := s.generateAccessToken(ctx, user, now)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	newPlain, newHash, err := s.generateRefreshToken(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	rotated, err := s.storage.RotateRefreshToken(ctx,
		user.ID,
		hashRefreshToken(refreshToken),
		newHash,
		now.Add(s.cfg.RefreshTokenTTL),
		now,
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if !rotated {
		lg.Warn("refresh_rotation_rejected",
			slog.String("op", op),
			slog.String("user_id", user.ID.String()),
		)
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidRefreshSession)
	}

	return &models.TokenPair{
		AccessToken:     newAccess,
		RefreshToken:    newPlain,
		ExpiresIn:       s.cfg.ExpiresInMinutes(),
		AccessExpiresAt: now.Add(s.cfg.AccessTokenTTL),
	}, nil
}
