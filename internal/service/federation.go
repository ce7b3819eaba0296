package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/apetrova/go-bookstore-auth/internal/models"
	"github.com/apetrova/go-bookstore-auth/internal/pkg/log"
	"github.com/apetrova/go-bookstore-auth/internal/pkg/redact"
	"github.com/apetrova/go-bookstore-auth/internal/provider"
	"github.com/apetrova/go-bookstore-auth/internal/storage"

	"github.com/google/uuid"
)

// FederatedLogin выполняет вход через внешнего провайдера идентичности.
//
// Провайдер уже проверил idToken своей криптографией (см. internal/provider);
// здесь личность только резолвится в канонического локального пользователя,
// после чего вход завершается ровно как обычный логин: пара токенов + хэш
// refresh на строке пользователя.
func (s *Service) FederatedLogin(ctx context.Context, providerName, idToken string) (*models.TokenPair, *models.User, error) {
	const op = "service.federation.FederatedLogin"

	verifier, ok := s.providers[providerName]
	if !ok {
		return nil, nil, fmt.Errorf("%s: %w", op, ErrUnknownProvider)
	}

	identity, err := verifier.Verify(ctx, idToken)
	if err != nil {
		if errors.Is(err, provider.ErrVerification) {
			return nil, nil, fmt.Errorf("%s: %w", op, ErrProviderVerification)
		}

		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}

	user, err := s.resolveIdentity(ctx, identity)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}

	pair, err := s.issueTokenPair(ctx, user)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}

	return pair, user, nil
}

// resolveIdentity сопоставляет подтверждённую внешнюю личность каноническому
// локальному пользователю, создавая его при отсутствии.
//
// Политика совпадения email с существующим аккаунтом — привязка (link):
// провайдеры из internal/provider подтверждают владение email, поэтому внешняя
// личность присоединяется к существующей строке. Строка, уже привязанная к
// этому же провайдеру под другим subject, отклоняется.
func (s *Service) resolveIdentity(ctx context.Context, identity *models.ProviderIdentity) (*models.User, error) {
	const op = "service.federation.resolveIdentity"

	lg := log.From(ctx)

	email := strings.ToLower(strings.TrimSpace(identity.Email))
	if email == "" {
		return nil, fmt.Errorf("%s: %w", op, ErrProviderVerification)
	}

	user, err := s.storage.UserByEmail(ctx, email)
	if err == nil {
		if user.Provider == identity.Provider && user.ProviderSubject != identity.Subject {
			lg.Warn("federation_subject_mismatch",
				slog.String("op", op),
				slog.String("provider", identity.Provider),
				slog.String("email", redact.Email(email)),
			)
			return nil, fmt.Errorf("%s: %w", op, ErrProviderVerification)
		}

		if user.Provider != identity.Provider {
			if err := s.storage.LinkProvider(ctx, user.ID, identity.Provider, identity.Subject); err != nil {
				return nil, fmt.Errorf("%s: %w", op, err)
			}
			user.Provider = identity.Provider
			user.ProviderSubject = identity.Subject
		}

		return user, nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	// Новый федеративный пользователь: роль user, пароля нет.
	now := s.now()
	user = &models.User{
		ID:              uuid.New(),
		Email:           email,
		Name:            identity.Name,
		Role:            models.RoleUser,
		Provider:        identity.Provider,
		ProviderSubject: identity.Subject,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.storage.SaveUser(ctx, user); err != nil {
		// Гонка двух первых федеративных логинов: строку уже создал второй
		// вызов — перечитываем её вместо ошибки.
		if errors.Is(err, storage.ErrAlreadyExists) {
			existing, lookupErr := s.storage.UserByEmail(ctx, email)
			if lookupErr != nil {
				return nil, fmt.Errorf("%s: %w", op, lookupErr)
			}
			return existing, nil
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	lg.Info("federated_user_created",
		slog.String("op", op),
		slog.String("provider", identity.Provider),
		slog.String("user_id", user.ID.String()),
	)

	return user, nil
}
