package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/apetrova/go-bookstore-auth/internal/models"
	"github.com/apetrova/go-bookstore-auth/internal/pkg/log"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// refreshTokenBytes — 64 байта энтропии (512 бит) на refresh-токен.
const refreshTokenBytes = 64

// accessClaims — фиксированный набор клеймов access-токена.
// Payload не «мешок значений»: при декодировании отсутствие любого
// обязательного поля — причина отклонить токен (см. toModel).
type accessClaims struct {
	UserID string `json:"uid"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	Admin  bool   `json:"admin"`
	jwt.RegisteredClaims
}

// toModel конвертирует клеймы в модель, отклоняя токен с неполным набором полей.
func (c *accessClaims) toModel() (*models.AccessClaims, error) {
	if c.UserID == "" || c.Email == "" || c.Role == "" || c.ID == "" || c.ExpiresAt == nil {
		return nil, ErrInvalidToken
	}

	uid, err := uuid.Parse(c.UserID)
	if err != nil {
		return nil, ErrInvalidToken
	}

	return &models.AccessClaims{
		UserID:    uid,
		Email:     c.Email,
		Role:      c.Role,
		Admin:     c.Admin,
		TokenID:   c.ID,
		ExpiresAt: c.ExpiresAt.Time,
	}, nil
}

// generateAccessToken генерирует access-токен (HS256).
func (s *Service) generateAccessToken(ctx context.Context, user *models.User, now time.Time) (string, error) {
	const op = "service.token.generateAccessToken"

	lg := log.From(ctx)

	claims := accessClaims{
		UserID: user.ID.String(),
		Email:  user.Email,
		Role:   user.Role,
		Admin:  user.IsAdmin(),
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.AccessTokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    s.cfg.Issuer,
			Subject:   user.ID.String(),
			Audience:  jwt.ClaimStrings(s.cfg.Audience),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		lg.Error("access_token_sign_failed",
			slog.String("op", op),
			slog.String("err", err.Error()),
		)
		return "", fmt.Errorf("%s: %w", op, err)
	}

	return signed, nil
}

// ValidateAccessToken валидирует access-токен полностью (подпись, алгоритм,
// issuer, audience, срок действия) и возвращает клеймы. Используется
// авторизационным шлюзом на каждом защищённом запросе.
func (s *Service) ValidateAccessToken(tokenStr string) (*models.AccessClaims, error) {
	const op = "service.token.ValidateAccessToken"

	token, err := jwt.ParseWithClaims(tokenStr, &accessClaims{},
		func(t *jwt.Token) (interface{}, error) {
			if t.Method != jwt.SigningMethodHS256 {
				return nil, fmt.Errorf("%s: %w", op, ErrInvalidToken)
			}

			return []byte(s.cfg.JWTSecret), nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithLeeway(5*time.Second),
		jwt.WithIssuer(s.cfg.Issuer),
		jwt.WithAudience(s.cfg.Audience...),
		jwt.WithTimeFunc(s.now),
	)

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("%s: %w", op, ErrTokenExpired)
		}

		return nil, fmt.Errorf("%s: %w", op, ErrInvalidToken)
	}

	claims, ok := token.Claims.(*accessClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidToken)
	}

	out, err := claims.toModel()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return out, nil
}

// validateExpiredAccessToken проверяет подпись и точное совпадение алгоритма,
// НАМЕРЕННО пропуская проверку срока действия. Используется исключительно
// протоколом ротации (refresh.go) и никогда — для авторизации запросов.
// Токен с чужим секретом или иным алгоритмом (включая "none") отклоняется.
func (s *Service) validateExpiredAccessToken(tokenStr string) (*models.AccessClaims, error) {
	const op = "service.token.validateExpiredAccessToken"

	token, err := jwt.ParseWithClaims(tokenStr, &accessClaims{},
		func(t *jwt.Token) (interface{}, error) {
			if t.Method != jwt.SigningMethodHS256 {
				return nil, fmt.Errorf("%s: %w", op, ErrInvalidToken)
			}

			return []byte(s.cfg.JWTSecret), nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithoutClaimsValidation(),
	)

	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidToken)
	}

	claims, ok := token.Claims.(*accessClaims)
	if !ok {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidToken)
	}

	out, err := claims.toModel()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return out, nil
}

// generateRefreshToken создаёт новый refresh-токен: непрозрачная случайная
// строка без встроенных клеймов. Возвращает секрет для клиента и его
// sha256-хэш для хранения на строке пользователя.
func (s *Service) generateRefreshToken(ctx context.Context) (string, string, error) {
	const op = "service.token.generateRefreshToken"

	lg := log.From(ctx)

	b := make([]byte, refreshTokenBytes)
	if _, err := rand.Read(b); err != nil {
		lg.Error("refresh_rand_failed",
			slog.String("op", op),
			slog.String("err", err.Error()),
		)
		return "", "", fmt.Errorf("%s: %w", op, err)
	}
	plain := base64.RawURLEncoding.EncodeToString(b)

	return plain, hashRefreshToken(plain), nil
}

// hashRefreshToken — base64(sha256(plain)); в БД хранится только хэш.
func hashRefreshToken(plain string) string {
	sum := sha256.Sum256([]byte(plain))
	return base64.RawURLEncoding.EncodeToString(sum[:])
}
