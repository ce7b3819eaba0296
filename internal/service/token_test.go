package service

import (
	"context"
	"testing"
	"time"

	"github.com/apetrova/go-bookstore-auth/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func testUser() *models.User {
	return &models.User{
		ID:    uuid.New(),
		Email: "user@example.com",
		Name:  "Alice",
		Role:  models.RoleUser,
	}
}

func TestAccessToken_RoundTrip(t *testing.T) {
	t.Parallel()

	svc, _, ctrl := newSvc(t)
	defer ctrl.Finish()

	user := testUser()
	signed, err := svc.generateAccessToken(context.Background(), user, time.Now().UTC())
	require.NoError(t, err)

	claims, err := svc.ValidateAccessToken(signed)
	require.NoError(t, err)
	require.Equal(t, user.ID, claims.UserID)
	require.Equal(t, user.Email, claims.Email)
	require.Equal(t, models.RoleUser, claims.Role)
	require.False(t, claims.Admin)
	require.NotEmpty(t, claims.TokenID)
	require.WithinDuration(t, time.Now().Add(svc.cfg.AccessTokenTTL), claims.ExpiresAt, 2*time.Second)
}

func TestValidateAccessToken_WrongSecret(t *testing.T) {
	t.Parallel()

	svc, _, ctrl := newSvc(t)
	defer ctrl.Finish()

	otherCfg := testCfg()
	otherCfg.JWTSecret = "other-secret"
	other := New(svc.storage, otherCfg)

	signed, err := other.generateAccessToken(context.Background(), testUser(), time.Now().UTC())
	require.NoError(t, err)

	_, err = svc.ValidateAccessToken(signed)
	require.ErrorIs(t, err, ErrInvalidToken)

	// Путь без проверки срока точно так же отклоняет чужую подпись.
	_, err = svc.validateExpiredAccessToken(signed)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateAccessToken_WrongAlg(t *testing.T) {
	t.Parallel()

	svc, _, ctrl := newSvc(t)
	defer ctrl.Finish()

	user := testUser()
	claims := accessClaims{
		UserID: user.ID.String(),
		Email:  user.Email,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			Issuer:    svc.cfg.Issuer,
			Audience:  jwt.ClaimStrings(svc.cfg.Audience),
		},
	}

	// Верный секрет, но иной алгоритм - токен отклоняется обоими путями.
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte(svc.cfg.JWTSecret))
	require.NoError(t, err)

	_, err = svc.ValidateAccessToken(signed)
	require.ErrorIs(t, err, ErrInvalidToken)

	_, err = svc.validateExpiredAccessToken(signed)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateAccessToken_Expired(t *testing.T) {
	t.Parallel()

	svc, _, ctrl := newSvc(t)
	defer ctrl.Finish()

	issuedAt := time.Now().UTC()
	signed, err := svc.generateAccessToken(context.Background(), testUser(), issuedAt)
	require.NoError(t, err)

	// Сдвигаем часы сервиса за горизонт действия токена.
	svc.now = func() time.Time { return issuedAt.Add(svc.cfg.AccessTokenTTL + time.Hour) }

	_, err = svc.ValidateAccessToken(signed)
	require.ErrorIs(t, err, ErrTokenExpired)
	require.NotErrorIs(t, err, ErrInvalidToken)

	// Путь ротации намеренно пропускает проверку срока.
	claims, err := svc.validateExpiredAccessToken(signed)
	require.NoError(t, err)
	require.Equal(t, "user@example.com", claims.Email)
}

func TestValidateAccessToken_MissingClaimsRejected(t *testing.T) {
	t.Parallel()

	svc, _, ctrl := newSvc(t)
	defer ctrl.Finish()

	// Токен без uid: подпись валидна, но payload неполный.
	claims := jwt.MapClaims{
		"email": "user@example.com",
		"role":  models.RoleUser,
		"jti":   uuid.NewString(),
		"exp":   time.Now().Add(time.Hour).Unix(),
		"iss":   svc.cfg.Issuer,
		"aud":   svc.cfg.Audience[0],
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(svc.cfg.JWTSecret))
	require.NoError(t, err)

	_, err = svc.ValidateAccessToken(signed)
	require.ErrorIs(t, err, ErrInvalidToken)

	_, err = svc.validateExpiredAccessToken(signed)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateAccessToken_WrongIssuerOrAudience(t *testing.T) {
	t.Parallel()

	svc, _, ctrl := newSvc(t)
	defer ctrl.Finish()

	user := testUser()
	claims := accessClaims{
		UserID: user.ID.String(),
		Email:  user.Email,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			Issuer:    "someone-else",
			Audience:  jwt.ClaimStrings{"other-api"},
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(svc.cfg.JWTSecret))
	require.NoError(t, err)

	_, err = svc.ValidateAccessToken(signed)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestGenerateRefreshToken_UniqueAndHashed(t *testing.T) {
	t.Parallel()

	svc, _, ctrl := newSvc(t)
	defer ctrl.Finish()

	plain1, hash1, err := svc.generateRefreshToken(context.Background())
	require.NoError(t, err)
	plain2, hash2, err := svc.generateRefreshToken(context.Background())
	require.NoError(t, err)

	require.NotEqual(t, plain1, plain2)
	require.NotEqual(t, hash1, hash2)
	require.NotEqual(t, plain1, hash1)
	require.Equal(t, hash1, hashRefreshToken(plain1))
}
