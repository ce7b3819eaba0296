package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/apetrova/go-bookstore-auth/internal/models"
)

// Эндпойнт Google для проверки ID-токенов (подпись проверяет сам Google).
const googleTokenInfoURL = "https://oauth2.googleapis.com/tokeninfo"

// GoogleVerifier проверяет Google ID-токены через tokeninfo-эндпойнт.
type GoogleVerifier struct {
	clientID string
	client   *http.Client
	endpoint string
}

// NewGoogleVerifier создаёт верификатор Google.
// clientID обязателен: по нему проверяется aud токена.
func NewGoogleVerifier(clientID string) *GoogleVerifier {
	return &GoogleVerifier{
		clientID: clientID,
		client:   &http.Client{Timeout: 10 * time.Second},
		endpoint: googleTokenInfoURL,
	}
}

func (v *GoogleVerifier) Name() string { return "google" }

// tokenInfo — ответ tokeninfo; числовые клеймы приходят строками.
type tokenInfo struct {
	Audience      string `json:"aud"`
	Subject       string `json:"sub"`
	Email         string `json:"email"`
	EmailVerified string `json:"email_verified"`
	Name          string `json:"name"`
	Expires       string `json:"exp"`
}

// Verify проверяет ID-токен у Google и возвращает подтверждённую личность.
// Проверяются: валидность токена (сам эндпойнт), aud == clientID,
// подтверждённость email и срок действия.
func (v *GoogleVerifier) Verify(ctx context.Context, idToken string) (*models.ProviderIdentity, error) {
	const op = "provider.google.Verify"

	if idToken == "" {
		return nil, fmt.Errorf("%s: %w", op, ErrVerification)
	}

	reqURL := v.endpoint + "?id_token=" + url.QueryEscape(idToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	resp, err := v.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s: %w", op, ErrVerification)
	}

	var info tokenInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("%s: %w", op, ErrVerification)
	}

	if info.Audience != v.clientID || info.Subject == "" || info.Email == "" {
		return nil, fmt.Errorf("%s: %w", op, ErrVerification)
	}

	if info.EmailVerified != "true" {
		return nil, fmt.Errorf("%s: %w", op, ErrVerification)
	}

	exp, err := strconv.ParseInt(info.Expires, 10, 64)
	if err != nil || time.Now().UTC().After(time.Unix(exp, 0)) {
		return nil, fmt.Errorf("%s: %w", op, ErrVerification)
	}

	return &models.ProviderIdentity{
		Provider: "google",
		Subject:  info.Subject,
		Email:    info.Email,
		Name:     info.Name,
	}, nil
}

var _ Verifier = (*GoogleVerifier)(nil)
