package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/apetrova/go-bookstore-auth/internal/models"

	"golang.org/x/oauth2"
)

const githubUserURL = "https://api.github.com/user"

// GitHubVerifier проверяет GitHub access-токены запросом к /user.
// GitHub не выпускает ID-токены, поэтому клиент присылает OAuth access-токен;
// подлинность подтверждается самим API GitHub.
type GitHubVerifier struct {
	endpoint string
	base     *http.Client
}

// NewGitHubVerifier создаёт верификатор GitHub.
func NewGitHubVerifier() *GitHubVerifier {
	return &GitHubVerifier{
		endpoint: githubUserURL,
		base:     &http.Client{Timeout: 10 * time.Second},
	}
}

func (v *GitHubVerifier) Name() string { return "github" }

type githubUser struct {
	ID    int64  `json:"id"`
	Login string `json:"login"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Verify обменивает access-токен на профиль пользователя GitHub.
func (v *GitHubVerifier) Verify(ctx context.Context, idToken string) (*models.ProviderIdentity, error) {
	const op = "provider.github.Verify"

	if idToken == "" {
		return nil, fmt.Errorf("%s: %w", op, ErrVerification)
	}

	// oauth2-клиент сам проставляет Authorization: Bearer.
	ctx = context.WithValue(ctx, oauth2.HTTPClient, v.base)
	client := oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: idToken}))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, v.endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s: %w", op, ErrVerification)
	}

	var gu githubUser
	if err := json.NewDecoder(resp.Body).Decode(&gu); err != nil {
		return nil, fmt.Errorf("%s: %w", op, ErrVerification)
	}

	// Email обязателен: без него невозможно сопоставить локальный аккаунт.
	if gu.ID == 0 || gu.Email == "" {
		return nil, fmt.Errorf("%s: %w", op, ErrVerification)
	}

	name := gu.Name
	if name == "" {
		name = gu.Login
	}

	return &models.ProviderIdentity{
		Provider: "github",
		Subject:  strconv.FormatInt(gu.ID, 10),
		Email:    gu.Email,
		Name:     name,
	}, nil
}

var _ Verifier = (*GitHubVerifier)(nil)
