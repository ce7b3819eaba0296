package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func googleTokenInfo(aud, sub, email, verified string, exp time.Time) map[string]string {
	return map[string]string{
		"aud":            aud,
		"sub":            sub,
		"email":          email,
		"email_verified": verified,
		"name":           "Alice",
		"exp":            strconv.FormatInt(exp.Unix(), 10),
	}
}

// googleTestVerifier — верификатор, направленный на тестовый tokeninfo-эндпойнт.
func googleTestVerifier(t *testing.T, handler http.HandlerFunc) *GoogleVerifier {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	v := NewGoogleVerifier("client-123")
	v.endpoint = srv.URL
	return v
}

func TestGoogleVerify_OK(t *testing.T) {
	t.Parallel()

	v := googleTestVerifier(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "tok-1", r.URL.Query().Get("id_token"))
		_ = json.NewEncoder(w).Encode(
			googleTokenInfo("client-123", "sub-1", "alice@example.com", "true", time.Now().Add(time.Hour)))
	})

	identity, err := v.Verify(context.Background(), "tok-1")
	require.NoError(t, err)
	require.Equal(t, "google", identity.Provider)
	require.Equal(t, "sub-1", identity.Subject)
	require.Equal(t, "alice@example.com", identity.Email)
	require.Equal(t, "Alice", identity.Name)
}

func TestGoogleVerify_Rejections(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		info map[string]string
	}{
		{"wrong_audience", googleTokenInfo("other-client", "sub-1", "a@e.com", "true", time.Now().Add(time.Hour))},
		{"unverified_email", googleTokenInfo("client-123", "sub-1", "a@e.com", "false", time.Now().Add(time.Hour))},
		{"expired", googleTokenInfo("client-123", "sub-1", "a@e.com", "true", time.Now().Add(-time.Hour))},
		{"missing_subject", googleTokenInfo("client-123", "", "a@e.com", "true", time.Now().Add(time.Hour))},
		{"missing_email", googleTokenInfo("client-123", "sub-1", "", "true", time.Now().Add(time.Hour))},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			v := googleTestVerifier(t, func(w http.ResponseWriter, _ *http.Request) {
				_ = json.NewEncoder(w).Encode(tc.info)
			})

			_, err := v.Verify(context.Background(), "tok")
			require.ErrorIs(t, err, ErrVerification)
		})
	}
}

func TestGoogleVerify_NonOKStatus(t *testing.T) {
	t.Parallel()

	// Google отвечает 400 на невалидный токен.
	v := googleTestVerifier(t, func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "invalid_token", http.StatusBadRequest)
	})

	_, err := v.Verify(context.Background(), "garbage")
	require.ErrorIs(t, err, ErrVerification)
}

func TestGoogleVerify_EmptyToken(t *testing.T) {
	t.Parallel()

	v := NewGoogleVerifier("client-123")
	_, err := v.Verify(context.Background(), "")
	require.ErrorIs(t, err, ErrVerification)
}

func githubTestVerifier(t *testing.T, handler http.HandlerFunc) *GitHubVerifier {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	v := NewGitHubVerifier()
	v.endpoint = srv.URL
	return v
}

func TestGitHubVerify_OK(t *testing.T) {
	t.Parallel()

	v := githubTestVerifier(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "Bearer gh-token", r.Header.Get("Authorization"))
		fmt.Fprint(w, `{"id": 42, "login": "alice", "name": "Alice", "email": "alice@example.com"}`)
	})

	identity, err := v.Verify(context.Background(), "gh-token")
	require.NoError(t, err)
	require.Equal(t, "github", identity.Provider)
	require.Equal(t, "42", identity.Subject)
	require.Equal(t, "alice@example.com", identity.Email)
	require.Equal(t, "Alice", identity.Name)
}

func TestGitHubVerify_NameFallsBackToLogin(t *testing.T) {
	t.Parallel()

	v := githubTestVerifier(t, func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"id": 42, "login": "alice", "email": "alice@example.com"}`)
	})

	identity, err := v.Verify(context.Background(), "gh-token")
	require.NoError(t, err)
	require.Equal(t, "alice", identity.Name)
}

func TestGitHubVerify_Rejections(t *testing.T) {
	t.Parallel()

	// Невалидный токен: GitHub отвечает 401.
	v := githubTestVerifier(t, func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "bad credentials", http.StatusUnauthorized)
	})
	_, err := v.Verify(context.Background(), "bad")
	require.ErrorIs(t, err, ErrVerification)

	// Профиль без email не сопоставим с локальным аккаунтом.
	v = githubTestVerifier(t, func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"id": 42, "login": "alice"}`)
	})
	_, err = v.Verify(context.Background(), "gh-token")
	require.ErrorIs(t, err, ErrVerification)

	// Пустой токен отклоняется до сетевого вызова.
	_, err = NewGitHubVerifier().Verify(context.Background(), "")
	require.ErrorIs(t, err, ErrVerification)
}
