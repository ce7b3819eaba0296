package apierrors

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/apetrova/go-bookstore-auth/internal/service"

	"github.com/stretchr/testify/require"
)

func TestToHTTP_BaseMapping(t *testing.T) {
	tcs := []struct {
		name       string
		in         error
		wantStatus int
		wantCode   string
	}{
		{"invalid_email", service.ErrInvalidEmail, http.StatusBadRequest, CodeBadRequest},
		{"weak_password", service.ErrWeakPassword, http.StatusBadRequest, CodeBadRequest},
		{"empty_password", service.ErrEmptyPassword, http.StatusBadRequest, CodeBadRequest},
		{"unknown_provider", service.ErrUnknownProvider, http.StatusBadRequest, CodeBadRequest},
		{"invalid_credentials", service.ErrInvalidCredentials, http.StatusUnauthorized, CodeUnauthorized},
		{"invalid_token", service.ErrInvalidToken, http.StatusUnauthorized, CodeUnauthorized},
		{"provider_verification", service.ErrProviderVerification, http.StatusUnauthorized, CodeUnauthorized},
		{"token_expired", service.ErrTokenExpired, http.StatusUnauthorized, CodeTokenExpired},
		{"refresh_session", service.ErrInvalidRefreshSession, http.StatusUnauthorized, CodeTokenExpired},
		{"permission_denied", service.ErrPermissionDenied, http.StatusForbidden, CodeForbidden},
		{"user_not_found", service.ErrUserNotFound, http.StatusNotFound, CodeNotFound},
		{"email_taken", service.ErrEmailTaken, http.StatusConflict, CodeConflict},
		{"too_many_attempts", service.ErrTooManyAttempts, http.StatusTooManyRequests, CodeTooManyRequests},
		{"unknown", errors.New("db down"), http.StatusInternalServerError, CodeInternal},
	}

	for _, tc := range tcs {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			// Сентинел приходит обёрнутым, как из сервиса.
			gotStatus, gotCode, gotMsg := ToHTTP(fmt.Errorf("service.op: %w", tc.in))
			require.Equal(t, tc.wantStatus, gotStatus)
			require.Equal(t, tc.wantCode, gotCode)
			require.NotEmpty(t, gotMsg)
		})
	}
}

// Внутренние детали (текст ошибки БД и т.п.) не утекают в сообщение.
func TestToHTTP_InternalHidesDetails(t *testing.T) {
	_, _, msg := ToHTTP(errors.New("pq: connection refused at 10.0.0.5"))
	require.Equal(t, "Internal server error.", msg)
}

func TestToHTTP_RefreshSessionMessage(t *testing.T) {
	_, _, msg := ToHTTP(service.ErrInvalidRefreshSession)
	require.Equal(t, "Invalid or expired refresh token.", msg)
}

func TestWriteError_Envelope(t *testing.T) {
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/auth/login", nil)

	WriteError(rr, req, service.ErrInvalidCredentials)

	require.Equal(t, http.StatusUnauthorized, rr.Code)
	require.Equal(t, "application/json", rr.Header().Get("Content-Type"))

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.Equal(t, "/auth/login", resp.Path)
	require.Equal(t, http.StatusUnauthorized, resp.Status)
	require.Equal(t, CodeUnauthorized, resp.Code)
	require.Equal(t, "Invalid email or password.", resp.Message)
	require.Nil(t, resp.Details)

	ts, err := time.Parse(time.RFC3339, resp.Timestamp)
	require.NoError(t, err)
	require.WithinDuration(t, time.Now().UTC(), ts, 5*time.Second)
}

func TestWriteErrorDetails_CarriesDetails(t *testing.T) {
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/users/42", nil)

	WriteErrorDetails(rr, req, service.ErrPermissionDenied, map[string]string{"resource": "42"})

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.Equal(t, CodeForbidden, resp.Code)

	details, ok := resp.Details.(map[string]any)
	require.True(t, ok)
	require.Equal(t, "42", details["resource"])
}

func TestBadRequest_DefaultMessage(t *testing.T) {
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/auth/login", nil)

	BadRequest(rr, req, "")

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.Equal(t, http.StatusBadRequest, resp.Status)
	require.Equal(t, CodeBadRequest, resp.Code)
	require.Equal(t, "Malformed request body.", resp.Message)
}
