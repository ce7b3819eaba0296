// apierrors стандартизирует ответы об ошибках HTTP-слоя.
// На вход принимается доменная ошибка (сентинел из пакета service),
// на выход — корректный HTTP-статус и структурированное тело:
//
//	{timestamp, path, status, code, message, details?}
//
// Детали внутренних ошибок наружу не утекают: всё, что не распознано как
// доменный сентинел (в т.ч. недоступность хранилища), сворачивается в
// 500/INTERNAL с единым сообщением. Различающие детали исходов
// аутентификации схлопываются ещё в service — здесь только маппинг.
package apierrors

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/apetrova/go-bookstore-auth/internal/service"
)

// Коды ошибок контракта API.
const (
	CodeBadRequest      = "BAD_REQUEST"
	CodeUnauthorized    = "UNAUTHORIZED"
	CodeTokenExpired    = "TOKEN_EXPIRED"
	CodeForbidden       = "FORBIDDEN"
	CodeNotFound        = "NOT_FOUND"
	CodeConflict        = "CONFLICT"
	CodeTooManyRequests = "TOO_MANY_REQUESTS"
	CodeInternal        = "INTERNAL"
)

// ErrorResponse — единый формат тела ошибки.
type ErrorResponse struct {
	Timestamp string `json:"timestamp"`
	Path      string `json:"path"`
	Status    int    `json:"status"`
	Code      string `json:"code"`
	Message   string `json:"message"`
	Details   any    `json:"details,omitempty"`
}

// ToHTTP конвертирует доменную ошибку в HTTP-статус, код и безопасное сообщение.
//
// Маппинг:
//   - ErrInvalidEmail/ErrWeakPassword/ErrEmptyPassword/ErrUnknownProvider -> 400;
//   - ErrInvalidCredentials/ErrInvalidToken/ErrProviderVerification -> 401 UNAUTHORIZED;
//   - ErrTokenExpired/ErrInvalidRefreshSession -> 401 TOKEN_EXPIRED;
//   - ErrPermissionDenied -> 403; ErrUserNotFound -> 404; ErrEmailTaken -> 409;
//   - ErrTooManyAttempts -> 429; прочее -> 500 с единым сообщением.
func ToHTTP(err error) (int, string, string) {
	switch {
	case errors.Is(err, service.ErrInvalidEmail):
		return http.StatusBadRequest, CodeBadRequest, "Invalid email format."
	case errors.Is(err, service.ErrEmptyPassword), errors.Is(err, service.ErrWeakPassword):
		return http.StatusBadRequest, CodeBadRequest, "Password does not meet the requirements."
	case errors.Is(err, service.ErrUnknownProvider):
		return http.StatusBadRequest, CodeBadRequest, "Unknown identity provider."
	case errors.Is(err, service.ErrInvalidCredentials):
		// Единое сообщение для неизвестного email и неверного пароля.
		return http.StatusUnauthorized, CodeUnauthorized, "Invalid email or password."
	case errors.Is(err, service.ErrInvalidToken):
		return http.StatusUnauthorized, CodeUnauthorized, "Invalid token."
	case errors.Is(err, service.ErrProviderVerification):
		return http.StatusUnauthorized, CodeUnauthorized, "Provider verification failed."
	case errors.Is(err, service.ErrTokenExpired):
		return http.StatusUnauthorized, CodeTokenExpired, "Token expired."
	case errors.Is(err, service.ErrInvalidRefreshSession):
		// Несовпадение, просроченность и отсутствие сессии неразличимы.
		return http.StatusUnauthorized, CodeTokenExpired, "Invalid or expired refresh token."
	case errors.Is(err, service.ErrPermissionDenied):
		return http.StatusForbidden, CodeForbidden, "Access denied."
	case errors.Is(err, service.ErrUserNotFound):
		return http.StatusNotFound, CodeNotFound, "User not found."
	case errors.Is(err, service.ErrEmailTaken):
		return http.StatusConflict, CodeConflict, "Email is already taken."
	case errors.Is(err, service.ErrTooManyAttempts):
		return http.StatusTooManyRequests, CodeTooManyRequests, "Too many login attempts."
	default:
		return http.StatusInternalServerError, CodeInternal, "Internal server error."
	}
}

// WriteError пишет стандартизированный ответ об ошибке.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	WriteErrorDetails(w, r, err, nil)
}

// WriteErrorDetails — то же, что WriteError, плюс нечувствительные детали
// (например, идентификатор ресурса при отказе авторизации).
func WriteErrorDetails(w http.ResponseWriter, r *http.Request, err error, details any) {
	status, code, msg := ToHTTP(err)

	resp := ErrorResponse{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Path:      r.URL.Path,
		Status:    status,
		Code:      code,
		Message:   msg,
		Details:   details,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}

// BadRequest — локальная ошибка парсинга/валидации тела запроса.
func BadRequest(w http.ResponseWriter, r *http.Request, msg string) {
	if msg == "" {
		msg = "Malformed request body."
	}

	resp := ErrorResponse{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Path:      r.URL.Path,
		Status:    http.StatusBadRequest,
		Code:      CodeBadRequest,
		Message:   msg,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusBadRequest)
	_ = json.NewEncoder(w).Encode(resp)
}
