package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/apetrova/go-bookstore-auth/internal/models"
	"github.com/apetrova/go-bookstore-auth/internal/service"
	"github.com/apetrova/go-bookstore-auth/internal/transport/http/apierrors"
)

type claimsKey struct{}

// ClaimsFrom достаёт клеймы аутентифицированного субъекта из контекста.
func ClaimsFrom(ctx context.Context) (*models.AccessClaims, bool) {
	c, ok := ctx.Value(claimsKey{}).(*models.AccessClaims)
	return c, ok
}

// Authenticate — авторизационный шлюз: извлекает Bearer-токен, полностью
// валидирует его (подпись, алгоритм, issuer, audience, срок) и кладёт клеймы
// в контекст. Просроченный и подделанный токены дают разные коды
// (TOKEN_EXPIRED / UNAUTHORIZED), но одинаково прерывают запрос до хендлера.
func Authenticate(svc *service.Service) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			auth := r.Header.Get("Authorization")

			const prefix = "Bearer "
			if !strings.HasPrefix(auth, prefix) || len(auth) == len(prefix) {
				apierrors.WriteError(w, r, service.ErrInvalidToken)
				return
			}

			claims, err := svc.ValidateAccessToken(strings.TrimSpace(auth[len(prefix):]))
			if err != nil {
				apierrors.WriteError(w, r, err)
				return
			}

			ctx := context.WithValue(r.Context(), claimsKey{}, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequirePolicy отклоняет запрос до бизнес-логики, если роль субъекта не
// удовлетворяет политике эндпойнта.
func RequirePolicy(policy service.Policy) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := ClaimsFrom(r.Context())
			if !ok {
				apierrors.WriteError(w, r, service.ErrInvalidToken)
				return
			}

			if err := service.CheckPolicy(claims.Role, policy); err != nil {
				apierrors.WriteError(w, r, err)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
