package handlers

import (
	"net/http"

	"github.com/apetrova/go-bookstore-auth/internal/service"
	"github.com/apetrova/go-bookstore-auth/internal/transport/http/apierrors"
	"github.com/apetrova/go-bookstore-auth/internal/transport/http/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// GetProfile — self-service чтение профиля: доступно владельцу и админу.
// Отказ авторизации несёт только идентификатор ресурса в details.
func (h *Handlers) GetProfile(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFrom(r.Context())
	if !ok {
		apierrors.WriteError(w, r, service.ErrInvalidToken)
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		apierrors.BadRequest(w, r, "Invalid user id.")
		return
	}

	if err := service.OwnerOrAdmin(claims.UserID, id, claims.Role); err != nil {
		apierrors.WriteErrorDetails(w, r, err, map[string]string{"resource": id.String()})
		return
	}

	user, err := h.Service.UserByID(r.Context(), id)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toUserPayload(user))
}
