package handlers

import (
	"net/http"

	"github.com/apetrova/go-bookstore-auth/internal/transport/http/apierrors"
)

// Register регистрирует локального пользователя и сразу открывает сессию.
func (h *Handlers) Register(w http.ResponseWriter, r *http.Request) {
	var in registerRequest
	if err := decodeStrict(r, &in); err != nil {
		apierrors.BadRequest(w, r, "")
		return
	}

	pair, user, err := h.Service.RegisterUser(r.Context(), in.Email, in.Password, in.Name)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, toLoginResponse(pair, user))
}

// Login выполняет вход по email+пароль.
func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	var in loginRequest
	if err := decodeStrict(r, &in); err != nil {
		apierrors.BadRequest(w, r, "")
		return
	}

	pair, user, err := h.Service.LoginUser(r.Context(), in.Email, in.Password)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toLoginResponse(pair, user))
}

// Refresh обменивает просроченный access-токен + refresh-токен на новую пару.
func (h *Handlers) Refresh(w http.ResponseWriter, r *http.Request) {
	var in refreshRequest
	if err := decodeStrict(r, &in); err != nil {
		apierrors.BadRequest(w, r, "")
		return
	}

	pair, err := h.Service.RefreshToken(r.Context(), in.AccessToken, in.RefreshToken)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, refreshResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		ExpiresIn:    pair.ExpiresIn,
	})
}

// Logout — статический ответ без мутации состояния: активный refresh-токен
// не отзывается, клиент просто забывает пару токенов.
func (h *Handlers) Logout(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, logoutResponse{Message: "Logged out."})
}

// FederatedLogin возвращает хендлер входа через внешнего провайдера.
// Один хендлер на провайдера — маршрут фиксирует его имя.
func (h *Handlers) FederatedLogin(providerName string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in federatedLoginRequest
		if err := decodeStrict(r, &in); err != nil {
			apierrors.BadRequest(w, r, "")
			return
		}

		pair, user, err := h.Service.FederatedLogin(r.Context(), providerName, in.IDToken)
		if err != nil {
			apierrors.WriteError(w, r, err)
			return
		}

		writeJSON(w, http.StatusOK, toLoginResponse(pair, user))
	}
}
