// Входные/выходные модели REST-контракта. Имена полей — часть контракта
// и не подлежат переименованию.
package handlers

import (
	"github.com/apetrova/go-bookstore-auth/internal/models"
)

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type refreshRequest struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

type federatedLoginRequest struct {
	IDToken string `json:"idToken"`
}

type userPayload struct {
	ID      string `json:"id"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	IsAdmin bool   `json:"isAdmin"`
}

// loginResponse — ответ Login/Register/федеративного входа.
// expiresIn — срок жизни access-токена в минутах.
type loginResponse struct {
	Token        string      `json:"token"`
	RefreshToken string      `json:"refreshToken"`
	ExpiresIn    int64       `json:"expiresIn"`
	User         userPayload `json:"user"`
}

// refreshResponse — ответ обмена пары токенов.
type refreshResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    int64  `json:"expiresIn"`
}

type logoutResponse struct {
	Message string `json:"message"`
}

func toUserPayload(u *models.User) userPayload {
	return userPayload{
		ID:      u.ID.String(),
		Email:   u.Email,
		Name:    u.Name,
		IsAdmin: u.IsAdmin(),
	}
}

func toLoginResponse(pair *models.TokenPair, u *models.User) loginResponse {
	return loginResponse{
		Token:        pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		ExpiresIn:    pair.ExpiresIn,
		User:         toUserPayload(u),
	}
}
