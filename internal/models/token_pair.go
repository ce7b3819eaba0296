package models

import "time"

// TokenPair — пара токенов, выдаваемая при логине/регистрации/федерации/refresh.
//
// Описание:
//   - AccessToken — короткоживущий JWT для доступа к API;
//   - RefreshToken — случайный секрет, который клиент хранит и предъявляет
//     для выпуска новой пары токенов; на сервере хранится только его хэш;
//   - ExpiresIn — срок жизни access-токена в минутах (контракт API);
//   - AccessExpiresAt — момент истечения access-токена (UTC).
type TokenPair struct {
	AccessToken     string
	RefreshToken    string
	ExpiresIn       int64
	AccessExpiresAt time.Time
}
