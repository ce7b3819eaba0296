package models

import (
	"time"

	"github.com/google/uuid"
)

// Роли пользователей. Роль назначается при создании и меняется только
// административной операцией вне этого сервиса — login/refresh/federation
// роль никогда не повышают.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User — модель пользователя книжного магазина (auth-поля).
//
// Инварианты:
//   - Email уникален; нормализуется (lowercase) один раз на границе сервиса
//     и далее сравнивается как есть;
//   - PasswordHash пуст у пользователей, созданных через федерацию;
//   - Provider/ProviderSubject пусты у локальных аккаунтов;
//   - RefreshTokenHash/RefreshExpiresAt пусты, когда активной сессии нет;
//     хэш валиден только пока RefreshExpiresAt в будущем.
type User struct {
	ID              uuid.UUID
	Email           string
	Name            string
	PasswordHash    string
	Role            string
	Provider        string
	ProviderSubject string
	// RefreshTokenHash — base64(sha256(plain)); сам секрет на сервере не хранится.
	RefreshTokenHash string
	RefreshExpiresAt time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// IsAdmin сообщает, является ли пользователь администратором.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
