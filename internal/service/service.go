// service содержит бизнес-логику identity-сервиса книжного магазина:
// проверку учётных данных, выпуск/проверку токенов, протокол ротации
// refresh-токенов, федерацию внешних провайдеров и решения авторизации.
//
// Основные аспекты:
//   - Пакет не хранит состояние запроса внутри Service; экземпляр Service
//     безопасен для конкурентного использования из разных горутин при условии,
//     что переданное хранилище (storage.Storage) потокобезопасно. Внутренних
//     блокировок нет: корректность ротации обеспечивает условное обновление
//     на стороне БД (см. refresh.go).
//   - Ошибки возвращаются сентинелами и далее маппятся транспортом на
//     HTTP-статусы (см. комментарии к переменным ошибок ниже).
package service

import (
	"errors"
	"time"

	"github.com/apetrova/go-bookstore-auth/internal/config"
	"github.com/apetrova/go-bookstore-auth/internal/provider"
	"github.com/apetrova/go-bookstore-auth/internal/ratelimit"
	"github.com/apetrova/go-bookstore-auth/internal/storage"
)

var (
	// ErrInvalidCredentials — пара логин/пароль неверна или пользователь не найден.
	// Сообщение едино для обоих случаев — перечисление аккаунтов невозможно.
	// Транспорт: 401 UNAUTHORIZED.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrInvalidToken — access-токен некорректен по формату/подписи/алгоритму.
	// Транспорт: 401 UNAUTHORIZED.
	ErrInvalidToken = errors.New("invalid token")

	// ErrTokenExpired — срок действия access-токена истёк (путь авторизации,
	// не refresh). Транспорт: 401 TOKEN_EXPIRED.
	ErrTokenExpired = errors.New("token expired")

	// ErrInvalidRefreshSession — refresh-токен не совпал, просрочен или сессии
	// нет; исходы намеренно неразличимы. Транспорт: 401 TOKEN_EXPIRED,
	// сообщение "Invalid or expired refresh token."
	ErrInvalidRefreshSession = errors.New("invalid refresh session")

	// ErrProviderVerification — токен внешнего провайдера невалиден/просрочен.
	// Транспорт: 401 UNAUTHORIZED.
	ErrProviderVerification = errors.New("provider verification failed")

	// ErrUnknownProvider — запрошен незарегистрированный провайдер.
	// Транспорт: 400 BAD_REQUEST.
	ErrUnknownProvider = errors.New("unknown identity provider")

	// ErrPermissionDenied — роли недостаточно либо субъект не владелец ресурса.
	// Транспорт: 403 FORBIDDEN.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrTooManyAttempts — превышен лимит неудачных попыток входа.
	// Транспорт: 429.
	ErrTooManyAttempts = errors.New("too many login attempts")

	// ErrUserNotFound — пользователь не найден (профильные операции).
	// Транспорт: 404 NOT_FOUND.
	ErrUserNotFound = errors.New("user not found")

	// ErrEmailTaken — e-mail уже занят другим пользователем.
	// Транспорт: 409 CONFLICT.
	ErrEmailTaken = errors.New("email already taken")

	// ErrInvalidEmail — e-mail имеет некорректный формат.
	// Транспорт: 400 BAD_REQUEST.
	ErrInvalidEmail = errors.New("invalid email format")

	// ErrWeakPassword — пароль не удовлетворяет политикам сложности.
	// Транспорт: 400 BAD_REQUEST.
	ErrWeakPassword = errors.New("password is too weak")

	// ErrEmptyPassword — пароль пустой.
	// Транспорт: 400 BAD_REQUEST.
	ErrEmptyPassword = errors.New("password is empty")
)

// Service описывает бизнес-логику identity-сервиса.
type Service struct {
	storage   storage.Storage
	cfg       config.AuthConfig
	providers map[string]provider.Verifier
	limiter   *ratelimit.Limiter // может быть nil, если Redis не сконфигурирован

	// now — источник времени; подменяется в тестах для детерминированной
	// симуляции истечения сроков.
	now func() time.Time
}

// New создаёт новый экземпляр Service.
func New(storage storage.Storage, cfg config.AuthConfig) *Service {
	return &Service{
		storage:   storage,
		cfg:       cfg,
		providers: make(map[string]provider.Verifier),
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// RegisterProvider регистрирует верификатор внешнего провайдера.
func (s *Service) RegisterProvider(v provider.Verifier) {
	s.providers[v.Name()] = v
}

// SetLoginLimiter устанавливает лимитер попыток входа (опционально).
func (s *Service) SetLoginLimiter(l *ratelimit.Limiter) {
	s.limiter = l
}
