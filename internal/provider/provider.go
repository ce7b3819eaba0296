// provider содержит адаптеры внешних провайдеров идентичности.
//
// Сервис никогда не перепроверяет криптографию провайдера сам: каждый адаптер
// обращается к верификационному эндпойнту провайдера и возвращает
// нормализованную модель models.ProviderIdentity. Любая ошибка проверки
// сворачивается в ErrVerification без деталей.
package provider

import (
	"context"
	"errors"

	"github.com/apetrova/go-bookstore-auth/internal/models"
)

// ErrVerification — токен провайдера невалиден/просрочен либо проверка не прошла.
var ErrVerification = errors.New("provider verification failed")

// Verifier проверяет токен внешнего провайдера и возвращает подтверждённую личность.
type Verifier interface {
	// Name возвращает имя провайдера ("google", "github").
	Name() string
	// Verify проверяет idToken у провайдера.
	Verify(ctx context.Context, idToken string) (*models.ProviderIdentity, error)
}
