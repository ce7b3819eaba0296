package models

// ProviderIdentity — нормализованная личность, подтверждённая внешним
// провайдером. Содержит только факты — решения (создать/переиспользовать
// пользователя) принимает service.FederatedLogin.
type ProviderIdentity struct {
	// Provider — имя провайдера ("google", "github").
	Provider string
	// Subject — уникальный идентификатор пользователя у провайдера.
	Subject string
	// Email — подтверждённый провайдером email.
	Email string
	// Name — отображаемое имя.
	Name string
}
