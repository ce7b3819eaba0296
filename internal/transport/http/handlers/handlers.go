// handlers содержит реализацию REST-эндпойнтов identity-сервиса.
// Здесь выполняется только парсинг/маппинг данных и ошибок доменного слоя
// (service) в HTTP. Вся валидация и бизнес-логика находятся в пакете service.
//
// Контракт ошибок: см. пакет apierrors. Для codes INTERNAL наружу не утекают
// детали внутренних ошибок; подробности попадают в логи через мидлвары.
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/apetrova/go-bookstore-auth/internal/service"
)

// Handlers агрегирует зависимости REST-слоя.
type Handlers struct {
	Service *service.Service
}

func New(svc *service.Service) *Handlers {
	return &Handlers{Service: svc}
}

// writeJSON — единый ответ JSON с нужным Content-Type.
// Ошибки выводим через apierrors.WriteError.
func writeJSON(w http.ResponseWriter, status int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(value)
}

// decodeStrict — строгий JSON-декодер: запрещаем неизвестные поля.
func decodeStrict(r *http.Request, value any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(value)
}
