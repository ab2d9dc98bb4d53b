// routes/response.go
package routes

import (
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/goccy/go-json"

	"github.com/LilVoxy/service_requests/auth"
	"github.com/LilVoxy/service_requests/database"
	"github.com/LilVoxy/service_requests/forecast"
)

// Заголовки запроса, определяющие пользователя
const (
	HeaderRole = "X-Role"
	HeaderUser = "X-User"
)

// ErrorResponse тело ответа с ошибкой
type ErrorResponse struct {
	Error string `json:"error"`
}

var (
	errForbidden   = errors.New("недостаточно прав")
	errUnknownUser = errors.New("не указан пользователь")
)

// writeJSON кодирует ответ в JSON
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("❌ Ошибка при кодировании JSON: %v", err)
	}
}

// writeError отвечает ошибкой с кодом, соответствующим ее виду.
// Внутренние ошибки не раскрываются клиенту.
func writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		log.Printf("❌ Внутренняя ошибка: %v", err)
		msg = "внутренняя ошибка сервера"
	}
	writeJSON(w, status, ErrorResponse{Error: msg})
}

// statusFor сопоставляет ошибку HTTP-статусу
func statusFor(err error) int {
	var insufficient *forecast.InsufficientDataError
	var tooFar *forecast.TargetTooFarError
	var invalid *forecast.InvalidRequestError
	var bad *badRequestError

	switch {
	case errors.As(err, &invalid), errors.As(err, &bad),
		errors.Is(err, database.ErrInvalidOrder), errors.Is(err, database.ErrInvalidPerson):
		return http.StatusBadRequest
	case errors.Is(err, database.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, errForbidden), errors.Is(err, errUnknownUser):
		return http.StatusForbidden
	case errors.Is(err, database.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, database.ErrDuplicate), errors.Is(err, database.ErrReservedUsername):
		return http.StatusConflict
	case errors.Is(err, forecast.ErrNoData), errors.As(err, &insufficient), errors.As(err, &tooFar):
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

func forbidden(reason string) error {
	return fmt.Errorf("%w: %s", errForbidden, reason)
}

// badRequestError некорректный параметр или тело запроса
type badRequestError struct {
	msg string
}

func (e *badRequestError) Error() string { return e.msg }

func badRequest(msg string) error {
	return &badRequestError{msg: msg}
}

// decodeBody разбирает JSON-тело запроса
func decodeBody(r *http.Request, v interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return badRequest("некорректное тело запроса: " + err.Error())
	}
	return nil
}

// Principal пользователь, от имени которого выполняется запрос
type Principal struct {
	Role         auth.Role
	Capabilities auth.Capabilities
	User         string
}

// principalFrom определяет роль по заголовку X-Role (для WebSocket также по параметру role)
func principalFrom(r *http.Request) (Principal, error) {
	raw := r.Header.Get(HeaderRole)
	if raw == "" {
		raw = r.URL.Query().Get("role")
	}
	role, err := auth.ParseRole(raw)
	if err != nil {
		return Principal{}, errForbidden
	}
	return Principal{
		Role:         role,
		Capabilities: role.Capabilities(),
		User:         r.Header.Get(HeaderUser),
	}, nil
}

// require возвращает обработчик, доступный только при наличии права
func require(allowed func(auth.Capabilities) bool, next func(http.ResponseWriter, *http.Request, Principal)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := principalFrom(r)
		if err != nil {
			writeError(w, err)
			return
		}
		if !allowed(p.Capabilities) {
			writeError(w, errForbidden)
			return
		}
		next(w, r, p)
	}
}

func canViewForecast(c auth.Capabilities) bool { return c.ViewForecast }
func canManageOrders(c auth.Capabilities) bool { return c.Orders }
func canManageClients(c auth.Capabilities) bool { return c.Clients }
func canManageEmployees(c auth.Capabilities) bool { return c.Employees }
