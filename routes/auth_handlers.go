// routes/auth_handlers.go
package routes

import (
	"log"
	"net/http"

	"github.com/LilVoxy/service_requests/auth"
)

// LoginRequest учетные данные
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse роль пользователя, ее права и имя, которое клиент
// передает в заголовке X-User
type LoginResponse struct {
	Role         string            `json:"role"`
	Capabilities auth.Capabilities `json:"capabilities"`
	Username     string            `json:"username"`
	FullName     string            `json:"full_name"`
}

// RegisterRequest данные для самостоятельной регистрации клиента
type RegisterRequest struct {
	PersonRequest
	ConfirmPassword string `json:"confirm_password"`
}

// LoginHandler проверяет учетные данные и возвращает роль
func LoginHandler(authenticator Authenticator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req LoginRequest
		if err := decodeBody(r, &req); err != nil {
			writeError(w, err)
			return
		}
		if req.Username == "" || req.Password == "" {
			writeError(w, badRequest("логин и пароль обязательны"))
			return
		}

		account, err := authenticator.Authenticate(r.Context(), req.Username, req.Password)
		if err != nil {
			log.Printf("❌ Неудачная попытка входа %s: %v", req.Username, err)
			writeError(w, err)
			return
		}

		log.Printf("✅ Пользователь %s вошел как %s", req.Username, account.Role)
		writeJSON(w, http.StatusOK, LoginResponse{
			Role:         account.Role.String(),
			Capabilities: account.Role.Capabilities(),
			Username:     account.Person.Username,
			FullName:     account.Person.FullName,
		})
	}
}

// RegisterHandler регистрирует нового клиента. Доступен без роли.
func RegisterHandler(registrar Registrar) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req RegisterRequest
		if err := decodeBody(r, &req); err != nil {
			writeError(w, err)
			return
		}
		if req.Password != req.ConfirmPassword {
			writeError(w, badRequest("пароли не совпадают"))
			return
		}

		p, err := req.person()
		if err != nil {
			writeError(w, err)
			return
		}
		if err := registrar.Register(r.Context(), p); err != nil {
			log.Printf("⚠️ Регистрация %s отклонена: %v", req.Username, err)
			writeError(w, err)
			return
		}

		log.Printf("👤 Зарегистрирован клиент %s", p.Username)
		writeJSON(w, http.StatusCreated, p)
	}
}
