package auth

import (
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// Role роль пользователя системы
type Role int

const (
	RoleClient Role = iota + 1
	RoleEmployee
	RoleAdmin
)

// Capabilities права доступа роли
type Capabilities struct {
	Orders         bool `json:"orders"`
	Clients        bool `json:"clients"`
	Employees      bool `json:"employees"`
	EditStatus     bool `json:"can_edit_status"`
	EditClientName bool `json:"can_edit_client_name"`
	EditCloseDate  bool `json:"can_edit_close_date"`
	ViewForecast   bool `json:"can_view_forecast_button"`
}

var capabilities = map[Role]Capabilities{
	RoleClient: {
		Orders: true,
	},
	RoleEmployee: {
		Orders:         true,
		Clients:        true,
		EditStatus:     true,
		EditClientName: true,
		EditCloseDate:  true,
		ViewForecast:   true,
	},
	RoleAdmin: {
		Orders:         true,
		Clients:        true,
		Employees:      true,
		EditStatus:     true,
		EditClientName: true,
		EditCloseDate:  true,
		ViewForecast:   true,
	},
}

// Capabilities возвращает права роли. Неизвестная роль не имеет прав.
func (r Role) Capabilities() Capabilities {
	return capabilities[r]
}

func (r Role) String() string {
	switch r {
	case RoleClient:
		return "client"
	case RoleEmployee:
		return "employee"
	case RoleAdmin:
		return "admin"
	}
	return fmt.Sprintf("role(%d)", int(r))
}

// ParseRole разбирает название роли
func ParseRole(s string) (Role, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "client":
		return RoleClient, nil
	case "employee":
		return RoleEmployee, nil
	case "admin":
		return RoleAdmin, nil
	}
	return 0, fmt.Errorf("неизвестная роль %q", s)
}

// HashPassword возвращает bcrypt-хеш пароля
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("ошибка хеширования пароля: %w", err)
	}
	return string(hash), nil
}

// CheckPassword сверяет пароль с хешем
func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
