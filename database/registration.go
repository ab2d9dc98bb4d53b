// database/registration.go
package database

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidPerson данные пользователя не прошли проверку
	ErrInvalidPerson = errors.New("некорректные данные пользователя")
	// ErrReservedUsername логин зарезервирован за администратором
	ErrReservedUsername = errors.New("этот логин зарезервирован")
)

// ClientCreator хранилище, в которое записываются новые клиенты
type ClientCreator interface {
	PersonLookup
	Create(ctx context.Context, p Person) error
}

// Registrar регистрирует новых клиентов. Логин должен быть свободен
// и среди клиентов, и среди сотрудников.
type Registrar struct {
	Clients       ClientCreator
	Employees     PersonLookup
	AdminUsername string
}

// Register проверяет данные и сохраняет клиента
func (r *Registrar) Register(ctx context.Context, p Person) error {
	var missing []string
	for _, f := range []struct{ name, value string }{
		{"логин", p.Username},
		{"полное имя", p.FullName},
		{"email", p.Email},
		{"телефон", p.Phone},
		{"пароль", p.PasswordHash},
	} {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: не заполнены поля %s", ErrInvalidPerson, strings.Join(missing, ", "))
	}

	if r.AdminUsername != "" && p.Username == r.AdminUsername {
		return ErrReservedUsername
	}

	for _, store := range []PersonLookup{r.Clients, r.Employees} {
		if store == nil {
			continue
		}
		_, err := store.Get(ctx, p.Username)
		if err == nil {
			return fmt.Errorf("%w: логин %s уже занят", ErrDuplicate, p.Username)
		}
		if !errors.Is(err, ErrNotFound) {
			return err
		}
	}

	return r.Clients.Create(ctx, p)
}
