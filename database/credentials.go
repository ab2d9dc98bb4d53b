// database/credentials.go
package database

import (
	"context"
	"errors"

	"github.com/LilVoxy/service_requests/auth"
)

// ErrInvalidCredentials неверный логин или пароль
var ErrInvalidCredentials = errors.New("неверный логин или пароль")

// AdminFullName имя, под которым администратор отображается в системе
const AdminFullName = "Администратор"

// PersonLookup поиск клиента или сотрудника по логину
type PersonLookup interface {
	Get(ctx context.Context, username string) (*Person, error)
}

// Account вошедший пользователь: роль и его учетная запись
type Account struct {
	Role   auth.Role
	Person Person
}

// Authenticator проверяет учетные данные: сначала среди клиентов,
// затем среди сотрудников, затем учетную запись администратора.
type Authenticator struct {
	Clients           PersonLookup
	Employees         PersonLookup
	AdminUsername     string
	AdminPasswordHash string
}

// Authenticate возвращает учетную запись пользователя или ErrInvalidCredentials
func (a *Authenticator) Authenticate(ctx context.Context, username, password string) (*Account, error) {
	lookups := []struct {
		store PersonLookup
		role  auth.Role
	}{
		{a.Clients, auth.RoleClient},
		{a.Employees, auth.RoleEmployee},
	}

	for _, l := range lookups {
		if l.store == nil {
			continue
		}
		p, err := l.store.Get(ctx, username)
		if errors.Is(err, ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		if auth.CheckPassword(p.PasswordHash, password) {
			return &Account{Role: l.role, Person: *p}, nil
		}
	}

	if a.AdminUsername != "" && a.AdminPasswordHash != "" &&
		username == a.AdminUsername && auth.CheckPassword(a.AdminPasswordHash, password) {
		return &Account{
			Role:   auth.RoleAdmin,
			Person: Person{Username: a.AdminUsername, FullName: AdminFullName},
		}, nil
	}

	return nil, ErrInvalidCredentials
}
