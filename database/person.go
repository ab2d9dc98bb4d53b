// database/person.go
package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/go-sql-driver/mysql"
)

// ErrDuplicate запись с таким ключом уже существует
var ErrDuplicate = errors.New("запись уже существует")

// Person клиент или сотрудник
type Person struct {
	Username     string `json:"username"`
	FullName     string `json:"full_name"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	PasswordHash string `json:"-"`
}

// Validate проверяет обязательные поля
func (p Person) Validate() error {
	if strings.TrimSpace(p.Username) == "" || strings.TrimSpace(p.FullName) == "" {
		return errors.New("логин и полное имя обязательны")
	}
	if p.PasswordHash == "" {
		return errors.New("пароль обязателен")
	}
	return nil
}

// PersonRepository хранилище клиентов или сотрудников (таблицы одинаковой структуры)
type PersonRepository struct {
	db    *sql.DB
	table string
}

// NewClientRepository создает репозиторий клиентов
func NewClientRepository(db *sql.DB) *PersonRepository {
	return &PersonRepository{db: db, table: "clients"}
}

// NewEmployeeRepository создает репозиторий сотрудников
func NewEmployeeRepository(db *sql.DB) *PersonRepository {
	return &PersonRepository{db: db, table: "employees"}
}

// List возвращает все записи, упорядоченные по логину
func (r *PersonRepository) List(ctx context.Context) ([]Person, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT username, full_name, email, phone, password_hash FROM "+r.table+" ORDER BY username")
	if err != nil {
		return nil, fmt.Errorf("ошибка при запросе %s: %w", r.table, err)
	}
	defer rows.Close()

	people := []Person{}
	for rows.Next() {
		var p Person
		if err := rows.Scan(&p.Username, &p.FullName, &p.Email, &p.Phone, &p.PasswordHash); err != nil {
			return nil, fmt.Errorf("ошибка при чтении %s: %w", r.table, err)
		}
		people = append(people, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ошибка при итерации по %s: %w", r.table, err)
	}
	return people, nil
}

// Get возвращает запись по логину
func (r *PersonRepository) Get(ctx context.Context, username string) (*Person, error) {
	var p Person
	err := r.db.QueryRowContext(ctx,
		"SELECT username, full_name, email, phone, password_hash FROM "+r.table+" WHERE username = ?",
		username,
	).Scan(&p.Username, &p.FullName, &p.Email, &p.Phone, &p.PasswordHash)

	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	} else if err != nil {
		return nil, fmt.Errorf("ошибка поиска %s в %s: %w", username, r.table, err)
	}
	return &p, nil
}

// Create добавляет запись
func (r *PersonRepository) Create(ctx context.Context, p Person) error {
	if err := p.Validate(); err != nil {
		return err
	}

	_, err := r.db.ExecContext(ctx,
		"INSERT INTO "+r.table+" (username, full_name, email, phone, password_hash) VALUES (?, ?, ?, ?, ?)",
		p.Username, p.FullName, p.Email, p.Phone, p.PasswordHash,
	)
	if isDuplicate(err) {
		return ErrDuplicate
	}
	if err != nil {
		return fmt.Errorf("ошибка сохранения %s в %s: %w", p.Username, r.table, err)
	}
	return nil
}

// Update обновляет запись. Пустой PasswordHash оставляет пароль без изменений.
func (r *PersonRepository) Update(ctx context.Context, p Person) error {
	var res sql.Result
	var err error
	if p.PasswordHash == "" {
		res, err = r.db.ExecContext(ctx,
			"UPDATE "+r.table+" SET full_name = ?, email = ?, phone = ? WHERE username = ?",
			p.FullName, p.Email, p.Phone, p.Username)
	} else {
		res, err = r.db.ExecContext(ctx,
			"UPDATE "+r.table+" SET full_name = ?, email = ?, phone = ?, password_hash = ? WHERE username = ?",
			p.FullName, p.Email, p.Phone, p.PasswordHash, p.Username)
	}
	if err != nil {
		return fmt.Errorf("ошибка обновления %s в %s: %w", p.Username, r.table, err)
	}
	return requireAffected(res)
}

// Delete удаляет запись
func (r *PersonRepository) Delete(ctx context.Context, username string) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM "+r.table+" WHERE username = ?", username)
	if err != nil {
		return fmt.Errorf("ошибка удаления %s из %s: %w", username, r.table, err)
	}
	return requireAffected(res)
}

// isDuplicate сообщает, что MySQL отклонил вставку из-за дубликата ключа
func isDuplicate(err error) bool {
	var mysqlErr *mysql.MySQLError
	return errors.As(err, &mysqlErr) && mysqlErr.Number == 1062
}
