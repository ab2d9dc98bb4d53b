// database/schema.go
package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
)

// ErrNotFound запись не найдена
var ErrNotFound = errors.New("запись не найдена")

// Создание необходимых таблиц, если они не существуют
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	// Клиенты и сотрудники хранят bcrypt-хеш пароля
	createClientsTable := `
	CREATE TABLE IF NOT EXISTS clients (
		username VARCHAR(64) PRIMARY KEY,
		full_name VARCHAR(255) NOT NULL,
		email VARCHAR(255) NOT NULL DEFAULT '',
		phone VARCHAR(32) NOT NULL DEFAULT '',
		password_hash VARCHAR(255) NOT NULL
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4;`

	createEmployeesTable := `
	CREATE TABLE IF NOT EXISTS employees (
		username VARCHAR(64) PRIMARY KEY,
		full_name VARCHAR(255) NOT NULL,
		email VARCHAR(255) NOT NULL DEFAULT '',
		phone VARCHAR(32) NOT NULL DEFAULT '',
		password_hash VARCHAR(255) NOT NULL
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4;`

	// Даты заявок хранятся текстом YYYY-MM-DD
	createRequestsTable := `
	CREATE TABLE IF NOT EXISTS requests (
		id INT AUTO_INCREMENT PRIMARY KEY,
		type VARCHAR(255) NOT NULL,
		status VARCHAR(32) NOT NULL,
		price DECIMAL(12,2) NOT NULL,
		client_name VARCHAR(255) NOT NULL,
		master_name VARCHAR(255) NOT NULL,
		car_number VARCHAR(32) NOT NULL,
		open_date VARCHAR(10) NOT NULL,
		close_date VARCHAR(10) NULL,
		INDEX idx_open_date (open_date),
		INDEX idx_status (status)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4;`

	createSnapshotsTable := `
	CREATE TABLE IF NOT EXISTS forecast_snapshots (
		id CHAR(36) PRIMARY KEY,
		target_year INT NOT NULL,
		target_month INT NOT NULL,
		window_size INT NOT NULL,
		forecast DOUBLE NOT NULL,
		payload BLOB NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		INDEX idx_target (target_year, target_month),
		INDEX idx_created_at (created_at)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4;`

	tables := []struct {
		name  string
		query string
	}{
		{"clients", createClientsTable},
		{"employees", createEmployeesTable},
		{"requests", createRequestsTable},
		{"forecast_snapshots", createSnapshotsTable},
	}

	for _, table := range tables {
		if _, err := db.ExecContext(ctx, table.query); err != nil {
			return fmt.Errorf("ошибка создания таблицы %s: %w", table.name, err)
		}
	}

	log.Println("✅ Структура базы данных проверена и актуализирована")
	return nil
}
