// database/order_repository.go
package database

import (
	"context"
	"database/sql"
	"fmt"
)

const orderColumns = "id, type, status, price, client_name, master_name, car_number, open_date, IFNULL(close_date, '')"

// OrderRepository хранилище заявок в MySQL
type OrderRepository struct {
	db *sql.DB
}

// NewOrderRepository создает репозиторий заявок
func NewOrderRepository(db *sql.DB) *OrderRepository {
	return &OrderRepository{
		db: db,
	}
}

// OpenDates возвращает даты открытия всех заявок в том виде, в каком они хранятся
func (r *OrderRepository) OpenDates(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT open_date FROM requests ORDER BY open_date")
	if err != nil {
		return nil, fmt.Errorf("ошибка при запросе дат открытия: %w", err)
	}
	defer rows.Close()

	var dates []string
	for rows.Next() {
		var date sql.NullString
		if err := rows.Scan(&date); err != nil {
			return nil, fmt.Errorf("ошибка при чтении даты открытия: %w", err)
		}
		dates = append(dates, date.String)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ошибка при итерации по датам: %w", err)
	}
	return dates, nil
}

// List возвращает заявки, удовлетворяющие фильтру
func (r *OrderRepository) List(ctx context.Context, filter OrderFilter) ([]Order, error) {
	where, args := filter.where()
	rows, err := r.db.QueryContext(ctx, "SELECT "+orderColumns+" FROM requests"+where+" ORDER BY id", args...)
	if err != nil {
		return nil, fmt.Errorf("ошибка при запросе заявок: %w", err)
	}
	defer rows.Close()

	orders := []Order{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, *o)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ошибка при итерации по заявкам: %w", err)
	}
	return orders, nil
}

// Get возвращает заявку по ID
func (r *OrderRepository) Get(ctx context.Context, id int) (*Order, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+orderColumns+" FROM requests WHERE id = ?", id)
	o, err := scanOrder(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	return o, err
}

// Create сохраняет новую заявку и возвращает ее ID
func (r *OrderRepository) Create(ctx context.Context, o Order) (int, error) {
	if err := o.Validate(); err != nil {
		return 0, err
	}

	res, err := r.db.ExecContext(ctx, `
		INSERT INTO requests (type, status, price, client_name, master_name, car_number, open_date, close_date)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		o.Type, o.Status, o.Price, o.ClientName, o.MasterName, o.CarNumber, o.OpenDate, nullable(o.CloseDate),
	)
	if err != nil {
		return 0, fmt.Errorf("ошибка сохранения заявки: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("ошибка получения ID заявки: %w", err)
	}
	return int(id), nil
}

// Update обновляет заявку целиком
func (r *OrderRepository) Update(ctx context.Context, o Order) error {
	if err := o.Validate(); err != nil {
		return err
	}

	res, err := r.db.ExecContext(ctx, `
		UPDATE requests SET
			type = ?, status = ?, price = ?, client_name = ?, master_name = ?, car_number = ?, open_date = ?, close_date = ?
		WHERE id = ?`,
		o.Type, o.Status, o.Price, o.ClientName, o.MasterName, o.CarNumber, o.OpenDate, nullable(o.CloseDate), o.ID,
	)
	if err != nil {
		return fmt.Errorf("ошибка обновления заявки %d: %w", o.ID, err)
	}
	return requireAffected(res)
}

// Delete удаляет заявку
func (r *OrderRepository) Delete(ctx context.Context, id int) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM requests WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("ошибка удаления заявки %d: %w", id, err)
	}
	return requireAffected(res)
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanOrder(s scanner) (*Order, error) {
	var o Order
	err := s.Scan(&o.ID, &o.Type, &o.Status, &o.Price, &o.ClientName, &o.MasterName, &o.CarNumber, &o.OpenDate, &o.CloseDate)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка при чтении заявки: %w", err)
	}
	return &o, nil
}

func nullable(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

// requireAffected возвращает ErrNotFound, если запрос не затронул ни одной строки.
// Для UPDATE без изменений требуется clientFoundRows в DSN.
func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("ошибка получения количества измененных строк: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
