// database/order.go
package database

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/LilVoxy/service_requests/forecast"
)

// Статусы заявки
const (
	StatusNew        = "новый"
	StatusInProgress = "в работе"
	StatusDone       = "завершён"
)

// Statuses допустимые статусы заявки
var Statuses = []string{StatusNew, StatusInProgress, StatusDone}

// Order заявка на обслуживание
type Order struct {
	ID         int             `json:"id"`
	Type       string          `json:"type"`
	Status     string          `json:"status"`
	Price      decimal.Decimal `json:"price"`
	ClientName string          `json:"client_name"`
	MasterName string          `json:"master_name"`
	CarNumber  string          `json:"car_number"`
	OpenDate   string          `json:"open_date"`
	CloseDate  string          `json:"close_date,omitempty"`
}

// ErrInvalidOrder заявка не прошла проверку
var ErrInvalidOrder = errors.New("некорректная заявка")

// Validate проверяет обязательные поля заявки
func (o Order) Validate() error {
	var missing []string
	if strings.TrimSpace(o.Type) == "" {
		missing = append(missing, "type")
	}
	if strings.TrimSpace(o.ClientName) == "" {
		missing = append(missing, "client_name")
	}
	if strings.TrimSpace(o.MasterName) == "" {
		missing = append(missing, "master_name")
	}
	if strings.TrimSpace(o.CarNumber) == "" {
		missing = append(missing, "car_number")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: не заполнены поля %s", ErrInvalidOrder, strings.Join(missing, ", "))
	}

	if !validStatus(o.Status) {
		return fmt.Errorf("%w: неизвестный статус %q", ErrInvalidOrder, o.Status)
	}
	if o.Price.IsNegative() {
		return fmt.Errorf("%w: цена не может быть отрицательной", ErrInvalidOrder)
	}

	open, err := forecast.ParseDate(o.OpenDate)
	if err != nil {
		return fmt.Errorf("%w: дата открытия: %v", ErrInvalidOrder, err)
	}
	if o.CloseDate != "" {
		closed, err := forecast.ParseDate(o.CloseDate)
		if err != nil {
			return fmt.Errorf("%w: дата закрытия: %v", ErrInvalidOrder, err)
		}
		if closed.Before(open) {
			return fmt.Errorf("%w: дата закрытия раньше даты открытия", ErrInvalidOrder)
		}
	}
	return nil
}

func validStatus(status string) bool {
	for _, s := range Statuses {
		if s == status {
			return true
		}
	}
	return false
}

// OrderFilter условия выборки заявок. Пустые поля не участвуют в отборе.
type OrderFilter struct {
	Status     string
	ClientName string
	MasterName string
	CarNumber  string
	OpenFrom   string
	OpenTo     string
}

// where переводит фильтр в условие SQL и список аргументов
func (f OrderFilter) where() (string, []interface{}) {
	var conds []string
	var args []interface{}

	add := func(cond string, v string) {
		if v == "" {
			return
		}
		conds = append(conds, cond)
		args = append(args, v)
	}

	add("status = ?", f.Status)
	add("client_name = ?", f.ClientName)
	add("master_name = ?", f.MasterName)
	add("car_number LIKE CONCAT('%', ?, '%')", f.CarNumber)
	add("open_date >= ?", f.OpenFrom)
	add("open_date <= ?", f.OpenTo)

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}
