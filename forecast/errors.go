package forecast

import (
	"errors"
	"fmt"
)

// ErrNoData возвращается, когда в истории нет ни одной корректной даты
var ErrNoData = errors.New("нет данных для анализа")

// InsufficientDataError наблюдаемых месяцев меньше, чем размер окна
type InsufficientDataError struct {
	Required  int
	Available int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("недостаточно данных для расчета (нужно минимум %d месяца, доступно %d)",
		e.Required, e.Available)
}

// TargetTooFarError целевой месяц слишком далеко от наблюдаемой истории
type TargetTooFarError struct {
	Target MonthKey
	Latest MonthKey
	Limit  int
}

func (e *TargetTooFarError) Error() string {
	return fmt.Sprintf("месяц %s слишком далеко от последнего наблюдаемого %s (допустимо не более %d месяцев)",
		e.Target, e.Latest, e.Limit)
}

// InvalidRequestError некорректные параметры запроса прогноза
type InvalidRequestError struct {
	Field  string
	Reason string
}

func (e *InvalidRequestError) Error() string {
	return fmt.Sprintf("некорректный параметр %s: %s", e.Field, e.Reason)
}
