package forecast

import (
	"github.com/shopspring/decimal"
)

// MinWindow минимальный размер окна скользящей средней
const MinWindow = 2

// Request параметры прогноза
type Request struct {
	Year   int
	Month  int
	Window int
}

// Target возвращает целевой месяц запроса
func (r Request) Target() MonthKey {
	return MonthKey{Year: r.Year, Month: r.Month}
}

// Validate проверяет параметры запроса
func (r Request) Validate() error {
	if r.Month < 1 || r.Month > 12 {
		return &InvalidRequestError{Field: "month", Reason: "ожидается значение от 1 до 12"}
	}
	if r.Year < 1 || r.Year > 9999 {
		return &InvalidRequestError{Field: "year", Reason: "ожидается значение от 1 до 9999"}
	}
	if r.Window < MinWindow {
		return &InvalidRequestError{Field: "window", Reason: "размер окна должен быть не меньше 2"}
	}
	return nil
}

// Report результат прогноза для слоя представления
type Report struct {
	Target         MonthKey          `json:"target"`
	Window         int               `json:"window"`
	History        []MonthCount      `json:"history"`
	MovingAverages []decimal.Decimal `json:"moving_averages"`
	Forecast       decimal.Decimal   `json:"forecast"`
	Actual         *int              `json:"actual,omitempty"`
	Deviation      *decimal.Decimal  `json:"deviation_percent,omitempty"`
	Dropped        int               `json:"dropped"`
}

type options struct {
	maxLookahead int
}

// Option настройка расчета
type Option func(*options)

// WithMaxLookahead ограничивает дальность прогноза после последнего наблюдаемого месяца
func WithMaxLookahead(months int) Option {
	return func(o *options) {
		o.maxLookahead = months
	}
}

// Compute строит отчет о прогнозе по сырым датам открытия заказов.
// Некорректные даты пропускаются и учитываются в Report.Dropped.
func Compute(dates []string, req Request, opts ...Option) (*Report, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	o := options{maxLookahead: DefaultMaxLookahead}
	for _, opt := range opts {
		opt(&o)
	}

	parsed, dropped := ParseDates(dates)
	if len(parsed) == 0 {
		return nil, ErrNoData
	}

	series := Aggregate(parsed)
	forecaster := NewForecaster(series, req.Window, o.maxLookahead)

	target := req.Target()
	value, err := forecaster.Forecast(target)
	if err != nil {
		return nil, err
	}

	report := &Report{
		Target:         target,
		Window:         req.Window,
		History:        series.History(),
		MovingAverages: forecaster.MovingAverages(),
		Forecast:       clamp(value),
		Dropped:        dropped,
	}

	if actual, ok := series.Count(target); ok {
		deviation := Deviation(value, actual)
		report.Actual = &actual
		report.Deviation = &deviation
	}

	return report, nil
}
