package forecast

import (
	"github.com/shopspring/decimal"
)

// DefaultMaxLookahead на сколько месяцев после последнего наблюдаемого
// разрешено строить прогноз
const DefaultMaxLookahead = 600

// Forecaster прогнозирует количество заказов на произвольный месяц
// по скользящему среднему наблюдаемой истории.
type Forecaster struct {
	series       *MonthlySeries
	window       int
	maxLookahead int
	counts       []int
	averages     []decimal.Decimal
}

// NewForecaster создает прогнозист для серии и размера окна.
// maxLookahead <= 0 отключает ограничение дальности.
func NewForecaster(series *MonthlySeries, window, maxLookahead int) *Forecaster {
	counts := series.Counts()
	return &Forecaster{
		series:       series,
		window:       window,
		maxLookahead: maxLookahead,
		counts:       counts,
		averages:     MovingAverages(counts, window),
	}
}

// MovingAverages возвращает выровненный ряд скользящих средних
func (f *Forecaster) MovingAverages() []decimal.Decimal {
	out := make([]decimal.Decimal, len(f.averages))
	copy(out, f.averages)
	return out
}

// Forecast возвращает прогноз на месяц target.
//
// Если месяц наблюдался и перед ним есть не меньше window месяцев, прогнозом
// служит скользящее среднее, выровненное на шаг раньше. Если предыстория
// короче окна, берется среднее всех предыдущих месяцев (0 для самого первого).
// Ненаблюдаемый месяц считается как среднее window предшествующих календарных
// месяцев, где месяцы до начала истории равны 0, а пропуски вычисляются по
// тому же правилу.
func (f *Forecaster) Forecast(target MonthKey) (decimal.Decimal, error) {
	if f.series.Len() == 0 {
		return decimal.Zero, ErrNoData
	}
	if f.series.Len() < f.window {
		return decimal.Zero, &InsufficientDataError{Required: f.window, Available: f.series.Len()}
	}

	idx := f.series.IndexOf(target)
	switch {
	case idx >= f.window:
		return f.averages[idx-f.window], nil
	case idx > 0:
		return meanOfCounts(f.counts[:idx]), nil
	case idx == 0:
		return decimal.Zero, nil
	}

	return f.backfill(target)
}

// backfill вычисляет прогноз для ненаблюдаемого месяца.
// Месяцы от начала истории до target разрешаются по порядку, каждый ровно
// один раз, поэтому стоимость линейна по расстоянию до target.
func (f *Forecaster) backfill(target MonthKey) (decimal.Decimal, error) {
	first, _ := f.series.First()
	last, _ := f.series.Last()

	if f.maxLookahead > 0 && target.Index()-last.Index() > f.maxLookahead {
		return decimal.Zero, &TargetTooFarError{Target: target, Latest: last, Limit: f.maxLookahead}
	}

	resolved := make(map[MonthKey]decimal.Decimal)
	for m := first; m.Before(target); m = m.Next() {
		if _, ok := f.series.Count(m); ok {
			continue
		}
		resolved[m] = f.predecessorMean(m, first, resolved)
	}

	return f.predecessorMean(target, first, resolved), nil
}

// predecessorMean округленное среднее window месяцев, предшествующих m
func (f *Forecaster) predecessorMean(m, first MonthKey, resolved map[MonthKey]decimal.Decimal) decimal.Decimal {
	values := make([]decimal.Decimal, 0, f.window)
	prev := m
	for i := 0; i < f.window; i++ {
		prev = prev.Prev()
		if c, ok := f.series.Count(prev); ok {
			values = append(values, decimal.NewFromInt(int64(c)))
			continue
		}
		if prev.Before(first) {
			values = append(values, decimal.Zero)
			continue
		}
		values = append(values, resolved[prev])
	}
	return round(meanOf(values))
}

// Deviation отклонение прогноза от факта в процентах.
// При нулевом факте отклонение равно 0.
func Deviation(forecast decimal.Decimal, actual int) decimal.Decimal {
	if actual == 0 {
		return decimal.Zero
	}
	a := decimal.NewFromInt(int64(actual))
	return round(forecast.Sub(a).Mul(hundred).Div(a))
}

// clamp заменяет отрицательное значение нулем
func clamp(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}
