package forecast

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout формат даты открытия заказа в хранилище
const DateLayout = "2006-01-02"

// MonthKey идентифицирует календарный месяц (год, месяц).
// Сравнивается лексикографически: сначала год, затем месяц.
type MonthKey struct {
	Year  int `json:"year"`
	Month int `json:"month"`
}

// MonthOf возвращает ключ месяца для указанной даты
func MonthOf(t time.Time) MonthKey {
	return MonthKey{Year: t.Year(), Month: int(t.Month())}
}

// Valid проверяет, что номер месяца лежит в диапазоне 1..12
func (k MonthKey) Valid() bool {
	return k.Month >= 1 && k.Month <= 12
}

// Index возвращает порядковый номер месяца от начала летоисчисления
func (k MonthKey) Index() int {
	return k.Year*12 + k.Month - 1
}

// Compare возвращает -1, 0 или 1 в хронологическом порядке
func (k MonthKey) Compare(o MonthKey) int {
	switch {
	case k.Year < o.Year:
		return -1
	case k.Year > o.Year:
		return 1
	case k.Month < o.Month:
		return -1
	case k.Month > o.Month:
		return 1
	}
	return 0
}

// Before сообщает, предшествует ли k месяцу o
func (k MonthKey) Before(o MonthKey) bool {
	return k.Compare(o) < 0
}

// Prev возвращает предыдущий календарный месяц (январь переходит в декабрь прошлого года)
func (k MonthKey) Prev() MonthKey {
	k.Month--
	if k.Month == 0 {
		k.Month = 12
		k.Year--
	}
	return k
}

// Next возвращает следующий календарный месяц
func (k MonthKey) Next() MonthKey {
	k.Month++
	if k.Month == 13 {
		k.Month = 1
		k.Year++
	}
	return k
}

// String форматирует ключ как MM/YYYY
func (k MonthKey) String() string {
	return fmt.Sprintf("%02d/%d", k.Month, k.Year)
}

// ParseDate разбирает дату в формате YYYY-MM-DD
func ParseDate(raw string) (time.Time, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(raw))
	if err != nil {
		return time.Time{}, fmt.Errorf("некорректная дата %q: %w", raw, err)
	}
	return t, nil
}

// ParseDates разбирает набор дат. Некорректные строки отбрасываются,
// их количество возвращается вторым значением.
func ParseDates(raw []string) ([]time.Time, int) {
	dates := make([]time.Time, 0, len(raw))
	dropped := 0
	for _, s := range raw {
		t, err := ParseDate(s)
		if err != nil {
			dropped++
			continue
		}
		dates = append(dates, t)
	}
	return dates, dropped
}
