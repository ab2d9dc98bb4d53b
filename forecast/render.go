package forecast

import (
	"fmt"
	"io"
	"strings"
)

// MonthNames названия месяцев для текстового отчета
var MonthNames = [12]string{"Январь", "Февраль", "Март", "Апрель", "Май", "Июнь",
	"Июль", "Август", "Сентябрь", "Октябрь", "Ноябрь", "Декабрь"}

// MonthName возвращает название месяца или его номер, если он вне диапазона
func MonthName(month int) string {
	if month < 1 || month > 12 {
		return fmt.Sprintf("%d", month)
	}
	return MonthNames[month-1]
}

// Заголовки разделов текстового отчета
const (
	HistoryHeader  = "=== Исторические данные по месяцам ==="
	forecastHeader = "=== Прогноз на %s %d ==="
)

// ForecastHeader возвращает заголовок раздела прогноза
func ForecastHeader(target MonthKey) string {
	return fmt.Sprintf(forecastHeader, MonthName(target.Month), target.Year)
}

// HistoryLines строки исторических данных
func HistoryLines(r *Report) []string {
	lines := make([]string, 0, len(r.History))
	for _, h := range r.History {
		lines = append(lines, fmt.Sprintf("%s: %d заказов", h.Month, h.Count))
	}
	return lines
}

// ForecastLines строки раздела прогноза
func ForecastLines(r *Report) []string {
	lines := []string{
		fmt.Sprintf("Прогнозируемое количество заказов: %s", r.Forecast.StringFixed(Precision)),
	}
	if r.Actual != nil {
		lines = append(lines, fmt.Sprintf("Фактическое количество заказов: %d", *r.Actual))
	}
	if r.Deviation != nil {
		sign := "+"
		if r.Deviation.IsNegative() {
			sign = ""
		}
		lines = append(lines, fmt.Sprintf("Отклонение прогноза: %s%s%%", sign, r.Deviation.StringFixed(Precision)))
	}
	if r.Dropped > 0 {
		lines = append(lines, fmt.Sprintf("Пропущено некорректных записей: %d", r.Dropped))
	}
	return lines
}

// Render выводит отчет в текстовом виде
func Render(w io.Writer, r *Report) error {
	var b strings.Builder
	b.WriteString(HistoryHeader + "\n")
	for _, line := range HistoryLines(r) {
		b.WriteString(line + "\n")
	}
	b.WriteString("\n" + ForecastHeader(r.Target) + "\n")
	for _, line := range ForecastLines(r) {
		b.WriteString(line + "\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}
