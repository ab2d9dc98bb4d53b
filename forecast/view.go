package forecast

// HistoryPoint количество заказов за месяц в представлении для клиентов API
type HistoryPoint struct {
	Month string `json:"month"`
	Count int    `json:"count"`
}

// View представление отчета для JSON-ответов и панели мониторинга.
// Десятичные значения переведены в числа, добавлены строки текстового отчета.
type View struct {
	Target         string         `json:"target"`
	Year           int            `json:"year"`
	Month          int            `json:"month"`
	MonthName      string         `json:"month_name"`
	Window         int            `json:"window"`
	History        []HistoryPoint `json:"history"`
	MovingAverages []float64      `json:"moving_averages"`
	Forecast       float64        `json:"forecast"`
	Actual         *int           `json:"actual,omitempty"`
	Deviation      *float64       `json:"deviation_percent,omitempty"`
	Dropped        int            `json:"dropped"`
	Lines          []string       `json:"lines"`
	SnapshotID     string         `json:"snapshot_id,omitempty"`
}

// NewView строит представление отчета
func NewView(r *Report) View {
	v := View{
		Target:         r.Target.String(),
		Year:           r.Target.Year,
		Month:          r.Target.Month,
		MonthName:      MonthName(r.Target.Month),
		Window:         r.Window,
		History:        make([]HistoryPoint, len(r.History)),
		MovingAverages: make([]float64, len(r.MovingAverages)),
		Forecast:       r.Forecast.InexactFloat64(),
		Actual:         r.Actual,
		Dropped:        r.Dropped,
	}
	for i, h := range r.History {
		v.History[i] = HistoryPoint{Month: h.Month.String(), Count: h.Count}
	}
	for i, a := range r.MovingAverages {
		v.MovingAverages[i] = a.InexactFloat64()
	}
	if r.Deviation != nil {
		d := r.Deviation.InexactFloat64()
		v.Deviation = &d
	}

	v.Lines = append([]string{HistoryHeader}, HistoryLines(r)...)
	v.Lines = append(v.Lines, ForecastHeader(r.Target))
	v.Lines = append(v.Lines, ForecastLines(r)...)
	return v
}
