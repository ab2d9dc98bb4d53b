// routes/forecast_handlers.go
package routes

import (
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/LilVoxy/service_requests/database"
	"github.com/LilVoxy/service_requests/forecast"
)

// SnapshotResponse сохраненный прогноз в ответе API
type SnapshotResponse struct {
	ID        string         `json:"id"`
	Target    string         `json:"target"`
	Window    int            `json:"window"`
	Forecast  float64        `json:"forecast"`
	CreatedAt time.Time      `json:"created_at"`
	Report    *forecast.View `json:"report,omitempty"`
}

func newSnapshotResponse(s database.Snapshot) SnapshotResponse {
	resp := SnapshotResponse{
		ID:        s.ID,
		Target:    s.Target.String(),
		Window:    s.Window,
		Forecast:  s.Forecast,
		CreatedAt: s.CreatedAt,
	}
	if s.Report != nil {
		v := forecast.NewView(s.Report)
		v.SnapshotID = s.ID
		resp.Report = &v
	}
	return resp
}

// intParam разбирает обязательный целочисленный параметр запроса
func intParam(r *http.Request, name string) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, badRequest("отсутствует обязательный параметр " + name)
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, badRequest("параметр " + name + " должен быть целым числом")
	}
	return v, nil
}

// ForecastHandler строит прогноз на месяц. При save=true отчет сохраняется
// и рассылается на панель мониторинга.
func ForecastHandler(svc Forecaster, snapshots SnapshotStore, n *notifier, defaultWindow int) http.HandlerFunc {
	return require(canViewForecast, func(w http.ResponseWriter, r *http.Request, _ Principal) {
		year, err := intParam(r, "year")
		if err != nil {
			writeError(w, err)
			return
		}
		month, err := intParam(r, "month")
		if err != nil {
			writeError(w, err)
			return
		}
		window := defaultWindow
		if r.URL.Query().Get("window") != "" {
			if window, err = intParam(r, "window"); err != nil {
				writeError(w, err)
				return
			}
		}

		report, err := svc.ComputeForecast(r.Context(), year, month, window)
		if err != nil {
			writeError(w, err)
			return
		}

		view := forecast.NewView(report)
		if save, _ := strconv.ParseBool(r.URL.Query().Get("save")); save {
			snapshot, err := snapshots.Save(r.Context(), report)
			if err != nil {
				writeError(w, err)
				return
			}
			view.SnapshotID = snapshot.ID
			n.forecast(r.Context(), report)
			log.Printf("✅ Прогноз на %s сохранен как %s", report.Target, snapshot.ID)
		}

		writeJSON(w, http.StatusOK, view)
	})
}

// ListSnapshotsHandler возвращает последние сохраненные прогнозы
func ListSnapshotsHandler(snapshots SnapshotStore) http.HandlerFunc {
	return require(canViewForecast, func(w http.ResponseWriter, r *http.Request, _ Principal) {
		limit := 0
		if r.URL.Query().Get("limit") != "" {
			var err error
			if limit, err = intParam(r, "limit"); err != nil {
				writeError(w, err)
				return
			}
		}

		list, err := snapshots.List(r.Context(), limit)
		if err != nil {
			writeError(w, err)
			return
		}

		resp := make([]SnapshotResponse, 0, len(list))
		for _, s := range list {
			resp = append(resp, newSnapshotResponse(s))
		}
		writeJSON(w, http.StatusOK, resp)
	})
}

// GetSnapshotHandler возвращает сохраненный прогноз вместе с отчетом
func GetSnapshotHandler(snapshots SnapshotStore) http.HandlerFunc {
	return require(canViewForecast, func(w http.ResponseWriter, r *http.Request, _ Principal) {
		s, err := snapshots.Get(r.Context(), mux.Vars(r)["id"])
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, newSnapshotResponse(*s))
	})
}
