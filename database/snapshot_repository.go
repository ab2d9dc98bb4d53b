// database/snapshot_repository.go
package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/golang/snappy"
	"github.com/google/uuid"

	"github.com/LilVoxy/service_requests/forecast"
)

// Snapshot сохраненный отчет о прогнозе
type Snapshot struct {
	ID        string            `json:"id"`
	Target    forecast.MonthKey `json:"target"`
	Window    int               `json:"window"`
	Forecast  float64           `json:"forecast"`
	CreatedAt time.Time         `json:"created_at"`
	Report    *forecast.Report  `json:"report,omitempty"`
}

// SnapshotRepository хранилище отчетов о прогнозах.
// Отчет хранится в виде JSON, сжатого snappy.
type SnapshotRepository struct {
	db *sql.DB
}

// NewSnapshotRepository создает репозиторий отчетов
func NewSnapshotRepository(db *sql.DB) *SnapshotRepository {
	return &SnapshotRepository{
		db: db,
	}
}

// Save сохраняет отчет и возвращает ID снимка
func (r *SnapshotRepository) Save(ctx context.Context, report *forecast.Report) (*Snapshot, error) {
	payload, err := encodeReport(report)
	if err != nil {
		return nil, err
	}

	s := &Snapshot{
		ID:        uuid.NewString(),
		Target:    report.Target,
		Window:    report.Window,
		Forecast:  report.Forecast.InexactFloat64(),
		CreatedAt: time.Now().UTC(),
		Report:    report,
	}

	_, err = r.db.ExecContext(ctx, `
	INSERT INTO forecast_snapshots
		(id, target_year, target_month, window_size, forecast, payload, created_at)
	VALUES
		(?, ?, ?, ?, ?, ?, ?);`,
		s.ID, s.Target.Year, s.Target.Month, s.Window, s.Forecast, payload, s.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("ошибка при сохранении снимка прогноза: %w", err)
	}
	return s, nil
}

// List возвращает последние снимки без тела отчета
func (r *SnapshotRepository) List(ctx context.Context, limit int) ([]Snapshot, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := r.db.QueryContext(ctx, `
	SELECT id, target_year, target_month, window_size, forecast, created_at
	FROM forecast_snapshots
	ORDER BY created_at DESC
	LIMIT ?;`, limit)
	if err != nil {
		return nil, fmt.Errorf("ошибка при выполнении запроса: %w", err)
	}
	defer rows.Close()

	snapshots := []Snapshot{}
	for rows.Next() {
		var s Snapshot
		if err := rows.Scan(&s.ID, &s.Target.Year, &s.Target.Month, &s.Window, &s.Forecast, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("ошибка при чтении данных: %w", err)
		}
		snapshots = append(snapshots, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ошибка при итерации по результатам: %w", err)
	}
	return snapshots, nil
}

// Get возвращает снимок вместе с отчетом
func (r *SnapshotRepository) Get(ctx context.Context, id string) (*Snapshot, error) {
	var s Snapshot
	var payload []byte
	err := r.db.QueryRowContext(ctx, `
	SELECT id, target_year, target_month, window_size, forecast, created_at, payload
	FROM forecast_snapshots
	WHERE id = ?;`, id).Scan(&s.ID, &s.Target.Year, &s.Target.Month, &s.Window, &s.Forecast, &s.CreatedAt, &payload)

	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка при получении снимка прогноза: %w", err)
	}

	s.Report, err = decodeReport(payload)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// DeleteOlderThan удаляет устаревшие снимки и возвращает их количество
func (r *SnapshotRepository) DeleteOlderThan(ctx context.Context, olderThan time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
	DELETE FROM forecast_snapshots
	WHERE created_at < ?;`, olderThan)
	if err != nil {
		return 0, fmt.Errorf("ошибка при удалении устаревших снимков: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("ошибка получения количества удаленных снимков: %w", err)
	}
	return n, nil
}

func encodeReport(report *forecast.Report) ([]byte, error) {
	data, err := json.Marshal(report)
	if err != nil {
		return nil, fmt.Errorf("ошибка сериализации отчета: %w", err)
	}
	return snappy.Encode(nil, data), nil
}

func decodeReport(payload []byte) (*forecast.Report, error) {
	data, err := snappy.Decode(nil, payload)
	if err != nil {
		return nil, fmt.Errorf("ошибка распаковки отчета: %w", err)
	}

	var report forecast.Report
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, fmt.Errorf("ошибка разбора отчета: %w", err)
	}
	return &report, nil
}
