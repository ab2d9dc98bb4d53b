// scheduler/snapshot_job.go
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/LilVoxy/service_requests/database"
	"github.com/LilVoxy/service_requests/events"
	"github.com/LilVoxy/service_requests/forecast"
	"github.com/LilVoxy/service_requests/utils"
)

// DefaultRetention срок хранения снимков прогноза
const DefaultRetention = 90 * 24 * time.Hour

// Forecaster строит прогноз
type Forecaster interface {
	ComputeForecast(ctx context.Context, year, month, window int) (*forecast.Report, error)
}

// SnapshotStore сохраняет и очищает снимки прогнозов
type SnapshotStore interface {
	Save(ctx context.Context, report *forecast.Report) (*database.Snapshot, error)
	DeleteOlderThan(ctx context.Context, olderThan time.Time) (int64, error)
}

// Broadcaster рассылает сообщения панели мониторинга
type Broadcaster interface {
	Publish(ctx context.Context, kind string, payload interface{}) error
}

// PruneRecorder учитывает удаленные снимки
type PruneRecorder interface {
	SnapshotsPruned(n int64)
}

// SnapshotJob периодически сохраняет прогноз на следующий месяц
// и удаляет устаревшие снимки
type SnapshotJob struct {
	Forecasts Forecaster
	Snapshots SnapshotStore
	Events    events.Publisher
	Hub       Broadcaster
	Metrics   PruneRecorder
	Logger    *utils.Logger
	Window    int
	Retention time.Duration
	Now       func() time.Time
}

func (j *SnapshotJob) now() time.Time {
	if j.Now != nil {
		return j.Now()
	}
	return time.Now()
}

func (j *SnapshotJob) logger() *utils.Logger {
	if j.Logger == nil {
		return utils.Discard()
	}
	return j.Logger
}

// Run выполняет одну итерацию. Ошибки отдельных шагов логируются
// и не прерывают остальные шаги.
func (j *SnapshotJob) Run(ctx context.Context) error {
	startTime := j.now()
	logger := j.logger()

	var errs []error
	if err := j.snapshot(ctx, startTime); err != nil {
		logger.Error("Ошибка при сохранении планового прогноза: %v", err)
		errs = append(errs, err)
	}
	if err := j.prune(ctx, startTime); err != nil {
		logger.Error("Ошибка при очистке снимков прогноза: %v", err)
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func (j *SnapshotJob) snapshot(ctx context.Context, now time.Time) error {
	target := forecast.MonthOf(now.UTC()).Next()
	report, err := j.Forecasts.ComputeForecast(ctx, target.Year, target.Month, j.Window)
	if err != nil {
		return fmt.Errorf("ошибка расчета прогноза на %s: %w", target, err)
	}

	snapshot, err := j.Snapshots.Save(ctx, report)
	if err != nil {
		return err
	}
	j.logger().Info("Плановый прогноз на %s сохранен: %s (снимок %s)",
		target, report.Forecast.StringFixed(forecast.Precision), snapshot.ID)

	if j.Events != nil {
		if err := j.Events.PublishForecast(ctx, report); err != nil {
			j.logger().Error("Ошибка публикации прогноза: %v", err)
		}
	}
	if j.Hub != nil {
		view := forecast.NewView(report)
		view.SnapshotID = snapshot.ID
		if err := j.Hub.Publish(ctx, events.Forecast, view); err != nil {
			j.logger().Error("Ошибка рассылки прогноза на панель: %v", err)
		}
	}
	return nil
}

func (j *SnapshotJob) prune(ctx context.Context, now time.Time) error {
	retention := j.Retention
	if retention <= 0 {
		retention = DefaultRetention
	}

	deleted, err := j.Snapshots.DeleteOlderThan(ctx, now.Add(-retention))
	if err != nil {
		return err
	}
	if deleted > 0 {
		j.logger().Info("Удалено %d устаревших снимков прогноза", deleted)
	}
	if j.Metrics != nil {
		j.Metrics.SnapshotsPruned(deleted)
	}
	return nil
}

// Start запускает задачу с интервалом interval до отмены ctx
func (j *SnapshotJob) Start(ctx context.Context, interval time.Duration) error {
	scheduler := gocron.NewScheduler(time.UTC)

	j.logger().Info("Запуск планировщика прогнозов с интервалом %v", interval)

	_, err := scheduler.Every(interval).SingletonMode().Do(func() {
		j.logger().Info("Запланированный расчет прогноза")
		_ = j.Run(ctx)
	})
	if err != nil {
		return fmt.Errorf("ошибка при настройке планировщика: %w", err)
	}

	scheduler.StartAsync()

	<-ctx.Done()

	scheduler.Stop()
	j.logger().Info("Планировщик прогнозов остановлен")
	return nil
}
