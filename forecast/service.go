package forecast

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/LilVoxy/service_requests/utils"
)

// DateSource источник дат открытия заказов
type DateSource interface {
	OpenDates(ctx context.Context) ([]string, error)
}

// Recorder принимает результат каждого расчета (метрики)
type Recorder interface {
	ObserveForecast(outcome string, duration time.Duration)
}

// Исходы расчета для Recorder
const (
	OutcomeOK           = "ok"
	OutcomeNoData       = "no_data"
	OutcomeInsufficient = "insufficient_data"
	OutcomeTooFar       = "target_too_far"
	OutcomeInvalid      = "invalid_request"
	OutcomeError        = "error"
)

// Service строит прогнозы по истории заказов из хранилища.
// Серия пересобирается при каждом вызове, состояние между вызовами не хранится.
type Service struct {
	source       DateSource
	logger       *utils.Logger
	recorder     Recorder
	maxLookahead int
}

// NewService создает сервис прогнозирования
func NewService(source DateSource, logger *utils.Logger, recorder Recorder, maxLookahead int) *Service {
	if logger == nil {
		logger = utils.Discard()
	}
	if maxLookahead <= 0 {
		maxLookahead = DefaultMaxLookahead
	}
	return &Service{
		source:       source,
		logger:       logger,
		recorder:     recorder,
		maxLookahead: maxLookahead,
	}
}

// ComputeForecast рассчитывает прогноз на месяц month года year с окном window
func (s *Service) ComputeForecast(ctx context.Context, year, month, window int) (*Report, error) {
	startTime := time.Now()
	req := Request{Year: year, Month: month, Window: window}

	if err := req.Validate(); err != nil {
		s.observe(err, startTime)
		return nil, err
	}

	dates, err := s.source.OpenDates(ctx)
	if err != nil {
		err = fmt.Errorf("ошибка при получении дат заказов: %w", err)
		s.logger.Error("%v", err)
		s.observe(err, startTime)
		return nil, err
	}
	s.logger.Debug("Получено %d дат открытия заказов", len(dates))

	report, err := Compute(dates, req, WithMaxLookahead(s.maxLookahead))
	s.observe(err, startTime)
	if err != nil {
		s.logger.Info("Прогноз на %s не построен: %v", req.Target(), err)
		return nil, err
	}

	if report.Dropped > 0 {
		s.logger.Debug("Пропущено %d некорректных дат", report.Dropped)
	}
	s.logger.Info("Прогноз на %s (окно %d): %s", report.Target, report.Window, report.Forecast.StringFixed(Precision))
	return report, nil
}

func (s *Service) observe(err error, startTime time.Time) {
	if s.recorder == nil {
		return
	}
	s.recorder.ObserveForecast(Outcome(err), time.Since(startTime))
}

// Outcome классифицирует ошибку расчета
func Outcome(err error) string {
	var insufficient *InsufficientDataError
	var tooFar *TargetTooFarError
	var invalid *InvalidRequestError

	switch {
	case err == nil:
		return OutcomeOK
	case errors.Is(err, ErrNoData):
		return OutcomeNoData
	case errors.As(err, &insufficient):
		return OutcomeInsufficient
	case errors.As(err, &tooFar):
		return OutcomeTooFar
	case errors.As(err, &invalid):
		return OutcomeInvalid
	}
	return OutcomeError
}
