// cmd/forecast/main.go
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/LilVoxy/service_requests/config"
	"github.com/LilVoxy/service_requests/database"
	"github.com/LilVoxy/service_requests/forecast"
	"github.com/LilVoxy/service_requests/utils"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run разбирает флаги, строит прогноз и выводит отчет. Возвращает код завершения.
func run(args []string, stdout, stderr io.Writer) int {
	next := forecast.MonthOf(time.Now()).Next()

	fs := flag.NewFlagSet("forecast", flag.ContinueOnError)
	fs.SetOutput(stderr)
	year := fs.Int("year", next.Year, "год целевого месяца")
	month := fs.Int("month", next.Month, "номер целевого месяца (1-12)")
	window := fs.Int("window", 0, "размер окна скользящей средней (по умолчанию из конфигурации)")
	datesPath := fs.String("dates", "", "файл с датами открытия заказов, по одной в строке (YYYY-MM-DD)")
	configPath := fs.String("config", "", "путь к JSON-файлу конфигурации")
	verbose := fs.Bool("v", false, "подробный журнал в stderr")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	cfg, err := config.Load(*configPath)
	if err == nil {
		err = cfg.ApplyEnv(os.Getenv)
	}
	if err != nil {
		fmt.Fprintln(stderr, errorStyle.Render(err.Error()))
		return 1
	}
	if *window == 0 {
		*window = cfg.Forecast.DefaultWindow
	}

	logger := utils.Discard()
	if *verbose {
		logger = utils.NewWriterLogger(stderr, true)
	}

	source, closeSource, err := openSource(*datesPath, cfg)
	if err != nil {
		fmt.Fprintln(stderr, errorStyle.Render(err.Error()))
		return 1
	}
	defer closeSource()

	service := forecast.NewService(source, logger, nil, cfg.Forecast.MaxLookahead)
	report, err := service.ComputeForecast(context.Background(), *year, *month, *window)
	if err != nil {
		fmt.Fprintln(stderr, errorStyle.Render(err.Error()))
		return 1
	}

	if err := renderStyled(stdout, report); err != nil {
		fmt.Fprintln(stderr, errorStyle.Render(err.Error()))
		return 1
	}
	return 0
}

// openSource выбирает источник дат: файл, если он указан, иначе MySQL из конфигурации
func openSource(path string, cfg config.AppConfig) (forecast.DateSource, func(), error) {
	if path != "" {
		return fileSource(path), func() {}, nil
	}

	db, err := config.ConnectDatabase(cfg.Database)
	if err != nil {
		return nil, nil, err
	}
	return database.NewOrderRepository(db), func() { config.CloseDatabase(db) }, nil
}

// fileSource читает даты из текстового файла при каждом запросе
type fileSource string

func (f fileSource) OpenDates(ctx context.Context) ([]string, error) {
	file, err := os.Open(string(f))
	if err != nil {
		return nil, fmt.Errorf("ошибка открытия файла дат: %w", err)
	}
	defer file.Close()

	var dates []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		line := scanner.Text()
		if line == "" {
			continue
		}
		dates = append(dates, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("ошибка чтения файла дат: %w", err)
	}
	return dates, nil
}
