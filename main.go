// main.go
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/LilVoxy/service_requests/config"
	"github.com/LilVoxy/service_requests/database"
	"github.com/LilVoxy/service_requests/events"
	"github.com/LilVoxy/service_requests/forecast"
	"github.com/LilVoxy/service_requests/metrics"
	"github.com/LilVoxy/service_requests/routes"
	"github.com/LilVoxy/service_requests/scheduler"
	"github.com/LilVoxy/service_requests/utils"
	"github.com/LilVoxy/service_requests/websocket"
)

func main() {
	configPath := flag.String("config", "", "путь к JSON-файлу конфигурации")
	flag.Parse()

	if err := run(*configPath); err != nil {
		log.Fatalf("❌ %v", err)
	}
	log.Println("👋 Сервер остановлен")
}

func run(configPath string) error {
	fmt.Println("Запуск сервера...")

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if err := cfg.ApplyEnv(os.Getenv); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("некорректная конфигурация: %w", err)
	}

	logger, err := utils.NewLogger(cfg.LogPrefix, cfg.EnableDetailedLogging)
	if err != nil {
		return err
	}
	defer logger.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Инициализация базы данных
	db, err := config.ConnectDatabase(cfg.Database)
	if err != nil {
		return err
	}
	defer config.CloseDatabase(db)

	if err := database.EnsureSchema(ctx, db); err != nil {
		return err
	}

	orders := database.NewOrderRepository(db)
	clients := database.NewClientRepository(db)
	employees := database.NewEmployeeRepository(db)
	snapshots := database.NewSnapshotRepository(db)

	if cfg.Admin.PasswordHash == "" {
		logger.Info("Хеш пароля администратора не задан, вход администратора отключен")
	}
	authenticator := &database.Authenticator{
		Clients:           clients,
		Employees:         employees,
		AdminUsername:     cfg.Admin.Username,
		AdminPasswordHash: cfg.Admin.PasswordHash,
	}
	registrar := &database.Registrar{
		Clients:       clients,
		Employees:     employees,
		AdminUsername: cfg.Admin.Username,
	}

	m := metrics.New()
	service := forecast.NewService(orders, logger, m, cfg.Forecast.MaxLookahead)
	hub := websocket.NewManager(m)

	var publisher events.Publisher = events.Nop{}
	if len(cfg.Kafka.Brokers) > 0 {
		kp := events.NewKafkaPublisher(events.KafkaConfig{
			Brokers:        cfg.Kafka.Brokers,
			OrdersTopic:    cfg.Kafka.OrdersTopic,
			ForecastsTopic: cfg.Kafka.ForecastsTopic,
		})
		defer func() {
			if err := kp.Close(); err != nil {
				logger.Error("Ошибка закрытия издателя Kafka: %v", err)
			}
		}()
		publisher = kp
		logger.Info("Публикация событий в Kafka: %v", cfg.Kafka.Brokers)
	}

	router := routes.NewRouter(routes.Deps{
		Orders:        orders,
		Clients:       clients,
		Employees:     employees,
		Snapshots:     snapshots,
		Forecasts:     service,
		Auth:          authenticator,
		Registration:  registrar,
		Hub:           hub,
		Dashboard:     hub.HandleConnections,
		Events:        publisher,
		Metrics:       m,
		DefaultWindow: cfg.Forecast.DefaultWindow,
	})

	// Настраиваем сервер
	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		hub.Run(gctx)
		return nil
	})

	g.Go(func() error {
		log.Printf("✅ Сервер запущен на %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("ошибка запуска сервера: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Println("⚠️ Получен сигнал завершения, закрываем соединения...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if cfg.Scheduler.Enabled {
		job := &scheduler.SnapshotJob{
			Forecasts: service,
			Snapshots: snapshots,
			Events:    publisher,
			Hub:       hub,
			Metrics:   m,
			Logger:    logger,
			Window:    cfg.Scheduler.Window,
			Retention: cfg.Scheduler.Retention,
		}
		g.Go(func() error {
			return job.Start(gctx, cfg.Scheduler.Interval)
		})
	}

	return g.Wait()
}
