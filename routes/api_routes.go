// routes/api_routes.go
package routes

import (
	"context"
	"io"
	"log"
	"net/http"
	"os"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/LilVoxy/service_requests/database"
	"github.com/LilVoxy/service_requests/events"
	"github.com/LilVoxy/service_requests/forecast"
	"github.com/LilVoxy/service_requests/metrics"
)

// OrderStore хранилище заявок
type OrderStore interface {
	List(ctx context.Context, filter database.OrderFilter) ([]database.Order, error)
	Get(ctx context.Context, id int) (*database.Order, error)
	Create(ctx context.Context, o database.Order) (int, error)
	Update(ctx context.Context, o database.Order) error
	Delete(ctx context.Context, id int) error
}

// PersonStore хранилище клиентов или сотрудников
type PersonStore interface {
	List(ctx context.Context) ([]database.Person, error)
	Get(ctx context.Context, username string) (*database.Person, error)
	Create(ctx context.Context, p database.Person) error
	Update(ctx context.Context, p database.Person) error
	Delete(ctx context.Context, username string) error
}

// SnapshotStore хранилище сохраненных прогнозов
type SnapshotStore interface {
	Save(ctx context.Context, report *forecast.Report) (*database.Snapshot, error)
	List(ctx context.Context, limit int) ([]database.Snapshot, error)
	Get(ctx context.Context, id string) (*database.Snapshot, error)
}

// Forecaster строит прогноз
type Forecaster interface {
	ComputeForecast(ctx context.Context, year, month, window int) (*forecast.Report, error)
}

// Authenticator проверяет учетные данные
type Authenticator interface {
	Authenticate(ctx context.Context, username, password string) (*database.Account, error)
}

// Registrar регистрирует новых клиентов
type Registrar interface {
	Register(ctx context.Context, p database.Person) error
}

// Broadcaster рассылает сообщения панели мониторинга
type Broadcaster interface {
	Publish(ctx context.Context, kind string, payload interface{}) error
}

// Deps зависимости HTTP API
type Deps struct {
	Orders        OrderStore
	Clients       PersonStore
	Employees     PersonStore
	Snapshots     SnapshotStore
	Forecasts     Forecaster
	Auth          Authenticator
	Registration  Registrar
	Hub           Broadcaster
	Dashboard     http.HandlerFunc
	Events        events.Publisher
	Metrics       *metrics.Metrics
	DefaultWindow int
	AccessLog     io.Writer
}

// SetupRoutes настраивает все маршруты API и WebSocket
func SetupRoutes(router *mux.Router, deps Deps) {
	n := &notifier{hub: deps.Hub, events: deps.Events}
	handle := func(path string, h http.HandlerFunc, methods ...string) {
		router.Handle(path, deps.Metrics.WrapHandler(path, h)).Methods(methods...)
	}

	// Авторизация
	handle("/api/login", LoginHandler(deps.Auth), http.MethodPost)
	if deps.Registration != nil {
		handle("/api/register", RegisterHandler(deps.Registration), http.MethodPost)
	}

	// Прогноз
	handle("/api/forecast", ForecastHandler(deps.Forecasts, deps.Snapshots, n, deps.DefaultWindow), http.MethodGet)
	handle("/api/forecast/snapshots", ListSnapshotsHandler(deps.Snapshots), http.MethodGet)
	handle("/api/forecast/snapshots/{id}", GetSnapshotHandler(deps.Snapshots), http.MethodGet)

	// Заявки
	handle("/api/orders", ListOrdersHandler(deps.Orders), http.MethodGet)
	handle("/api/orders", CreateOrderHandler(deps.Orders, n), http.MethodPost)
	handle("/api/orders/{id:[0-9]+}", GetOrderHandler(deps.Orders), http.MethodGet)
	handle("/api/orders/{id:[0-9]+}", UpdateOrderHandler(deps.Orders, n), http.MethodPut)
	handle("/api/orders/{id:[0-9]+}", DeleteOrderHandler(deps.Orders, n), http.MethodDelete)

	// Клиенты и сотрудники
	registerPeople(handle, "/api/clients", deps.Clients, canManageClients)
	registerPeople(handle, "/api/employees", deps.Employees, canManageEmployees)

	// Метрики
	if deps.Metrics != nil {
		router.Handle("/metrics", deps.Metrics.Handler()).Methods(http.MethodGet)
	}

	// WebSocket панели мониторинга
	if deps.Dashboard != nil {
		router.HandleFunc("/ws/dashboard", require(canViewForecast, func(w http.ResponseWriter, r *http.Request, _ Principal) {
			deps.Dashboard(w, r)
		}))
	}
}

// NewRouter собирает маршрутизатор с CORS и журналом доступа
func NewRouter(deps Deps) http.Handler {
	router := mux.NewRouter()
	SetupRoutes(router, deps)

	accessLog := deps.AccessLog
	if accessLog == nil {
		accessLog = os.Stdout
	}

	cors := handlers.CORS(
		handlers.AllowedOrigins([]string{"*"}),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions}),
		handlers.AllowedHeaders([]string{"Content-Type", HeaderRole, HeaderUser}),
	)
	return handlers.CombinedLoggingHandler(accessLog, cors(router))
}

// notifier сообщает об изменениях панели мониторинга и во внешнюю шину.
// Ошибки доставки только логируются.
type notifier struct {
	hub    Broadcaster
	events events.Publisher
}

func (n *notifier) order(ctx context.Context, kind string, o database.Order) {
	if n.hub != nil {
		if err := n.hub.Publish(ctx, kind, o); err != nil {
			log.Printf("❌ Ошибка рассылки %s на панель: %v", kind, err)
		}
	}
	if n.events != nil {
		if err := n.events.PublishOrder(ctx, kind, o); err != nil {
			log.Printf("❌ Ошибка публикации события %s: %v", kind, err)
		}
	}
}

func (n *notifier) forecast(ctx context.Context, report *forecast.Report) {
	if n.hub != nil {
		if err := n.hub.Publish(ctx, events.Forecast, forecast.NewView(report)); err != nil {
			log.Printf("❌ Ошибка рассылки прогноза на панель: %v", err)
		}
	}
	if n.events != nil {
		if err := n.events.PublishForecast(ctx, report); err != nil {
			log.Printf("❌ Ошибка публикации прогноза: %v", err)
		}
	}
}
