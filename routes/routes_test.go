package routes

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/shopspring/decimal"

	"github.com/LilVoxy/service_requests/auth"
	"github.com/LilVoxy/service_requests/database"
	"github.com/LilVoxy/service_requests/forecast"
	"github.com/LilVoxy/service_requests/metrics"
)

type memOrders struct {
	mu     sync.Mutex
	nextID int
	orders map[int]database.Order
}

func newMemOrders(orders ...database.Order) *memOrders {
	m := &memOrders{orders: map[int]database.Order{}}
	for _, o := range orders {
		m.nextID++
		o.ID = m.nextID
		m.orders[o.ID] = o
	}
	return m
}

func (m *memOrders) List(_ context.Context, f database.OrderFilter) ([]database.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []database.Order{}
	for _, o := range m.orders {
		if f.Status != "" && o.Status != f.Status {
			continue
		}
		if f.ClientName != "" && o.ClientName != f.ClientName {
			continue
		}
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memOrders) Get(_ context.Context, id int) (*database.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[id]
	if !ok {
		return nil, database.ErrNotFound
	}
	return &o, nil
}

func (m *memOrders) Create(_ context.Context, o database.Order) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	o.ID = m.nextID
	m.orders[o.ID] = o
	return o.ID, nil
}

func (m *memOrders) Update(_ context.Context, o database.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.orders[o.ID]; !ok {
		return database.ErrNotFound
	}
	m.orders[o.ID] = o
	return nil
}

func (m *memOrders) Delete(_ context.Context, id int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.orders[id]; !ok {
		return database.ErrNotFound
	}
	delete(m.orders, id)
	return nil
}

// OpenDates позволяет использовать заявки как источник дат прогноза
func (m *memOrders) OpenDates(context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var dates []string
	for _, o := range m.orders {
		dates = append(dates, o.OpenDate)
	}
	return dates, nil
}

type memPeople struct {
	people map[string]database.Person
}

func (m *memPeople) List(context.Context) ([]database.Person, error) {
	out := []database.Person{}
	for _, p := range m.people {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out, nil
}

func (m *memPeople) Get(_ context.Context, username string) (*database.Person, error) {
	p, ok := m.people[username]
	if !ok {
		return nil, database.ErrNotFound
	}
	return &p, nil
}

func (m *memPeople) Create(_ context.Context, p database.Person) error {
	if _, ok := m.people[p.Username]; ok {
		return database.ErrDuplicate
	}
	m.people[p.Username] = p
	return nil
}

func (m *memPeople) Update(_ context.Context, p database.Person) error {
	old, ok := m.people[p.Username]
	if !ok {
		return database.ErrNotFound
	}
	if p.PasswordHash == "" {
		p.PasswordHash = old.PasswordHash
	}
	m.people[p.Username] = p
	return nil
}

func (m *memPeople) Delete(_ context.Context, username string) error {
	if _, ok := m.people[username]; !ok {
		return database.ErrNotFound
	}
	delete(m.people, username)
	return nil
}

type memSnapshots struct {
	saved []database.Snapshot
}

func (m *memSnapshots) Save(_ context.Context, r *forecast.Report) (*database.Snapshot, error) {
	s := database.Snapshot{
		ID:        fmt.Sprintf("snap-%d-%02d", r.Target.Year, r.Target.Month),
		Target:    r.Target,
		Window:    r.Window,
		Forecast:  r.Forecast.InexactFloat64(),
		CreatedAt: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
		Report:    r,
	}
	m.saved = append(m.saved, s)
	return &s, nil
}

func (m *memSnapshots) List(_ context.Context, limit int) ([]database.Snapshot, error) {
	out := make([]database.Snapshot, 0, len(m.saved))
	for _, s := range m.saved {
		s.Report = nil
		out = append(out, s)
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memSnapshots) Get(_ context.Context, id string) (*database.Snapshot, error) {
	for _, s := range m.saved {
		if s.ID == id {
			return &s, nil
		}
	}
	return nil, database.ErrNotFound
}

type staticAuth map[string]database.Account

func (a staticAuth) Authenticate(_ context.Context, username, password string) (*database.Account, error) {
	account, ok := a[username]
	if !ok || password != "secret" {
		return nil, database.ErrInvalidCredentials
	}
	return &account, nil
}

type recordingHub struct {
	mu    sync.Mutex
	kinds []string
}

func (h *recordingHub) Publish(_ context.Context, kind string, _ interface{}) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.kinds = append(h.kinds, kind)
	return nil
}

func (h *recordingHub) published() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.kinds...)
}

type fixture struct {
	handler   http.Handler
	orders    *memOrders
	clients   *memPeople
	employees *memPeople
	snapshots *memSnapshots
	hub       *recordingHub
}

func order(client, status, openDate string) database.Order {
	return database.Order{
		Type:       "ремонт",
		Status:     status,
		Price:      decimal.NewFromInt(1000),
		ClientName: client,
		MasterName: "Петров П.П.",
		CarNumber:  "А001АА77",
		OpenDate:   openDate,
	}
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	orders := newMemOrders(
		order("Иванов И.И.", database.StatusNew, "2024-01-10"),
		order("Иванов И.И.", database.StatusInProgress, "2024-02-11"),
		order("Сидоров С.С.", database.StatusDone, "2024-02-15"),
		order("Сидоров С.С.", database.StatusNew, "2024-03-01"),
		order("Сидоров С.С.", database.StatusNew, "2024-03-02"),
		order("Сидоров С.С.", database.StatusNew, "2024-03-03"),
	)
	f := &fixture{
		orders:    orders,
		clients:   &memPeople{people: map[string]database.Person{}},
		employees: &memPeople{people: map[string]database.Person{}},
		snapshots: &memSnapshots{},
		hub:       &recordingHub{},
	}
	f.handler = NewRouter(Deps{
		Orders:        orders,
		Clients:       f.clients,
		Employees:     f.employees,
		Snapshots:     f.snapshots,
		Forecasts:     forecast.NewService(orders, nil, nil, 0),
		Auth: staticAuth{
			"admin":  {Role: auth.RoleAdmin, Person: database.Person{Username: "admin", FullName: database.AdminFullName}},
			"ivanov": {Role: auth.RoleClient, Person: database.Person{Username: "ivanov", FullName: "Иванов И.И."}},
		},
		Registration: &database.Registrar{
			Clients:       f.clients,
			Employees:     f.employees,
			AdminUsername: "admin",
		},
		Hub:           f.hub,
		Metrics:       metrics.New(),
		DefaultWindow: 2,
		AccessLog:     io.Discard,
	})
	return f
}

func (f *fixture) do(t *testing.T, method, target, role, user string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, target, reader)
	if role != "" {
		req.Header.Set(HeaderRole, role)
	}
	if user != "" {
		req.Header.Set(HeaderUser, user)
	}
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
}

func TestForecastEndpoint(t *testing.T) {
	f := newFixture(t)

	// история: 01/2024=1, 02/2024=2, 03/2024=3; окно 2
	rec := f.do(t, http.MethodGet, "/api/forecast?year=2024&month=3", "employee", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}

	var view forecast.View
	decode(t, rec, &view)
	if view.Target != "03/2024" || view.Window != 2 {
		t.Errorf("target/window = %s/%d", view.Target, view.Window)
	}
	if view.Forecast != 1.5 {
		t.Errorf("forecast = %v, want 1.5", view.Forecast)
	}
	if view.Actual == nil || *view.Actual != 3 {
		t.Errorf("actual = %v, want 3", view.Actual)
	}
	if view.Deviation == nil || *view.Deviation != -50 {
		t.Errorf("deviation = %v, want -50", view.Deviation)
	}
	if len(view.History) != 3 || view.History[1].Count != 2 {
		t.Errorf("history = %+v", view.History)
	}
	if len(f.snapshots.saved) != 0 {
		t.Error("snapshot saved without save=true")
	}
}

func TestForecastErrors(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name   string
		target string
		role   string
		want   int
	}{
		{"client cannot view", "/api/forecast?year=2024&month=3", "client", http.StatusForbidden},
		{"missing role", "/api/forecast?year=2024&month=3", "", http.StatusForbidden},
		{"unknown role", "/api/forecast?year=2024&month=3", "guest", http.StatusForbidden},
		{"missing month", "/api/forecast?year=2024", "admin", http.StatusBadRequest},
		{"month out of range", "/api/forecast?year=2024&month=13", "admin", http.StatusBadRequest},
		{"window too small", "/api/forecast?year=2024&month=3&window=1", "admin", http.StatusBadRequest},
		{"not a number", "/api/forecast?year=x&month=3", "admin", http.StatusBadRequest},
		{"insufficient data", "/api/forecast?year=2024&month=3&window=4", "admin", http.StatusUnprocessableEntity},
		{"too far", "/api/forecast?year=2099&month=3", "admin", http.StatusUnprocessableEntity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := f.do(t, http.MethodGet, tt.target, tt.role, "", nil)
			if rec.Code != tt.want {
				t.Fatalf("status = %d, want %d (body %s)", rec.Code, tt.want, rec.Body)
			}
			var resp ErrorResponse
			decode(t, rec, &resp)
			if resp.Error == "" {
				t.Error("empty error message")
			}
		})
	}
}

func TestForecastSaveAndSnapshots(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodGet, "/api/forecast?year=2024&month=4&save=true", "admin", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}
	var view forecast.View
	decode(t, rec, &view)
	if view.SnapshotID != "snap-2024-04" {
		t.Errorf("snapshot id = %q", view.SnapshotID)
	}
	if got := f.hub.published(); len(got) != 1 || got[0] != "forecast" {
		t.Errorf("hub messages = %v", got)
	}

	rec = f.do(t, http.MethodGet, "/api/forecast/snapshots", "admin", "", nil)
	var list []SnapshotResponse
	decode(t, rec, &list)
	if len(list) != 1 || list[0].Report != nil || list[0].Forecast != 2.5 {
		t.Errorf("list = %+v", list)
	}

	rec = f.do(t, http.MethodGet, "/api/forecast/snapshots/snap-2024-04", "admin", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get snapshot status = %d, body %s", rec.Code, rec.Body)
	}
	var one SnapshotResponse
	decode(t, rec, &one)
	if one.Report == nil || one.Report.Forecast != 2.5 || one.Report.SnapshotID != one.ID {
		t.Errorf("snapshot = %+v", one)
	}

	rec = f.do(t, http.MethodGet, "/api/forecast/snapshots/missing", "admin", "", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("missing snapshot status = %d", rec.Code)
	}
	rec = f.do(t, http.MethodGet, "/api/forecast/snapshots?limit=abc", "admin", "", nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad limit status = %d", rec.Code)
	}
}

func TestClientSeesOnlyOwnOrders(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodGet, "/api/orders", "client", "Иванов И.И.", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var orders []database.Order
	decode(t, rec, &orders)
	if len(orders) != 2 {
		t.Fatalf("client got %d orders, want 2", len(orders))
	}

	// чужая заявка для клиента не существует
	if rec := f.do(t, http.MethodGet, "/api/orders/3", "client", "Иванов И.И.", nil); rec.Code != http.StatusNotFound {
		t.Errorf("foreign order status = %d", rec.Code)
	}
	if rec := f.do(t, http.MethodGet, "/api/orders", "client", "", nil); rec.Code != http.StatusForbidden {
		t.Errorf("client without name status = %d", rec.Code)
	}

	rec = f.do(t, http.MethodGet, "/api/orders?status="+url.QueryEscape(database.StatusNew), "employee", "", nil)
	decode(t, rec, &orders)
	if len(orders) != 4 {
		t.Errorf("employee filtered %d orders, want 4", len(orders))
	}
}

func TestClientCreateForcesNewStatus(t *testing.T) {
	f := newFixture(t)

	body := order("Кто-то другой", database.StatusDone, "2024-04-01")
	body.CloseDate = "2024-04-02"
	rec := f.do(t, http.MethodPost, "/api/orders", "client", "Иванов И.И.", body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}
	var created CreatedResponse
	decode(t, rec, &created)

	got, err := f.orders.Get(context.Background(), created.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Status != database.StatusNew || got.ClientName != "Иванов И.И." || got.CloseDate != "" {
		t.Errorf("stored order = %+v", got)
	}
	if kinds := f.hub.published(); len(kinds) != 1 || kinds[0] != "order_created" {
		t.Errorf("hub messages = %v", kinds)
	}
}

func TestCreateOrderValidation(t *testing.T) {
	f := newFixture(t)
	body := order("Иванов И.И.", database.StatusNew, "2024-04-01")
	body.CarNumber = ""
	if rec := f.do(t, http.MethodPost, "/api/orders", "employee", "", body); rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
	req := httptest.NewRequest(http.MethodPost, "/api/orders", strings.NewReader("{"))
	req.Header.Set(HeaderRole, "employee")
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("malformed body status = %d, want 400", rec.Code)
	}
}

func TestClientUpdateRules(t *testing.T) {
	f := newFixture(t)

	// заявка в работе недоступна для изменения клиентом
	update := order("Иванов И.И.", database.StatusNew, "2024-02-11")
	if rec := f.do(t, http.MethodPut, "/api/orders/2", "client", "Иванов И.И.", update); rec.Code != http.StatusForbidden {
		t.Errorf("in-progress update status = %d, want 403", rec.Code)
	}

	// новая заявка: клиент меняет тип, но не статус и не ФИО
	update = order("Другой", database.StatusDone, "2024-01-10")
	update.Type = "диагностика"
	rec := f.do(t, http.MethodPut, "/api/orders/1", "client", "Иванов И.И.", update)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}
	got, _ := f.orders.Get(context.Background(), 1)
	if got.Type != "диагностика" || got.Status != database.StatusNew || got.ClientName != "Иванов И.И." {
		t.Errorf("stored order = %+v", got)
	}

	// сотрудник может менять статус
	update = *got
	update.Status = database.StatusInProgress
	if rec := f.do(t, http.MethodPut, "/api/orders/1", "employee", "", update); rec.Code != http.StatusOK {
		t.Fatalf("employee update status = %d", rec.Code)
	}
	got, _ = f.orders.Get(context.Background(), 1)
	if got.Status != database.StatusInProgress {
		t.Errorf("status = %q", got.Status)
	}
}

func TestClientDeleteRules(t *testing.T) {
	f := newFixture(t)

	if rec := f.do(t, http.MethodDelete, "/api/orders/2", "client", "Иванов И.И.", nil); rec.Code != http.StatusForbidden {
		t.Errorf("in-progress delete status = %d, want 403", rec.Code)
	}
	if rec := f.do(t, http.MethodDelete, "/api/orders/1", "client", "Иванов И.И.", nil); rec.Code != http.StatusNoContent {
		t.Errorf("new order delete status = %d, want 204", rec.Code)
	}
	if rec := f.do(t, http.MethodDelete, "/api/orders/2", "admin", "", nil); rec.Code != http.StatusNoContent {
		t.Errorf("admin delete status = %d, want 204", rec.Code)
	}
	if rec := f.do(t, http.MethodDelete, "/api/orders/99", "admin", "", nil); rec.Code != http.StatusNotFound {
		t.Errorf("missing order status = %d, want 404", rec.Code)
	}
	if kinds := f.hub.published(); len(kinds) != 2 || kinds[0] != "order_deleted" {
		t.Errorf("hub messages = %v", kinds)
	}
}

func TestPeopleEndpoints(t *testing.T) {
	f := newFixture(t)

	body := PersonRequest{Username: "ivanov", FullName: "Иванов И.И.", Password: "secret"}
	if rec := f.do(t, http.MethodPost, "/api/clients", "client", "", body); rec.Code != http.StatusForbidden {
		t.Errorf("client managing clients status = %d", rec.Code)
	}
	rec := f.do(t, http.MethodPost, "/api/clients", "employee", "", body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body %s", rec.Code, rec.Body)
	}
	if strings.Contains(rec.Body.String(), "secret") || strings.Contains(rec.Body.String(), "$2a$") {
		t.Error("password leaked into response")
	}
	stored := f.clients.people["ivanov"]
	if !auth.CheckPassword(stored.PasswordHash, "secret") {
		t.Error("password was not hashed")
	}

	if rec := f.do(t, http.MethodPost, "/api/clients", "employee", "", body); rec.Code != http.StatusConflict {
		t.Errorf("duplicate status = %d, want 409", rec.Code)
	}
	if rec := f.do(t, http.MethodPost, "/api/clients", "employee", "", PersonRequest{Username: "x", FullName: "X"}); rec.Code != http.StatusBadRequest {
		t.Errorf("missing password status = %d, want 400", rec.Code)
	}

	rec = f.do(t, http.MethodPut, "/api/clients/ivanov", "employee", "", PersonRequest{FullName: "Иванов Иван"})
	if rec.Code != http.StatusOK {
		t.Fatalf("update status = %d", rec.Code)
	}
	if p := f.clients.people["ivanov"]; p.FullName != "Иванов Иван" || !auth.CheckPassword(p.PasswordHash, "secret") {
		t.Errorf("updated person = %+v", p)
	}

	if rec := f.do(t, http.MethodGet, "/api/employees", "employee", "", nil); rec.Code != http.StatusForbidden {
		t.Errorf("employee listing employees status = %d, want 403", rec.Code)
	}
	if rec := f.do(t, http.MethodGet, "/api/employees", "admin", "", nil); rec.Code != http.StatusOK {
		t.Errorf("admin listing employees status = %d", rec.Code)
	}

	if rec := f.do(t, http.MethodDelete, "/api/clients/ivanov", "admin", "", nil); rec.Code != http.StatusNoContent {
		t.Errorf("delete status = %d", rec.Code)
	}
	if rec := f.do(t, http.MethodGet, "/api/clients/ivanov", "admin", "", nil); rec.Code != http.StatusNotFound {
		t.Errorf("get deleted status = %d", rec.Code)
	}
}

func TestLogin(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodPost, "/api/login", "", "", LoginRequest{Username: "admin", Password: "secret"})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var resp LoginResponse
	decode(t, rec, &resp)
	if resp.Role != "admin" || !resp.Capabilities.Employees {
		t.Errorf("response = %+v", resp)
	}

	rec = f.do(t, http.MethodPost, "/api/login", "", "", LoginRequest{Username: "ivanov", Password: "secret"})
	if rec.Code != http.StatusOK {
		t.Fatalf("client login status = %d", rec.Code)
	}
	decode(t, rec, &resp)
	if resp.Role != "client" || resp.Username != "ivanov" || resp.FullName != "Иванов И.И." {
		t.Errorf("client response = %+v", resp)
	}

	if rec := f.do(t, http.MethodPost, "/api/login", "", "", LoginRequest{Username: "admin", Password: "nope"}); rec.Code != http.StatusUnauthorized {
		t.Errorf("wrong password status = %d, want 401", rec.Code)
	}
	if rec := f.do(t, http.MethodPost, "/api/login", "", "", LoginRequest{Username: "admin"}); rec.Code != http.StatusBadRequest {
		t.Errorf("missing password status = %d, want 400", rec.Code)
	}
}

func registration(username, password, confirm string) RegisterRequest {
	return RegisterRequest{
		PersonRequest: PersonRequest{
			Username: username,
			FullName: "Смирнов А.А.",
			Email:    "smirnov@example.com",
			Phone:    "+79991112233",
			Password: password,
		},
		ConfirmPassword: confirm,
	}
}

func TestRegister(t *testing.T) {
	f := newFixture(t)
	f.employees.people["petrov"] = database.Person{Username: "petrov", FullName: "Петров П.П."}

	rec := f.do(t, http.MethodPost, "/api/register", "", "", registration("smirnov", "pw", "pw"))
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	stored, ok := f.clients.people["smirnov"]
	if !ok {
		t.Fatal("client was not stored")
	}
	if !auth.CheckPassword(stored.PasswordHash, "pw") {
		t.Error("stored password does not match")
	}
	if strings.Contains(rec.Body.String(), stored.PasswordHash) {
		t.Error("password hash leaked into the response")
	}

	incomplete := registration("kuznetsov", "pw", "pw")
	incomplete.Email = ""

	tests := []struct {
		name string
		body RegisterRequest
		want int
	}{
		{"client login taken", registration("smirnov", "pw", "pw"), http.StatusConflict},
		{"employee login taken", registration("petrov", "pw", "pw"), http.StatusConflict},
		{"admin login reserved", registration("admin", "pw", "pw"), http.StatusConflict},
		{"passwords differ", registration("kuznetsov", "pw", "other"), http.StatusBadRequest},
		{"empty email", incomplete, http.StatusBadRequest},
		{"empty password", registration("kuznetsov", "", ""), http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := f.do(t, http.MethodPost, "/api/register", "", "", tt.body)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d (%s)", rec.Code, tt.want, rec.Body.String())
			}
		})
	}
	if _, ok := f.clients.people["kuznetsov"]; ok {
		t.Error("rejected registration was stored")
	}
	if _, ok := f.clients.people["admin"]; ok {
		t.Error("reserved login was stored")
	}
}

func TestMetricsEndpoint(t *testing.T) {
	f := newFixture(t)
	f.do(t, http.MethodGet, "/api/forecast?year=2024&month=3", "admin", "", nil)

	rec := f.do(t, http.MethodGet, "/metrics", "", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `http_requests_total{route="/api/forecast",status="200"} 1`) {
		t.Error("forecast request was not counted")
	}
}

func TestCORSPreflight(t *testing.T) {
	f := newFixture(t)
	req := httptest.NewRequest(http.MethodOptions, "/api/orders", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	req.Header.Set("Access-Control-Request-Headers", HeaderRole)
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("preflight status = %d", rec.Code)
	}
	if rec.Header().Get("Access-Control-Allow-Origin") == "" {
		t.Error("missing Access-Control-Allow-Origin")
	}
}
