// routes/order_handlers.go
package routes

import (
	"context"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/LilVoxy/service_requests/auth"
	"github.com/LilVoxy/service_requests/database"
	"github.com/LilVoxy/service_requests/events"
	"github.com/LilVoxy/service_requests/forecast"
)

// CreatedResponse ответ на создание заявки
type CreatedResponse struct {
	ID int `json:"id"`
}

func orderID(r *http.Request) (int, error) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		return 0, badRequest("некорректный ID заявки")
	}
	return id, nil
}

// clientName для клиента возвращает его ФИО из заголовка X-User
func clientName(p Principal) (string, error) {
	if p.Role != auth.RoleClient {
		return "", nil
	}
	if p.User == "" {
		return "", errUnknownUser
	}
	return p.User, nil
}

// loadOrder получает заявку. Клиенту чужие заявки не видны.
func loadOrder(ctx context.Context, store OrderStore, p Principal, id int) (*database.Order, error) {
	name, err := clientName(p)
	if err != nil {
		return nil, err
	}
	o, err := store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if name != "" && o.ClientName != name {
		return nil, database.ErrNotFound
	}
	return o, nil
}

// ListOrdersHandler возвращает заявки по фильтру. Клиент видит только свои.
func ListOrdersHandler(store OrderStore) http.HandlerFunc {
	return require(canManageOrders, func(w http.ResponseWriter, r *http.Request, p Principal) {
		q := r.URL.Query()
		filter := database.OrderFilter{
			Status:     q.Get("status"),
			ClientName: q.Get("client_name"),
			MasterName: q.Get("master_name"),
			CarNumber:  q.Get("car_number"),
			OpenFrom:   q.Get("open_from"),
			OpenTo:     q.Get("open_to"),
		}

		name, err := clientName(p)
		if err != nil {
			writeError(w, err)
			return
		}
		if name != "" {
			filter.ClientName = name
		}

		orders, err := store.List(r.Context(), filter)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, orders)
	})
}

// GetOrderHandler возвращает заявку по ID
func GetOrderHandler(store OrderStore) http.HandlerFunc {
	return require(canManageOrders, func(w http.ResponseWriter, r *http.Request, p Principal) {
		id, err := orderID(r)
		if err != nil {
			writeError(w, err)
			return
		}
		o, err := loadOrder(r.Context(), store, p, id)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, o)
	})
}

// CreateOrderHandler создает заявку. Заявка клиента всегда создается
// со статусом "новый" на его имя.
func CreateOrderHandler(store OrderStore, n *notifier) http.HandlerFunc {
	return require(canManageOrders, func(w http.ResponseWriter, r *http.Request, p Principal) {
		var o database.Order
		if err := decodeBody(r, &o); err != nil {
			writeError(w, err)
			return
		}

		name, err := clientName(p)
		if err != nil {
			writeError(w, err)
			return
		}
		if name != "" {
			o.ClientName = name
		}
		if o.Status == "" || !p.Capabilities.EditStatus {
			o.Status = database.StatusNew
		}
		if !p.Capabilities.EditCloseDate {
			o.CloseDate = ""
		}
		if o.OpenDate == "" {
			o.OpenDate = time.Now().Format(forecast.DateLayout)
		}
		o.ID = 0

		if err := o.Validate(); err != nil {
			writeError(w, err)
			return
		}

		id, err := store.Create(r.Context(), o)
		if err != nil {
			writeError(w, err)
			return
		}
		o.ID = id

		n.order(r.Context(), events.OrderCreated, o)
		log.Printf("✅ Создана заявка %d (%s)", id, p.Role)
		writeJSON(w, http.StatusCreated, CreatedResponse{ID: id})
	})
}

// UpdateOrderHandler изменяет заявку. Поля, на изменение которых у роли нет прав,
// сохраняют прежние значения. Клиент может менять только заявки со статусом "новый".
func UpdateOrderHandler(store OrderStore, n *notifier) http.HandlerFunc {
	return require(canManageOrders, func(w http.ResponseWriter, r *http.Request, p Principal) {
		id, err := orderID(r)
		if err != nil {
			writeError(w, err)
			return
		}

		existing, err := loadOrder(r.Context(), store, p, id)
		if err != nil {
			writeError(w, err)
			return
		}
		if p.Role == auth.RoleClient && existing.Status != database.StatusNew {
			writeError(w, forbidden("нельзя редактировать заявки со статусом 'в работе' или 'завершён'"))
			return
		}

		var o database.Order
		if err := decodeBody(r, &o); err != nil {
			writeError(w, err)
			return
		}
		o.ID = id
		if o.OpenDate == "" {
			o.OpenDate = existing.OpenDate
		}
		if !p.Capabilities.EditStatus {
			o.Status = existing.Status
		}
		if !p.Capabilities.EditClientName {
			o.ClientName = existing.ClientName
		}
		if !p.Capabilities.EditCloseDate {
			o.CloseDate = existing.CloseDate
		}

		if err := o.Validate(); err != nil {
			writeError(w, err)
			return
		}
		if err := store.Update(r.Context(), o); err != nil {
			writeError(w, err)
			return
		}

		n.order(r.Context(), events.OrderUpdated, o)
		log.Printf("✅ Заявка %d обновлена (%s)", id, p.Role)
		writeJSON(w, http.StatusOK, o)
	})
}

// DeleteOrderHandler удаляет заявку. Клиент не может удалить заявку в работе.
func DeleteOrderHandler(store OrderStore, n *notifier) http.HandlerFunc {
	return require(canManageOrders, func(w http.ResponseWriter, r *http.Request, p Principal) {
		id, err := orderID(r)
		if err != nil {
			writeError(w, err)
			return
		}

		existing, err := loadOrder(r.Context(), store, p, id)
		if err != nil {
			writeError(w, err)
			return
		}
		if p.Role == auth.RoleClient && existing.Status == database.StatusInProgress {
			writeError(w, forbidden("нельзя удалять заявки со статусом 'в работе'"))
			return
		}

		if err := store.Delete(r.Context(), id); err != nil {
			writeError(w, err)
			return
		}

		n.order(r.Context(), events.OrderDeleted, *existing)
		log.Printf("✅ Заявка %d удалена (%s)", id, p.Role)
		w.WriteHeader(http.StatusNoContent)
	})
}
