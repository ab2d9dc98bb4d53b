// routes/person_handlers.go
package routes

import (
	"log"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/LilVoxy/service_requests/auth"
	"github.com/LilVoxy/service_requests/database"
)

// PersonRequest тело запроса на создание или изменение клиента/сотрудника
type PersonRequest struct {
	Username string `json:"username"`
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

func (req PersonRequest) person() (database.Person, error) {
	p := database.Person{
		Username: req.Username,
		FullName: req.FullName,
		Email:    req.Email,
		Phone:    req.Phone,
	}
	if req.Password != "" {
		hash, err := auth.HashPassword(req.Password)
		if err != nil {
			return database.Person{}, err
		}
		p.PasswordHash = hash
	}
	return p, nil
}

type handleFunc func(path string, h http.HandlerFunc, methods ...string)

// registerPeople регистрирует CRUD клиентов или сотрудников под общим префиксом
func registerPeople(handle handleFunc, prefix string, store PersonStore, allowed func(auth.Capabilities) bool) {
	item := prefix + "/{username}"
	handle(prefix, ListPeopleHandler(store, allowed), http.MethodGet)
	handle(prefix, CreatePersonHandler(store, allowed), http.MethodPost)
	handle(item, GetPersonHandler(store, allowed), http.MethodGet)
	handle(item, UpdatePersonHandler(store, allowed), http.MethodPut)
	handle(item, DeletePersonHandler(store, allowed), http.MethodDelete)
}

// ListPeopleHandler возвращает всех клиентов или сотрудников
func ListPeopleHandler(store PersonStore, allowed func(auth.Capabilities) bool) http.HandlerFunc {
	return require(allowed, func(w http.ResponseWriter, r *http.Request, _ Principal) {
		people, err := store.List(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, people)
	})
}

// GetPersonHandler возвращает запись по логину
func GetPersonHandler(store PersonStore, allowed func(auth.Capabilities) bool) http.HandlerFunc {
	return require(allowed, func(w http.ResponseWriter, r *http.Request, _ Principal) {
		p, err := store.Get(r.Context(), mux.Vars(r)["username"])
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, p)
	})
}

// CreatePersonHandler создает запись. Пароль обязателен.
func CreatePersonHandler(store PersonStore, allowed func(auth.Capabilities) bool) http.HandlerFunc {
	return require(allowed, func(w http.ResponseWriter, r *http.Request, _ Principal) {
		var req PersonRequest
		if err := decodeBody(r, &req); err != nil {
			writeError(w, err)
			return
		}

		p, err := req.person()
		if err != nil {
			writeError(w, err)
			return
		}
		if err := p.Validate(); err != nil {
			writeError(w, badRequest(err.Error()))
			return
		}

		if err := store.Create(r.Context(), p); err != nil {
			writeError(w, err)
			return
		}
		log.Printf("✅ Создана запись %s", p.Username)
		writeJSON(w, http.StatusCreated, p)
	})
}

// UpdatePersonHandler изменяет запись. Пустой пароль оставляет прежний.
func UpdatePersonHandler(store PersonStore, allowed func(auth.Capabilities) bool) http.HandlerFunc {
	return require(allowed, func(w http.ResponseWriter, r *http.Request, _ Principal) {
		var req PersonRequest
		if err := decodeBody(r, &req); err != nil {
			writeError(w, err)
			return
		}
		req.Username = mux.Vars(r)["username"]

		p, err := req.person()
		if err != nil {
			writeError(w, err)
			return
		}
		if p.FullName == "" {
			writeError(w, badRequest("полное имя обязательно"))
			return
		}

		if err := store.Update(r.Context(), p); err != nil {
			writeError(w, err)
			return
		}
		log.Printf("✅ Запись %s обновлена", p.Username)
		writeJSON(w, http.StatusOK, p)
	})
}

// DeletePersonHandler удаляет запись по логину
func DeletePersonHandler(store PersonStore, allowed func(auth.Capabilities) bool) http.HandlerFunc {
	return require(allowed, func(w http.ResponseWriter, r *http.Request, _ Principal) {
		username := mux.Vars(r)["username"]
		if err := store.Delete(r.Context(), username); err != nil {
			writeError(w, err)
			return
		}
		log.Printf("✅ Запись %s удалена", username)
		w.WriteHeader(http.StatusNoContent)
	})
}
