package handlers

import (
	"log/slog"
	"net/http"

	"github.com/alfagnish/users-api/internal/users"
	"github.com/go-chi/chi/v5"
)

const (
	msgUserNotFound  = "User not found"
	msgNameEmailReqd = "Name and email required"
)

// UsersHandler provides the CRUD endpoints for user records.
// Change notifications are raised by the store itself, see
// users.Store.OnChange.
type UsersHandler struct {
	store *users.Store
	log   *slog.Logger
}

// NewUsersHandler creates a new UsersHandler.
func NewUsersHandler(store *users.Store, log *slog.Logger) *UsersHandler {
	return &UsersHandler{store: store, log: log}
}

// Routes registers user routes on the given chi router.
func (h *UsersHandler) Routes(r chi.Router) {
	r.Get("/", handle(h.log, h.List))
	r.Post("/", handle(h.log, h.Create))
	r.Get("/{id}", handle(h.log, h.Get))
	r.Put("/{id}", handle(h.log, h.Replace))
	r.Delete("/{id}", handle(h.log, h.Delete))
}

// userBody is the accepted request shape for create and replace. Any
// other fields, including id and tags, are ignored.
type userBody struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// readUserBody extracts name and email from a JSON or urlencoded body.
// Bodies of any other content type are treated as empty.
func readUserBody(r *http.Request) (userBody, error) {
	var req userBody
	if r.Body == nil {
		return req, nil
	}
	switch mediaType(r) {
	case "application/json":
		if err := decodeJSONObject(r, &req); err != nil {
			return userBody{}, err
		}
	case "application/x-www-form-urlencoded":
		form, err := parseFormBody(r)
		if err != nil {
			return userBody{}, err
		}
		req.Name = form.Get("name")
		req.Email = form.Get("email")
	}
	return req, nil
}

// List returns all users in insertion order.
func (h *UsersHandler) List(w http.ResponseWriter, r *http.Request) error {
	writeJSON(w, http.StatusOK, h.store.List())
	return nil
}

// Get returns a single user.
func (h *UsersHandler) Get(w http.ResponseWriter, r *http.Request) error {
	u, ok := h.lookup(r)
	if !ok {
		writeError(w, http.StatusNotFound, msgUserNotFound)
		return nil
	}
	writeJSON(w, http.StatusOK, u)
	return nil
}

// Create adds a user. Both name and email must be non-empty.
func (h *UsersHandler) Create(w http.ResponseWriter, r *http.Request) error {
	req, err := readUserBody(r)
	if err != nil {
		return err
	}
	if req.Name == "" || req.Email == "" {
		writeError(w, http.StatusBadRequest, msgNameEmailReqd)
		return nil
	}

	u := h.store.Insert(req.Name, req.Email, nil)
	writeJSON(w, http.StatusCreated, u)
	return nil
}

// Replace overwrites name and/or email of an existing user. Empty or
// missing fields keep their current value.
func (h *UsersHandler) Replace(w http.ResponseWriter, r *http.Request) error {
	req, err := readUserBody(r)
	if err != nil {
		return err
	}

	id, ok := users.ParseID(chi.URLParam(r, "id"))
	if !ok {
		writeError(w, http.StatusNotFound, msgUserNotFound)
		return nil
	}
	u, ok := h.store.Replace(id, req.Name, req.Email)
	if !ok {
		writeError(w, http.StatusNotFound, msgUserNotFound)
		return nil
	}

	writeJSON(w, http.StatusOK, u)
	return nil
}

// Delete removes a user and returns the removed record.
func (h *UsersHandler) Delete(w http.ResponseWriter, r *http.Request) error {
	id, ok := users.ParseID(chi.URLParam(r, "id"))
	if !ok {
		writeError(w, http.StatusNotFound, msgUserNotFound)
		return nil
	}
	u, ok := h.store.Delete(id)
	if !ok {
		writeError(w, http.StatusNotFound, msgUserNotFound)
		return nil
	}

	writeJSON(w, http.StatusOK, u)
	return nil
}

func (h *UsersHandler) lookup(r *http.Request) (users.User, bool) {
	id, ok := users.ParseID(chi.URLParam(r, "id"))
	if !ok {
		return users.User{}, false
	}
	return h.store.Get(id)
}
