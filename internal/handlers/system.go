package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// SystemHandler provides the health check and the hello demo endpoint.
type SystemHandler struct {
	log *slog.Logger
}

// NewSystemHandler creates a new SystemHandler.
func NewSystemHandler(log *slog.Logger) *SystemHandler {
	return &SystemHandler{log: log}
}

// Routes registers the system routes on the given chi router.
func (h *SystemHandler) Routes(r chi.Router) {
	r.Get("/health", h.Health)
	r.Get("/api/hello", handle(h.log, h.Hello))
}

// Health reports that the process is up.
func (h *SystemHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Hello returns a fixed greeting.
func (h *SystemHandler) Hello(w http.ResponseWriter, r *http.Request) error {
	if err := r.Context().Err(); err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Ahoj z Express 4"})
	return nil
}

// NotFound is the JSON fallback for unknown routes.
func NotFound(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusNotFound, "Not Found")
}

// MethodNotAllowed is the JSON fallback for known paths hit with an
// unsupported method.
func MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusMethodNotAllowed, "Method Not Allowed")
}
