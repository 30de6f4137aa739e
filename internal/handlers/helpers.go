package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"net/url"
	"strings"

	"github.com/alfagnish/users-api/internal/middleware"
)

// apiFunc is an HTTP handler that may fail. Errors it returns are turned
// into a 500 response by handle.
type apiFunc func(w http.ResponseWriter, r *http.Request) error

// handle adapts fn to http.HandlerFunc. It is the single place where
// unexpected errors are logged and reported to the client.
func handle(log *slog.Logger, fn apiFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := fn(w, r)
		if err == nil {
			return
		}
		log.Error("request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"request_id", middleware.RequestIDFromContext(r.Context()),
			"error", err,
		)
		msg := err.Error()
		if msg == "" {
			msg = "Internal Server Error"
		}
		writeError(w, http.StatusInternalServerError, msg)
	}
}

// writeJSON serialises v as JSON and writes it to the response with the
// given HTTP status code.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError writes a standard JSON error response of the form
// {"error": "message"}.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// maxBodyBytes caps request bodies at 100kb.
const maxBodyBytes = 100 << 10

// mediaType returns the lower-cased media type of the request body, or
// "" when there is no usable Content-Type.
func mediaType(r *http.Request) string {
	ct := r.Header.Get("Content-Type")
	if ct == "" {
		return ""
	}
	mt, _, err := mime.ParseMediaType(ct)
	if err != nil {
		return ""
	}
	return strings.ToLower(mt)
}

// decodeJSONObject decodes a JSON body into dst. The body must hold
// exactly one JSON object or array; an empty body or an array leaves dst
// untouched. Scalars and trailing data are rejected.
func decodeJSONObject(r *http.Request, dst interface{}) error {
	raw, err := io.ReadAll(http.MaxBytesReader(nil, r.Body, maxBodyBytes))
	if err != nil {
		return fmt.Errorf("read request body: %w", err)
	}
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil
	}

	var top json.RawMessage
	dec := json.NewDecoder(bytes.NewReader(raw))
	if err := dec.Decode(&top); err != nil {
		return fmt.Errorf("invalid JSON body: %w", err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return errors.New("invalid JSON body: unexpected data after top-level value")
	}

	switch raw[0] {
	case '{':
		if err := json.Unmarshal(raw, dst); err != nil {
			return fmt.Errorf("invalid JSON body: %w", err)
		}
		return nil
	case '[':
		return nil
	default:
		return errors.New("invalid JSON body: expected an object or array")
	}
}

// parseFormBody parses an urlencoded body and returns its values.
func parseFormBody(r *http.Request) (url.Values, error) {
	r.Body = http.MaxBytesReader(nil, r.Body, maxBodyBytes)
	if err := r.ParseForm(); err != nil {
		return nil, fmt.Errorf("invalid form body: %w", err)
	}
	return r.PostForm, nil
}
