package middleware

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
)

// Recoverer turns a panic anywhere below it into a 500 JSON response of
// the form {"error": "..."} and logs the stack. http.ErrAbortHandler is
// re-raised so the server can abort the connection as usual.
func Recoverer(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}

				msg := "Internal Server Error"
				switch v := rec.(type) {
				case error:
					if v.Error() != "" {
						msg = v.Error()
					}
				case string:
					if v != "" {
						msg = v
					}
				default:
					msg = fmt.Sprint(v)
				}

				log.Error("panic recovered",
					"error", msg,
					"path", r.URL.Path,
					"request_id", RequestIDFromContext(r.Context()),
					"stack", string(debug.Stack()),
				)

				w.Header().Set("Content-Type", "application/json; charset=utf-8")
				w.WriteHeader(http.StatusInternalServerError)
				json.NewEncoder(w).Encode(map[string]string{"error": msg})
			}()

			next.ServeHTTP(w, r)
		})
	}
}
