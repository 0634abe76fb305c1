package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/bryanwahyu/explain-my-mess/internal/logger"
)

// Recovery turns a handler panic into a logged 500.
func Recovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}

			logger.Error(r.Context(), "panic recovered", fmt.Errorf("%v", rec),
				"stack", string(debug.Stack()),
				"path", r.URL.Path,
				"method", r.Method,
			)
			writeError(w, http.StatusInternalServerError, "Internal server error")
		}()

		next.ServeHTTP(w, r)
	})
}
