package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"pet-shop-api/internal/platform/httpx"
)

// Recover reemplaza a chi/middleware.Recoverer: mismo comportamiento,
// pero responde JSON y loguea con el logger del request.
func Recover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}

			Log(r.Context()).Error("panic recovered", map[string]any{
				"panic": fmt.Sprint(rec),
				"stack": string(debug.Stack()),
			})

			if r.Header.Get("Connection") != "Upgrade" {
				httpx.WriteError(w, http.StatusInternalServerError, "internal error")
			}
		}()

		next.ServeHTTP(w, r)
	})
}
