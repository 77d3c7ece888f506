// internal/app/features/errors/recover.go
package errors

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// Recoverer turns a handler panic into a logged error and a generic 500.
// The log entry carries the panic message, the stack and, when the panic
// value is an error, its cause chain.
func (e *ErrorLogger) Recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				// Let net/http abort the response as intended.
				panic(rec)
			}

			fields := []zap.Field{
				zap.String("panic", fmt.Sprint(rec)),
				zap.ByteString("stack", debug.Stack()),
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.String("request_id", middleware.GetReqID(r.Context())),
			}
			if err, ok := rec.(error); ok {
				fields = append(fields, zap.Strings("causes", causeChain(err)))
			}
			e.Log.Error("panic recovered", fields...)

			WriteError(w, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}()

		next.ServeHTTP(w, r)
	})
}
