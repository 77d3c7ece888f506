// internal/app/features/errors/errors.go
package errors

import (
	stderrors "errors"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// ErrorLogger reports server-side failures: it logs the cause with request
// context and answers the client with a generic JSON message.
type ErrorLogger struct {
	Log *zap.Logger
}

// NewErrorLogger constructs an ErrorLogger.
func NewErrorLogger(logger *zap.Logger) *ErrorLogger {
	return &ErrorLogger{Log: logger}
}

// LogServerError logs msg and err and writes a 500 with userMsg.
// The cause is never sent to the client.
func (e *ErrorLogger) LogServerError(w http.ResponseWriter, r *http.Request, msg string, err error, userMsg string) {
	e.Log.Error(msg,
		zap.Error(err),
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.String("request_id", middleware.GetReqID(r.Context())),
		zap.Strings("causes", causeChain(err)),
	)
	if userMsg == "" {
		userMsg = "Something went wrong. Please try again."
	}
	WriteError(w, http.StatusInternalServerError, userMsg)
}

// causeChain lists err and every error it wraps, outermost first.
func causeChain(err error) []string {
	var out []string
	for err != nil {
		out = append(out, err.Error())
		err = stderrors.Unwrap(err)
	}
	return out
}
