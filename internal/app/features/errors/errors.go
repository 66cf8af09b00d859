// internal/app/features/errors/errors.go
package errors

import (
	stderrors "errors"
	"net/http"

	"github.com/dalemusser/crccards/internal/app/system/apijson"
	"github.com/dalemusser/crccards/internal/domain/models"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// ErrorLogger logs a failure with request context and writes the matching
// JSON error body. Server errors are logged with the cause; the client only
// ever sees an opaque message.
type ErrorLogger struct {
	Log *zap.Logger
}

// NewErrorLogger constructs an ErrorLogger.
func NewErrorLogger(logger *zap.Logger) *ErrorLogger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ErrorLogger{Log: logger}
}

func (e *ErrorLogger) fields(r *http.Request, err error) []zap.Field {
	return []zap.Field{
		zap.String("request_id", middleware.GetReqID(r.Context())),
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Error(err),
	}
}

// LogServerError logs at error level and writes a 500.
func (e *ErrorLogger) LogServerError(w http.ResponseWriter, r *http.Request, msg string, err error) {
	e.Log.Error(msg, e.fields(r, err)...)
	apijson.WriteError(w, http.StatusInternalServerError, apijson.MsgInternal)
}

// LogBadRequest logs at debug level and writes a 400 with userMsg.
func (e *ErrorLogger) LogBadRequest(w http.ResponseWriter, r *http.Request, msg string, err error, userMsg string) {
	e.Log.Debug(msg, e.fields(r, err)...)
	apijson.WriteError(w, http.StatusBadRequest, userMsg)
}

// LogValidation logs at debug level and writes a 400 with per-field detail.
func (e *ErrorLogger) LogValidation(w http.ResponseWriter, r *http.Request, msg string, fields map[string]string) {
	e.Log.Debug(msg,
		zap.String("request_id", middleware.GetReqID(r.Context())),
		zap.String("path", r.URL.Path),
		zap.Any("fields", fields))
	apijson.WriteValidation(w, fields)
}

// LogDecodeError writes the response for a failed body decode.
func (e *ErrorLogger) LogDecodeError(w http.ResponseWriter, r *http.Request, err error) {
	e.Log.Debug("decode body failed", e.fields(r, err)...)
	apijson.WriteDecodeError(w, err)
}

// LogWriteError handles an error returned by a store write. Invariant and
// schema rejections become a 400 validation response; anything else is a
// server error.
func (e *ErrorLogger) LogWriteError(w http.ResponseWriter, r *http.Request, msg string, err error) {
	var ie *models.InvariantError
	switch {
	case stderrors.As(err, &ie):
		e.LogValidation(w, r, msg, map[string]string{ie.Field: ie.Error() + "."})
	case stderrors.Is(err, models.ErrSchemaRejected):
		e.Log.Warn(msg, e.fields(r, err)...)
		apijson.WriteValidation(w, map[string]string{"body": "Document failed schema validation."})
	default:
		e.LogServerError(w, r, msg, err)
	}
}

// NotFound writes a 404 {"error":"Not found"}.
func NotFound(w http.ResponseWriter, r *http.Request) {
	apijson.WriteError(w, http.StatusNotFound, apijson.MsgNotFound)
}

// MethodNotAllowed writes a 405 {"error":"Method not allowed"}.
func MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	apijson.WriteError(w, http.StatusMethodNotAllowed, apijson.MsgMethodNotAllowed)
}
