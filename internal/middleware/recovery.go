package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"runtime/debug"

	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// Recovery fängt Panics in Handlern ab, protokolliert sie mit Stacktrace und antwortet mit 500.
// http.ErrAbortHandler wird weitergereicht, damit net/http die Verbindung abbricht.
func Recovery(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if err, ok := rec.(error); ok && errors.Is(err, http.ErrAbortHandler) {
					panic(rec)
				}
				logger.Error("panic abgefangen",
					zap.String("request_id", chimw.GetReqID(r.Context())),
					zap.String("methode", r.Method),
					zap.String("pfad", r.URL.Path),
					zap.Any("fehler", rec),
					zap.ByteString("stack", debug.Stack()),
				)
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusInternalServerError)
				_ = json.NewEncoder(w).Encode(map[string]string{
					"error": "interner serverfehler",
				})
			}()
			next.ServeHTTP(w, r)
		})
	}
}
