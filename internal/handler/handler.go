package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"paint-matcher/internal/domain"
)

// maxRequestBody begrenzt die POST-Body-Größe auf 1 MegaByte
const maxRequestBody = 1 << 20

// errorBody ist die einheitliche Fehlerantwort-Struktur.
type errorBody struct {
	Error string `json:"error"`
}

// writeJSON setzt den Content-Type-Header und schreibt v als JSON in w.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError bildet Domänenfehler auf HTTP-Statuscodes ab. Unbekannte Fehler werden
// protokolliert und nur als interner Serverfehler ausgeliefert.
func writeError(w http.ResponseWriter, logger *zap.Logger, op string, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorBody{err.Error()})
	case errors.Is(err, domain.ErrInvalidInput), errors.Is(err, domain.ErrInvalidColor):
		writeJSON(w, http.StatusBadRequest, errorBody{err.Error()})
	case errors.Is(err, domain.ErrCapacityReached):
		writeJSON(w, http.StatusServiceUnavailable, errorBody{err.Error()})
	default:
		logger.Error(op, zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, errorBody{"interner serverfehler"})
	}
}

// decodeJSON liest genau ein JSON-Objekt aus dem Body. Ist der Body größer als maxRequestBody,
// wird 413 geschrieben, bei ungültigem JSON oder Daten hinter dem Objekt 400. ok meldet,
// ob der Handler weitermachen darf.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) (ok bool) {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBody))
	err := dec.Decode(v)
	if err == nil {
		if extra := dec.Decode(&struct{}{}); extra != io.EOF {
			err = errors.Join(errTrailingData, extra)
		}
	}
	if err == nil {
		return true
	}

	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		writeJSON(w, http.StatusRequestEntityTooLarge, errorBody{"anfrage-body zu groß"})
		return false
	}
	writeJSON(w, http.StatusBadRequest, errorBody{"ungültiger anfrage-body"})
	return false
}

var errTrailingData = errors.New("daten hinter dem json-objekt")

// pagination liest limit und offset aus der Query. Fehlende Werte sind 0.
func pagination(r *http.Request) (limit, offset int, ok bool) {
	q := r.URL.Query()
	if limit, ok = nonNegative(q.Get("limit")); !ok {
		return 0, 0, false
	}
	if offset, ok = nonNegative(q.Get("offset")); !ok {
		return 0, 0, false
	}
	return limit, offset, true
}

func nonNegative(s string) (int, bool) {
	if s == "" {
		return 0, true
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}
