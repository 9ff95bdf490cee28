package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"paint-matcher/internal/domain"
)

// PaintService definiert den Vertrag, den der Handler von der Service-Schicht erwartet.
type PaintService interface {
	GetAll(ctx context.Context, limit, offset int) ([]domain.Paint, error)
	GetByID(ctx context.Context, id string) (domain.Paint, error)
	GetByBrand(ctx context.Context, brand string, limit, offset int) ([]domain.Paint, error)
	Brands(ctx context.Context) ([]string, error)
	Add(ctx context.Context, paint domain.Paint) (domain.Paint, error)
}

// PaintHandler stellt den Farbkatalog über HTTP bereit.
type PaintHandler struct {
	service PaintService
	logger  *zap.Logger
}

// NewPaintHandler erstellt einen neuen PaintHandler.
func NewPaintHandler(svc PaintService, logger *zap.Logger) *PaintHandler {
	return &PaintHandler{service: svc, logger: logger}
}

// GetAll gibt alle Farben zurück (?limit=&offset=).
func (h *PaintHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	limit, offset, ok := pagination(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorBody{"limit und offset müssen nicht-negative ganzzahlen sein"})
		return
	}

	paints, err := h.service.GetAll(r.Context(), limit, offset)
	if err != nil {
		writeError(w, h.logger, "alle farben abrufen", err)
		return
	}
	writeJSON(w, http.StatusOK, paints)
}

// GetByID gibt eine einzelne Farbe zurück.
func (h *PaintHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	paint, err := h.service.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.logger, "farbe nach id abrufen", err)
		return
	}
	writeJSON(w, http.StatusOK, paint)
}

// GetByBrand gibt alle Farben einer Marke zurück.
func (h *PaintHandler) GetByBrand(w http.ResponseWriter, r *http.Request) {
	limit, offset, ok := pagination(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorBody{"limit und offset müssen nicht-negative ganzzahlen sein"})
		return
	}

	paints, err := h.service.GetByBrand(r.Context(), chi.URLParam(r, "brand"), limit, offset)
	if err != nil {
		writeError(w, h.logger, "farben nach marke abrufen", err)
		return
	}
	writeJSON(w, http.StatusOK, paints)
}

// Brands gibt alle Marken zurück.
func (h *PaintHandler) Brands(w http.ResponseWriter, r *http.Request) {
	brands, err := h.service.Brands(r.Context())
	if err != nil {
		writeError(w, h.logger, "marken abrufen", err)
		return
	}
	writeJSON(w, http.StatusOK, brands)
}

// Create fügt eine neue Farbe hinzu.
func (h *PaintHandler) Create(w http.ResponseWriter, r *http.Request) {
	var p domain.Paint
	if !decodeJSON(w, r, &p) {
		return
	}

	created, err := h.service.Add(r.Context(), p)
	if err != nil {
		writeError(w, h.logger, "farbe erstellen", err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}
