package handler

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"paint-matcher/internal/domain"
	"paint-matcher/internal/service"
)

// MatchService definiert den Farbabgleich, den der Handler benötigt.
type MatchService interface {
	FindMatches(ctx context.Context, req service.MatchRequest) ([]domain.Match, error)
}

// MatchHandler stellt den Farbabgleich über HTTP bereit.
type MatchHandler struct {
	service MatchService
	logger  *zap.Logger
}

// NewMatchHandler erstellt einen neuen MatchHandler.
func NewMatchHandler(svc MatchService, logger *zap.Logger) *MatchHandler {
	return &MatchHandler{service: svc, logger: logger}
}

type matchResponse struct {
	Matches []domain.Match `json:"matches"`
}

// Match beantwortet POST /match {target, topK, brandFilter} mit den nächsten Farben.
func (h *MatchHandler) Match(w http.ResponseWriter, r *http.Request) {
	var req service.MatchRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	matches, err := h.service.FindMatches(r.Context(), req)
	if err != nil {
		writeError(w, h.logger, "farbabgleich", err)
		return
	}
	writeJSON(w, http.StatusOK, matchResponse{Matches: matches})
}
