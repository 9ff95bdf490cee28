package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"paint-matcher/internal/colormatch"
	"paint-matcher/internal/domain"
	"paint-matcher/internal/repository"
)

const (
	// DefaultTopK gilt, wenn die Anfrage keine Trefferanzahl nennt.
	DefaultTopK = 5
	// MaxTopK begrenzt die Antwortgröße.
	MaxTopK = 50
)

// MatchRequest beschreibt einen Farbabgleich.
type MatchRequest struct {
	Target string `json:"target"`
	TopK   int    `json:"topK"`
	Brand  string `json:"brandFilter,omitempty"`
}

// MatchService sucht zu einer Zielfarbe die ähnlichsten Farben im Katalog.
type MatchService struct {
	repo   repository.PaintRepository
	logger *zap.Logger
}

// NewMatchService gibt einen einsatzbereiten MatchService zurück.
func NewMatchService(repo repository.PaintRepository, logger *zap.Logger) *MatchService {
	return &MatchService{repo: repo, logger: logger}
}

// FindMatches lädt den Katalog und gibt die nächsten Farben zur Zielfarbe zurück.
func (s *MatchService) FindMatches(ctx context.Context, req MatchRequest) ([]domain.Match, error) {
	topK, err := effectiveTopK(req.TopK)
	if err != nil {
		return nil, err
	}
	// Vor dem Laden des Katalogs prüfen, damit ungültige Eingaben nichts kosten.
	if !colormatch.ValidHex(req.Target) {
		return nil, fmt.Errorf("zielfarbe %q: %w", req.Target, domain.ErrInvalidColor)
	}

	catalog, err := s.repo.GetAll(ctx, 0, 0)
	if err != nil {
		return nil, fmt.Errorf("katalog laden: %w", err)
	}

	results, err := colormatch.FindMatches(req.Target, catalog, topK, req.Brand)
	if errors.Is(err, colormatch.ErrInvalidColorFormat) {
		return nil, fmt.Errorf("zielfarbe %q: %w", req.Target, domain.ErrInvalidColor)
	}
	if err != nil {
		return nil, fmt.Errorf("farbabgleich: %w", err)
	}

	if skipped := colormatch.Skipped(catalog, req.Brand); skipped > 0 {
		s.logger.Debug("farben ohne gültigen farbwert übersprungen",
			zap.Int("anzahl", skipped),
			zap.String("marke", req.Brand),
		)
	}

	out := make([]domain.Match, 0, len(results))
	for _, r := range results {
		out = append(out, domain.Match{
			Paint:      r.Entry,
			Distance:   r.Distance,
			Percentage: r.Quality,
			Band:       string(colormatch.Classify(r.Distance)),
		})
	}
	return out, nil
}

func effectiveTopK(topK int) (int, error) {
	switch {
	case topK < 0:
		return 0, fmt.Errorf("topK darf nicht negativ sein: %w", domain.ErrInvalidInput)
	case topK == 0:
		return DefaultTopK, nil
	case topK > MaxTopK:
		return MaxTopK, nil
	default:
		return topK, nil
	}
}
