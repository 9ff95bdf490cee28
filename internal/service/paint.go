package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"paint-matcher/internal/colormatch"
	"paint-matcher/internal/domain"
	"paint-matcher/internal/repository"
)

// PaintService kapselt die Geschäftslogik für den Farbkatalog.
type PaintService struct {
	repo   repository.PaintRepository
	logger *zap.Logger
}

// NewPaintService gibt einen einsatzbereiten PaintService zurück.
func NewPaintService(repo repository.PaintRepository, logger *zap.Logger) *PaintService {
	return &PaintService{repo: repo, logger: logger}
}

// GetAll gibt alle Farben zurück, optional paginiert.
func (s *PaintService) GetAll(ctx context.Context, limit, offset int) ([]domain.Paint, error) {
	return s.repo.GetAll(ctx, limit, offset)
}

// GetByID sucht eine einzelne Farbe anhand ihrer ID.
func (s *PaintService) GetByID(ctx context.Context, id string) (domain.Paint, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return domain.Paint{}, fmt.Errorf("id darf nicht leer sein: %w", domain.ErrInvalidInput)
	}
	return s.repo.GetByID(ctx, id)
}

// GetByBrand gibt alle Farben einer Marke zurück.
func (s *PaintService) GetByBrand(ctx context.Context, brand string, limit, offset int) ([]domain.Paint, error) {
	brand = strings.TrimSpace(brand)
	if brand == "" {
		return nil, fmt.Errorf("marke darf nicht leer sein: %w", domain.ErrInvalidInput)
	}
	return s.repo.GetByBrand(ctx, brand, limit, offset)
}

// Brands gibt alle Marken im Katalog zurück.
func (s *PaintService) Brands(ctx context.Context) ([]string, error) {
	return s.repo.Brands(ctx)
}

// Add validiert und fügt eine neue Farbe hinzu. Ein angegebener Farbwert wird auf "#rrggbb" normalisiert.
func (s *PaintService) Add(ctx context.Context, paint domain.Paint) (domain.Paint, error) {
	paint.Brand = strings.TrimSpace(paint.Brand)
	paint.Name = strings.TrimSpace(paint.Name)
	paint.Type = strings.TrimSpace(paint.Type)
	if paint.Brand == "" || paint.Name == "" {
		return domain.Paint{}, fmt.Errorf("marke und name sind erforderlich: %w", domain.ErrInvalidInput)
	}

	if hex := strings.TrimSpace(paint.ColorHex); hex != "" {
		normalized, err := colormatch.Normalize(hex)
		if err != nil {
			s.logger.Warn("ungültiger farbwert beim erstellen", zap.String("farbe", paint.ColorHex))
			return domain.Paint{}, fmt.Errorf("farbwert %q: %w", paint.ColorHex, domain.ErrInvalidInput)
		}
		paint.ColorHex = normalized
	} else {
		paint.ColorHex = ""
	}
	return s.repo.Add(ctx, paint)
}
