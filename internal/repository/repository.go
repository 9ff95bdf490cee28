package repository

import (
	"context"

	"paint-matcher/internal/domain"
)

// PaintRepository abstrahiert den Zugriff auf den Farbkatalog.
// limit <= 0 bedeutet unbegrenzt.
type PaintRepository interface {
	GetAll(ctx context.Context, limit, offset int) ([]domain.Paint, error)
	GetByID(ctx context.Context, id string) (domain.Paint, error)
	GetByBrand(ctx context.Context, brand string, limit, offset int) ([]domain.Paint, error)
	Brands(ctx context.Context) ([]string, error)
	Add(ctx context.Context, paint domain.Paint) (domain.Paint, error)
}
