package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"paint-matcher/internal/domain"
)

const paintColumns = "id, brand, name, color_hex, type"

// PaintRepository implementiert repository.PaintRepository auf PostgreSQL.
type PaintRepository struct {
	db        *sql.DB
	maxPaints int
	logger    *zap.Logger
}

// NewPaintRepository verbindet sich mit der Datenbank unter dsn und legt die Tabelle an, falls sie fehlt.
// maxPaints begrenzt die Zeilenanzahl; 0 bedeutet unbegrenzt.
func NewPaintRepository(ctx context.Context, dsn string, maxPaints int, logger *zap.Logger) (*PaintRepository, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres öffnen: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres ping: %w", err)
	}

	if _, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS paints (
			seq       BIGSERIAL PRIMARY KEY,
			id        TEXT NOT NULL UNIQUE,
			brand     TEXT NOT NULL,
			name      TEXT NOT NULL,
			color_hex TEXT,
			type      TEXT NOT NULL DEFAULT ''
		)
	`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("tabelle erstellen: %w", err)
	}
	if _, err := db.ExecContext(ctx, "CREATE INDEX IF NOT EXISTS paints_brand_idx ON paints (brand)"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("index erstellen: %w", err)
	}

	logger.Info("postgres-repository initialisiert")
	return &PaintRepository{db: db, maxPaints: maxPaints, logger: logger}, nil
}

// Close schließt den Verbindungspool.
func (r *PaintRepository) Close() error {
	return r.db.Close()
}

// GetAll gibt alle Farben in Einfügereihenfolge zurück.
func (r *PaintRepository) GetAll(ctx context.Context, limit, offset int) ([]domain.Paint, error) {
	return r.queryPaints(ctx,
		"SELECT "+paintColumns+" FROM paints ORDER BY seq LIMIT $1 OFFSET $2",
		limitArg(limit), max(offset, 0))
}

// GetByID sucht eine Farbe anhand ihrer ID.
func (r *PaintRepository) GetByID(ctx context.Context, id string) (domain.Paint, error) {
	var (
		p     domain.Paint
		color sql.NullString
	)
	err := r.db.QueryRowContext(ctx,
		"SELECT "+paintColumns+" FROM paints WHERE id = $1", id,
	).Scan(&p.ID, &p.Brand, &p.Name, &color, &p.Type)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Paint{}, fmt.Errorf("farbe mit id %s: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return domain.Paint{}, fmt.Errorf("abfrage farbe id %s: %w", id, err)
	}
	p.ColorHex = color.String
	return p, nil
}

// GetByBrand gibt alle Farben einer Marke zurück.
func (r *PaintRepository) GetByBrand(ctx context.Context, brand string, limit, offset int) ([]domain.Paint, error) {
	return r.queryPaints(ctx,
		"SELECT "+paintColumns+" FROM paints WHERE brand = $1 ORDER BY seq LIMIT $2 OFFSET $3",
		brand, limitArg(limit), max(offset, 0))
}

// Brands gibt alle Marken sortiert zurück.
func (r *PaintRepository) Brands(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT DISTINCT brand FROM paints ORDER BY brand")
	if err != nil {
		return nil, fmt.Errorf("marken abfragen: %w", err)
	}
	defer rows.Close()

	out := make([]string, 0)
	for rows.Next() {
		var b string
		if err := rows.Scan(&b); err != nil {
			return nil, fmt.Errorf("zeile lesen: %w", err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// Add fügt eine neue Farbe hinzu. Die Kapazitätsprüfung sperrt die Tabelle, damit parallele
// Einfügungen die Grenze nicht überschreiten.
func (r *PaintRepository) Add(ctx context.Context, paint domain.Paint) (domain.Paint, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.Paint{}, fmt.Errorf("transaktion starten: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if r.maxPaints > 0 {
		if _, err := tx.ExecContext(ctx, "LOCK TABLE paints IN SHARE ROW EXCLUSIVE MODE"); err != nil {
			return domain.Paint{}, fmt.Errorf("tabelle sperren: %w", err)
		}
		var count int
		if err := tx.QueryRowContext(ctx, "SELECT COUNT(*) FROM paints").Scan(&count); err != nil {
			return domain.Paint{}, fmt.Errorf("anzahl abfragen: %w", err)
		}
		if count >= r.maxPaints {
			return domain.Paint{}, fmt.Errorf("max %d farben: %w", r.maxPaints, domain.ErrCapacityReached)
		}
	}

	if paint.ID == "" {
		paint.ID = uuid.NewString()
	}
	res, err := tx.ExecContext(ctx,
		`INSERT INTO paints (id, brand, name, color_hex, type) VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (id) DO NOTHING`,
		paint.ID, paint.Brand, paint.Name,
		sql.NullString{String: paint.ColorHex, Valid: paint.ColorHex != ""}, paint.Type,
	)
	if err != nil {
		return domain.Paint{}, fmt.Errorf("farbe einfügen: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return domain.Paint{}, fmt.Errorf("betroffene zeilen: %w", err)
	}
	if n == 0 {
		return domain.Paint{}, fmt.Errorf("id %s existiert bereits: %w", paint.ID, domain.ErrInvalidInput)
	}

	if err := tx.Commit(); err != nil {
		return domain.Paint{}, fmt.Errorf("commit: %w", err)
	}
	return paint, nil
}

func (r *PaintRepository) queryPaints(ctx context.Context, query string, args ...any) ([]domain.Paint, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("abfrage: %w", err)
	}
	defer rows.Close()

	out := make([]domain.Paint, 0)
	for rows.Next() {
		var (
			p     domain.Paint
			color sql.NullString
		)
		if err := rows.Scan(&p.ID, &p.Brand, &p.Name, &color, &p.Type); err != nil {
			return nil, fmt.Errorf("zeile lesen: %w", err)
		}
		p.ColorHex = color.String
		out = append(out, p)
	}
	return out, rows.Err()
}

// limitArg liefert NULL für "kein Limit"; PostgreSQL wertet LIMIT NULL wie LIMIT ALL.
func limitArg(limit int) sql.NullInt64 {
	return sql.NullInt64{Int64: int64(limit), Valid: limit > 0}
}
