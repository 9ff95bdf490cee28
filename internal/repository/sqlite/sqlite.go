package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"paint-matcher/internal/domain"
)

const paintColumns = "id, brand, name, color_hex, type"

// PaintRepository implementiert repository.PaintRepository auf SQLite.
type PaintRepository struct {
	db        *sql.DB
	maxPaints int
	logger    *zap.Logger
}

// NewPaintRepository öffnet die SQLite-Datenbank unter dsn, erstellt das
// Schema und gibt ein einsatzbereites Repository zurück.
// maxPaints begrenzt die Zeilenanzahl; 0 bedeutet unbegrenzt.
func NewPaintRepository(dsn string, maxPaints int, logger *zap.Logger) (*PaintRepository, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite öffnen: %w", err)
	}
	// Jede Verbindung auf ":memory:" hätte ihre eigene Datenbank.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite ping: %w", err)
	}

	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS paints (
			seq       INTEGER PRIMARY KEY AUTOINCREMENT,
			id        TEXT NOT NULL UNIQUE,
			brand     TEXT NOT NULL,
			name      TEXT NOT NULL,
			color_hex TEXT,
			type      TEXT NOT NULL DEFAULT ''
		);
		CREATE INDEX IF NOT EXISTS paints_brand_idx ON paints (brand);
	`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("tabelle erstellen: %w", err)
	}

	logger.Info("sqlite-repository initialisiert", zap.String("dsn", dsn))
	return &PaintRepository{db: db, maxPaints: maxPaints, logger: logger}, nil
}

// Close schließt die zugrunde liegende Datenbankverbindung.
func (r *PaintRepository) Close() error {
	return r.db.Close()
}

// GetAll gibt alle Farben in Einfügereihenfolge zurück.
func (r *PaintRepository) GetAll(ctx context.Context, limit, offset int) ([]domain.Paint, error) {
	limit, offset = bounds(limit, offset)
	return r.queryPaints(ctx,
		"SELECT "+paintColumns+" FROM paints ORDER BY seq LIMIT ? OFFSET ?",
		limit, offset)
}

// GetByID sucht eine Farbe anhand ihrer ID.
func (r *PaintRepository) GetByID(ctx context.Context, id string) (domain.Paint, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+paintColumns+" FROM paints WHERE id = ?", id)
	p, err := scanPaint(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Paint{}, fmt.Errorf("farbe mit id %s: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return domain.Paint{}, fmt.Errorf("abfrage farbe id %s: %w", id, err)
	}
	return p, nil
}

// GetByBrand gibt alle Farben einer Marke zurück.
func (r *PaintRepository) GetByBrand(ctx context.Context, brand string, limit, offset int) ([]domain.Paint, error) {
	limit, offset = bounds(limit, offset)
	return r.queryPaints(ctx,
		"SELECT "+paintColumns+" FROM paints WHERE brand = ? ORDER BY seq LIMIT ? OFFSET ?",
		brand, limit, offset)
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

// Add fügt eine neue Farbe hinzu und prüft die Kapazitätsgrenze.
func (r *PaintRepository) Add(ctx context.Context, paint domain.Paint) (domain.Paint, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.Paint{}, fmt.Errorf("transaktion starten: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if r.maxPaints > 0 {
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
	var exists int
	if err := tx.QueryRowContext(ctx, "SELECT COUNT(*) FROM paints WHERE id = ?", paint.ID).Scan(&exists); err != nil {
		return domain.Paint{}, fmt.Errorf("id prüfen: %w", err)
	}
	if exists > 0 {
		return domain.Paint{}, fmt.Errorf("id %s existiert bereits: %w", paint.ID, domain.ErrInvalidInput)
	}

	if _, err := tx.ExecContext(ctx,
		"INSERT INTO paints (id, brand, name, color_hex, type) VALUES (?, ?, ?, ?, ?)",
		paint.ID, paint.Brand, paint.Name, nullable(paint.ColorHex), paint.Type,
	); err != nil {
		return domain.Paint{}, fmt.Errorf("farbe einfügen: %w", err)
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
		p, err := scanPaint(rows)
		if err != nil {
			return nil, fmt.Errorf("zeile lesen: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanPaint(s scanner) (domain.Paint, error) {
	var (
		p     domain.Paint
		color sql.NullString
	)
	if err := s.Scan(&p.ID, &p.Brand, &p.Name, &color, &p.Type); err != nil {
		return domain.Paint{}, err
	}
	p.ColorHex = color.String
	return p, nil
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// bounds übersetzt limit <= 0 in SQLites "kein Limit" (-1).
func bounds(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = -1
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
