package csv

import (
	"context"
	stdcsv "encoding/csv"
	"errors"
	"fmt"
	"io"
	"maps"
	"os"
	"slices"
	"strings"
	"sync"

	"github.com/gocarina/gocsv"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"paint-matcher/internal/colormatch"
	"paint-matcher/internal/domain"
)

// paintDTO entspricht einer Zeile der Katalogdatei mit Kopfzeile id,brand,name,color_hex,type.
type paintDTO struct {
	ID       string `csv:"id"`
	Brand    string `csv:"brand"`
	Name     string `csv:"name"`
	ColorHex string `csv:"color_hex"`
	Type     string `csv:"type"`
}

// PaintRepository implementiert repository.PaintRepository und hält den Katalog im Arbeitsspeicher.
type PaintRepository struct {
	mu        sync.RWMutex
	paints    []domain.Paint
	byID      map[string]int
	maxPaints int
	logger    *zap.Logger
}

// NewPaintRepository lädt den Katalog aus filePath sofort in den Speicher.
// maxPaints begrenzt die Anzahl der Farben; 0 bedeutet unbegrenzt.
func NewPaintRepository(filePath string, maxPaints int, logger *zap.Logger) (*PaintRepository, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("csv-repository: datei öffnen %s: %w", filePath, err)
	}
	defer file.Close()

	return NewPaintRepositoryFromReader(file, filePath, maxPaints, logger)
}

// NewPaintRepositoryFromReader liest den Katalog aus r. source dient nur der Protokollierung.
func NewPaintRepositoryFromReader(r io.Reader, source string, maxPaints int, logger *zap.Logger) (*PaintRepository, error) {
	repo := &PaintRepository{
		paints:    make([]domain.Paint, 0),
		byID:      make(map[string]int),
		maxPaints: maxPaints,
		logger:    logger,
	}
	if err := repo.load(r, source); err != nil {
		return nil, fmt.Errorf("csv-repository: %w", err)
	}
	return repo, nil
}

func (r *PaintRepository) load(in io.Reader, source string) error {
	reader := stdcsv.NewReader(in)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	var rows []*paintDTO
	if err := gocsv.UnmarshalCSV(reader, &rows); err != nil {
		if errors.Is(err, gocsv.ErrEmptyCSVFile) {
			r.logger.Warn("katalog ist leer", zap.String("quelle", source))
			return nil
		}
		return fmt.Errorf("csv lesen: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	withoutColor := 0
	for i, row := range rows {
		// Zeile 1 ist die Kopfzeile.
		line := i + 2
		paint, err := toPaint(row)
		if err != nil {
			r.logger.Warn("ungültiger datensatz wird übersprungen",
				zap.Int("zeile", line),
				zap.Error(err),
			)
			continue
		}
		if _, dup := r.byID[paint.ID]; dup {
			r.logger.Warn("doppelte id wird übersprungen",
				zap.Int("zeile", line),
				zap.String("id", paint.ID),
			)
			continue
		}
		if r.maxPaints > 0 && len(r.paints) >= r.maxPaints {
			r.logger.Warn("kapazitätsgrenze beim laden erreicht, rest wird ignoriert",
				zap.Int("max_paints", r.maxPaints),
				zap.Int("zeile", line),
			)
			break
		}
		if !colormatch.ValidHex(paint.ColorHex) {
			withoutColor++
		}
		r.byID[paint.ID] = len(r.paints)
		r.paints = append(r.paints, paint)
	}

	r.logger.Info("farben aus csv geladen",
		zap.Int("anzahl", len(r.paints)),
		zap.Int("ohne_gueltige_farbe", withoutColor),
		zap.String("quelle", source),
	)
	return nil
}

// toPaint wandelt eine Katalogzeile in eine Farbe um. Fehlt die ID, wird eine UUID vergeben.
// Der Farbwert wird nicht geprüft: unvollständige Katalogdaten sind erlaubt.
func toPaint(dto *paintDTO) (domain.Paint, error) {
	p := domain.Paint{
		ID:       strings.TrimSpace(dto.ID),
		Brand:    strings.TrimSpace(dto.Brand),
		Name:     strings.TrimSpace(dto.Name),
		ColorHex: strings.TrimSpace(dto.ColorHex),
		Type:     strings.TrimSpace(dto.Type),
	}
	if p.Brand == "" || p.Name == "" {
		return domain.Paint{}, fmt.Errorf("marke und name sind erforderlich: %w", domain.ErrInvalidInput)
	}
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if normalized, err := colormatch.Normalize(p.ColorHex); err == nil {
		p.ColorHex = normalized
	}
	return p, nil
}

// GetAll gibt die Farben in Ladereihenfolge zurück.
func (r *PaintRepository) GetAll(_ context.Context, limit, offset int) ([]domain.Paint, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return paginate(r.paints, limit, offset), nil
}

// GetByID sucht eine Farbe anhand ihrer ID.
func (r *PaintRepository) GetByID(_ context.Context, id string) (domain.Paint, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if i, ok := r.byID[id]; ok {
		return r.paints[i], nil
	}
	return domain.Paint{}, fmt.Errorf("farbe mit id %s: %w", id, domain.ErrNotFound)
}

// GetByBrand gibt alle Farben einer Marke zurück (exakter Vergleich).
func (r *PaintRepository) GetByBrand(_ context.Context, brand string, limit, offset int) ([]domain.Paint, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matched := make([]domain.Paint, 0)
	for _, p := range r.paints {
		if p.Brand == brand {
			matched = append(matched, p)
		}
	}
	return paginate(matched, limit, offset), nil
}

// Brands gibt alle Marken sortiert und ohne Duplikate zurück.
func (r *PaintRepository) Brands(_ context.Context) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	set := make(map[string]struct{})
	for _, p := range r.paints {
		set[p.Brand] = struct{}{}
	}
	return slices.Sorted(maps.Keys(set)), nil
}

// Add fügt eine Farbe hinzu. Ohne ID wird eine UUID vergeben.
func (r *PaintRepository) Add(_ context.Context, paint domain.Paint) (domain.Paint, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.maxPaints > 0 && len(r.paints) >= r.maxPaints {
		return domain.Paint{}, fmt.Errorf("max %d farben: %w", r.maxPaints, domain.ErrCapacityReached)
	}
	if paint.ID == "" {
		paint.ID = uuid.NewString()
	}
	if _, dup := r.byID[paint.ID]; dup {
		return domain.Paint{}, fmt.Errorf("id %s existiert bereits: %w", paint.ID, domain.ErrInvalidInput)
	}
	r.byID[paint.ID] = len(r.paints)
	r.paints = append(r.paints, paint)
	return paint, nil
}

// paginate kopiert den gewünschten Ausschnitt, damit Aufrufer den internen Zustand nicht verändern.
func paginate(paints []domain.Paint, limit, offset int) []domain.Paint {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(paints) {
		return make([]domain.Paint, 0)
	}
	end := len(paints)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	out := make([]domain.Paint, end-offset)
	copy(out, paints[offset:end])
	return out
}
