package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"paint-matcher/internal/domain"
)

// mockPaintService implementiert PaintService für Handler-Tests.
type mockPaintService struct {
	paints []domain.Paint
	nextID int
	err    error
}

func newMockPaintService(paints []domain.Paint) *mockPaintService {
	return &mockPaintService{paints: paints, nextID: len(paints) + 1}
}

func page(paints []domain.Paint, limit, offset int) []domain.Paint {
	if offset >= len(paints) {
		return make([]domain.Paint, 0)
	}
	out := paints[offset:]
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out
}

func (m *mockPaintService) GetAll(_ context.Context, limit, offset int) ([]domain.Paint, error) {
	if m.err != nil {
		return nil, m.err
	}
	return page(m.paints, limit, offset), nil
}

func (m *mockPaintService) GetByID(_ context.Context, id string) (domain.Paint, error) {
	for _, p := range m.paints {
		if p.ID == id {
			return p, nil
		}
	}
	return domain.Paint{}, fmt.Errorf("farbe mit id %s: %w", id, domain.ErrNotFound)
}

func (m *mockPaintService) GetByBrand(_ context.Context, brand string, limit, offset int) ([]domain.Paint, error) {
	out := make([]domain.Paint, 0)
	for _, p := range m.paints {
		if p.Brand == brand {
			out = append(out, p)
		}
	}
	return page(out, limit, offset), nil
}

func (m *mockPaintService) Brands(_ context.Context) ([]string, error) {
	return []string{"Citadel", "Vallejo"}, nil
}

func (m *mockPaintService) Add(_ context.Context, paint domain.Paint) (domain.Paint, error) {
	if paint.Brand == "" || paint.Name == "" {
		return domain.Paint{}, fmt.Errorf("marke und name sind erforderlich: %w", domain.ErrInvalidInput)
	}
	if len(m.paints) >= 4 {
		return domain.Paint{}, fmt.Errorf("max 4 farben: %w", domain.ErrCapacityReached)
	}
	paint.ID = fmt.Sprintf("p%d", m.nextID)
	m.nextID++
	m.paints = append(m.paints, paint)
	return paint, nil
}

func setupPaintRouter(h *PaintHandler) *chi.Mux {
	r := chi.NewRouter()
	r.Get("/paints", h.GetAll)
	r.Post("/paints", h.Create)
	r.Get("/paints/{id}", h.GetByID)
	r.Get("/paints/brand/{brand}", h.GetByBrand)
	r.Get("/brands", h.Brands)
	return r
}

func neuerPaintHandler() (*mockPaintService, *chi.Mux) {
	logger, _ := zap.NewDevelopment()
	svc := newMockPaintService([]domain.Paint{
		{ID: "p1", Brand: "Citadel", Name: "Macragge Blue", ColorHex: "#1f2e63"},
		{ID: "p2", Brand: "Citadel", Name: "Mephiston Red", ColorHex: "#7e1719"},
		{ID: "p3", Brand: "Vallejo", Name: "Ultramarine Blue", ColorHex: "#2a3f8f"},
	})
	return svc, setupPaintRouter(NewPaintHandler(svc, logger))
}

func serve(router http.Handler, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestGetAll_GibtFarbenZurueck(t *testing.T) {
	_, router := neuerPaintHandler()
	rec := serve(router, http.MethodGet, "/paints", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var paints []domain.Paint
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&paints))
	assert.Len(t, paints, 3)
}

func TestGetAll_MitPaginierung(t *testing.T) {
	_, router := neuerPaintHandler()
	rec := serve(router, http.MethodGet, "/paints?limit=2&offset=1", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	var paints []domain.Paint
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&paints))
	require.Len(t, paints, 2)
	assert.Equal(t, "p2", paints[0].ID)
}

func TestGetAll_UngueltigePaginierung(t *testing.T) {
	_, router := neuerPaintHandler()
	for _, q := range []string{"?limit=abc", "?offset=-1", "?limit=-2"} {
		rec := serve(router, http.MethodGet, "/paints"+q, "")
		assert.Equal(t, http.StatusBadRequest, rec.Code, q)
	}
}

func TestGetAll_Repositoryfehler(t *testing.T) {
	svc, router := neuerPaintHandler()
	svc.err = errors.New("db weg")

	rec := serve(router, http.MethodGet, "/paints", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	var body errorBody
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "interner serverfehler", body.Error)
}

func TestGetByID_Gefunden(t *testing.T) {
	_, router := neuerPaintHandler()
	rec := serve(router, http.MethodGet, "/paints/p1", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	var p domain.Paint
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&p))
	assert.Equal(t, "Macragge Blue", p.Name)
}

func TestGetByID_NichtGefunden(t *testing.T) {
	_, router := neuerPaintHandler()
	rec := serve(router, http.MethodGet, "/paints/p999", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetByBrand_Gefunden(t *testing.T) {
	_, router := neuerPaintHandler()
	rec := serve(router, http.MethodGet, "/paints/brand/Citadel", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	var paints []domain.Paint
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&paints))
	assert.Len(t, paints, 2)
}

func TestGetByBrand_MitLeerzeichen(t *testing.T) {
	_, router := neuerPaintHandler()
	rec := serve(router, http.MethodGet, "/paints/brand/Army%20Painter", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	var paints []domain.Paint
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&paints))
	assert.Empty(t, paints)
}

func TestBrands(t *testing.T) {
	_, router := neuerPaintHandler()
	rec := serve(router, http.MethodGet, "/brands", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	var brands []string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&brands))
	assert.Equal(t, []string{"Citadel", "Vallejo"}, brands)
}

func TestCreate_Gueltig(t *testing.T) {
	_, router := neuerPaintHandler()
	rec := serve(router, http.MethodPost, "/paints",
		`{"brand":"Citadel","name":"Abaddon Black","color_hex":"#000000","type":"base"}`)

	assert.Equal(t, http.StatusCreated, rec.Code)
	var p domain.Paint
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&p))
	assert.Equal(t, "p4", p.ID)
	assert.Equal(t, "#000000", p.ColorHex)
}

func TestCreate_FehlenderName(t *testing.T) {
	_, router := neuerPaintHandler()
	rec := serve(router, http.MethodPost, "/paints", `{"brand":"Citadel"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreate_UngueltigesJSON(t *testing.T) {
	_, router := neuerPaintHandler()
	rec := serve(router, http.MethodPost, "/paints", "{bad")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreate_Kapazitaetsgrenze(t *testing.T) {
	_, router := neuerPaintHandler()
	rec := serve(router, http.MethodPost, "/paints", `{"brand":"A","name":"B"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = serve(router, http.MethodPost, "/paints", `{"brand":"C","name":"D"}`)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestCreate_ZuGrosserBody(t *testing.T) {
	_, router := neuerPaintHandler()
	big := `{"brand":"Citadel","name":"` + string(bytes.Repeat([]byte("x"), maxRequestBody)) + `"}`
	rec := serve(router, http.MethodPost, "/paints", big)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestCreate_DatenHinterDemObjekt(t *testing.T) {
	svc, router := neuerPaintHandler()
	for _, body := range []string{
		`{"brand":"A","name":"B"} xyz`,
		`{"brand":"A","name":"B"}{"brand":"C","name":"D"}`,
		`{"brand":"A","name":"B"}]`,
	} {
		rec := serve(router, http.MethodPost, "/paints", body)
		assert.Equal(t, http.StatusBadRequest, rec.Code, body)
	}
	assert.Len(t, svc.paints, 3)

	rec := serve(router, http.MethodPost, "/paints", "{\"brand\":\"A\",\"name\":\"B\"}\n  ")
	assert.Equal(t, http.StatusCreated, rec.Code)
}
