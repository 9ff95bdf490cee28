package colormatch

import (
	"fmt"
	"math/rand"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testPaint struct {
	brand string
	name  string
	color string
}

func (p testPaint) Label() string { return p.brand }
func (p testPaint) Hex() string   { return p.color }

func testKatalog() []testPaint {
	return []testPaint{
		{brand: "Citadel", name: "Macragge Blue", color: "#1f2e63"},
		{brand: "Citadel", name: "Mephiston Red", color: "#7e1719"},
		{brand: "Vallejo", name: "Ultramarine Blue", color: "#2a3f8f"},
		{brand: "Vallejo", name: "Ohne Farbe", color: ""},
		{brand: "Army Painter", name: "Kaputt", color: "#zzzzzz"},
		{brand: "Army Painter", name: "Crystal Blue", color: "3B82F6"},
		{brand: "Citadel", name: "Abaddon Black", color: "#000000"},
	}
}

func names(results []Result[testPaint]) []string {
	out := make([]string, 0, len(results))
	for _, r := range results {
		out = append(out, r.Entry.name)
	}
	return out
}

func TestFindMatches_BeispielBlau(t *testing.T) {
	catalog := []testPaint{
		{brand: "Citadel", name: "Macragge Blue", color: "#1f2e63"},
		{brand: "Citadel", name: "Mephiston Red", color: "#7e1719"},
	}

	top1, err := FindMatches("#3b82f6", catalog, 1, "")
	require.NoError(t, err)
	require.Len(t, top1, 1)
	assert.Equal(t, "Macragge Blue", top1[0].Entry.name)
	assert.Greater(t, top1[0].Quality, 50.0)

	top2, err := FindMatches("#3b82f6", catalog, 2, "")
	require.NoError(t, err)
	require.Len(t, top2, 2)
	assert.Equal(t, []string{"Macragge Blue", "Mephiston Red"}, names(top2))
	assert.Greater(t, top2[1].Distance, top2[0].Distance*1.5)
}

func TestFindMatches_LeererKatalog(t *testing.T) {
	for _, k := range []int{0, 1, 10} {
		got, err := FindMatches("#3b82f6", []testPaint{}, k, "")
		require.NoError(t, err)
		assert.NotNil(t, got)
		assert.Empty(t, got)

		got, err = FindMatches[testPaint]("#3b82f6", nil, k, "")
		require.NoError(t, err)
		assert.NotNil(t, got)
		assert.Empty(t, got)
	}
}

func TestFindMatches_Ergebnislaenge(t *testing.T) {
	// 5 der 7 Einträge haben eine gültige Farbe
	tests := []struct {
		topK    int
		wantLen int
	}{
		{topK: 1, wantLen: 1},
		{topK: 3, wantLen: 3},
		{topK: 5, wantLen: 5},
		{topK: 7, wantLen: 5},
		{topK: 100, wantLen: 5},
		{topK: 0, wantLen: 0},
		{topK: -1, wantLen: 0},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("topK=%d", tt.topK), func(t *testing.T) {
			got, err := FindMatches("#808080", testKatalog(), tt.topK, "")
			require.NoError(t, err)
			assert.Len(t, got, tt.wantLen)
		})
	}
}

func TestFindMatches_IdentischeFarbe(t *testing.T) {
	for _, target := range []string{"#3b82f6", "3b82f6", "#3B82F6", "3B82F6"} {
		t.Run(target, func(t *testing.T) {
			got, err := FindMatches(target, testKatalog(), 1, "")
			require.NoError(t, err)
			require.Len(t, got, 1)
			assert.Equal(t, "Crystal Blue", got[0].Entry.name)
			assert.Equal(t, 0.0, got[0].Distance)
			assert.Equal(t, 100.0, got[0].Quality)
		})
	}
}

func TestFindMatches_Sortierung(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	catalog := make([]testPaint, 0, 200)
	for i := range 200 {
		catalog = append(catalog, testPaint{
			brand: "Zufall",
			name:  fmt.Sprintf("farbe-%d", i),
			color: fmt.Sprintf("#%06x", rng.Intn(1<<24)),
		})
	}

	got, err := FindMatches("#a05020", catalog, len(catalog), "")
	require.NoError(t, err)
	require.Len(t, got, len(catalog))
	for i := 1; i < len(got); i++ {
		assert.LessOrEqual(t, got[i-1].Distance, got[i].Distance)
		assert.GreaterOrEqual(t, got[i-1].Quality, got[i].Quality)
	}
}

func TestFindMatches_GleicheAbstaendeBehaltenKatalogreihenfolge(t *testing.T) {
	catalog := []testPaint{
		{brand: "A", name: "erste", color: "#102030"},
		{brand: "B", name: "zweite", color: "#102030"},
		{brand: "C", name: "nah", color: "#3b82f5"},
		{brand: "D", name: "dritte", color: "#102030"},
	}

	got, err := FindMatches("#3b82f6", catalog, 4, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"nah", "erste", "zweite", "dritte"}, names(got))
}

func TestFindMatches_Markenfilter(t *testing.T) {
	tests := []struct {
		name      string
		filter    string
		wantNames []string
	}{
		{name: "citadel", filter: "Citadel", wantNames: []string{"Macragge Blue", "Abaddon Black", "Mephiston Red"}},
		{name: "vallejo ohne farbe wird übersprungen", filter: "Vallejo", wantNames: []string{"Ultramarine Blue"}},
		{name: "groß-/kleinschreibung zählt", filter: "citadel", wantNames: []string{}},
		{name: "unbekannte marke", filter: "Games Workshop", wantNames: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FindMatches("#1f2e63", testKatalog(), 10, tt.filter)
			require.NoError(t, err)
			assert.Equal(t, tt.wantNames, names(got))
			for _, r := range got {
				assert.Equal(t, tt.filter, r.Entry.brand)
			}
		})
	}
}

func TestFindMatches_UngueltigesZiel(t *testing.T) {
	for _, target := range []string{"notacolor", "#12", "", "#12345", "rgb(1,2,3)"} {
		t.Run(target, func(t *testing.T) {
			got, err := FindMatches(target, testKatalog(), 5, "")
			require.ErrorIs(t, err, ErrInvalidColorFormat)
			assert.Nil(t, got)
		})
	}
}

func TestFindMatches_UngueltigeKandidatenNieImErgebnis(t *testing.T) {
	for _, k := range []int{1, 5, 50} {
		got, err := FindMatches("#000000", testKatalog(), k, "")
		require.NoError(t, err)
		for _, r := range got {
			assert.True(t, ValidHex(r.Entry.color), r.Entry.name)
			assert.NotEqual(t, "Ohne Farbe", r.Entry.name)
			assert.NotEqual(t, "Kaputt", r.Entry.name)
		}
	}
}

func TestFindMatches_Deterministisch(t *testing.T) {
	a, err := FindMatches("#556b2f", testKatalog(), 5, "")
	require.NoError(t, err)
	b, err := FindMatches("#556b2f", testKatalog(), 5, "")
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("%#v", a), fmt.Sprintf("%#v", b))
}

func TestFindMatches_NebenlaeufigAufGemeinsamemKatalog(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	catalog := make([]testPaint, 0, 500)
	for i := range 500 {
		catalog = append(catalog, testPaint{
			brand: []string{"Citadel", "Vallejo", "Army Painter"}[i%3],
			name:  fmt.Sprintf("farbe-%d", i),
			color: fmt.Sprintf("#%06x", rng.Intn(1<<24)),
		})
	}
	targets := []string{"#3b82f6", "#7e1719", "#000000", "#ffffff", "#556b2f", "#c39e54", "#1f2e63", "#808080"}

	want := make([][]Result[testPaint], len(targets))
	for i, target := range targets {
		r, err := FindMatches(target, catalog, 10, "Vallejo")
		require.NoError(t, err)
		want[i] = r
	}

	const workers = 16
	got := make([][][]Result[testPaint], workers)
	errs := make([]error, workers)
	var wg sync.WaitGroup
	for w := range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got[w] = make([][]Result[testPaint], len(targets))
			for i, target := range targets {
				r, err := FindMatches(target, catalog, 10, "Vallejo")
				if err != nil {
					errs[w] = err
					return
				}
				got[w][i] = r
			}
		}()
	}
	wg.Wait()

	for w := range workers {
		require.NoError(t, errs[w])
		assert.Equal(t, want, got[w], "worker %d", w)
	}
}

func TestFindMatches_KatalogBleibtUnveraendert(t *testing.T) {
	catalog := testKatalog()
	before := fmt.Sprintf("%v", catalog)

	_, err := FindMatches("#ffffff", catalog, 3, "")
	require.NoError(t, err)
	assert.Equal(t, before, fmt.Sprintf("%v", catalog))
}

func TestSkipped(t *testing.T) {
	assert.Equal(t, 2, Skipped(testKatalog(), ""))
	assert.Equal(t, 1, Skipped(testKatalog(), "Vallejo"))
	assert.Equal(t, 1, Skipped(testKatalog(), "Army Painter"))
	assert.Equal(t, 0, Skipped(testKatalog(), "Citadel"))
}

func TestQuality(t *testing.T) {
	tests := []struct {
		distance float64
		want     float64
	}{
		{0, 100},
		{1.5, 98.5},
		{2, 98},
		{5, 95},
		{10, 90},
		{47.5, 52.5},
		{100, 0},
		{250, 0},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.distance), func(t *testing.T) {
			assert.InDelta(t, tt.want, Quality(tt.distance), 1e-12)
		})
	}
}

func TestQuality_MonotonUndBegrenzt(t *testing.T) {
	prev := Quality(0)
	assert.Equal(t, 100.0, prev)
	for d := 0.25; d <= 300; d += 0.25 {
		q := Quality(d)
		assert.LessOrEqual(t, q, prev)
		assert.GreaterOrEqual(t, q, 0.0)
		assert.LessOrEqual(t, q, 100.0)
		prev = q
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		distance float64
		want     Band
	}{
		{0, BandImperceptible},
		{1.99, BandImperceptible},
		{2, BandExcellent},
		{4.99, BandExcellent},
		{5, BandGood},
		{9.99, BandGood},
		{10, BandFair},
		{80, BandFair},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.distance), func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.distance))
		})
	}
}
