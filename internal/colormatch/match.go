// Package colormatch sucht zu einer Zielfarbe die wahrnehmungsmäßig ähnlichsten Einträge
// eines Farbkatalogs. Abstände werden als CIE76-Delta-E im L*a*b*-Raum berechnet.
//
// Alle Funktionen sind zustandslos und dürfen nebenläufig aufgerufen werden.
package colormatch

import (
	"cmp"
	"slices"
)

// Band ist die qualitative Einordnung eines Delta-E-Abstands.
type Band string

const (
	BandImperceptible Band = "imperceptible"
	BandExcellent     Band = "excellent"
	BandGood          Band = "good"
	BandFair          Band = "fair"
)

// Entry ist ein Katalogeintrag, der mit einer Zielfarbe verglichen werden kann.
// Label liefert Marke bzw. Kategorie, Hex den eigenen Farbwert (leer, wenn keiner hinterlegt ist).
type Entry interface {
	Label() string
	Hex() string
}

// Result ist ein Treffer mit Abstand zur Zielfarbe und Übereinstimmung in Prozent.
type Result[E Entry] struct {
	Entry    E
	Distance float64
	Quality  float64
}

// Quality bildet einen Delta-E-Abstand auf eine Übereinstimmung in [0, 100] ab.
// Abstand 0 ergibt genau 100, jede Einheit Delta-E kostet einen Prozentpunkt.
func Quality(distance float64) float64 {
	return max(0, min(100, 100-distance))
}

// Classify ordnet einen Abstand einem Band zu.
func Classify(distance float64) Band {
	switch {
	case distance < 2:
		return BandImperceptible
	case distance < 5:
		return BandExcellent
	case distance < 10:
		return BandGood
	default:
		return BandFair
	}
}

// FindMatches vergleicht target mit allen Einträgen aus catalog und gibt die topK nächsten
// aufsteigend nach Abstand zurück. Gleiche Abstände behalten die Katalogreihenfolge.
//
// Ist brandFilter nicht leer, werden nur Einträge mit exakt diesem Label berücksichtigt.
// Einträge ohne oder mit ungültigem Farbwert werden übersprungen. Ein ungültiges target
// liefert ErrInvalidColorFormat, bevor irgendein Vergleich stattfindet.
func FindMatches[E Entry](target string, catalog []E, topK int, brandFilter string) ([]Result[E], error) {
	rgb, err := ParseHex(target)
	if err != nil {
		return nil, err
	}
	ref := rgb.Lab()

	out := make([]Result[E], 0, len(catalog))
	for _, e := range catalog {
		if !inFilter(e, brandFilter) {
			continue
		}
		c, err := ParseHex(e.Hex())
		if err != nil {
			continue
		}
		d := DeltaE76(ref, c.Lab())
		out = append(out, Result[E]{Entry: e, Distance: d, Quality: Quality(d)})
	}

	slices.SortStableFunc(out, func(a, b Result[E]) int {
		return cmp.Compare(a.Distance, b.Distance)
	})

	if topK < 0 {
		topK = 0
	}
	if len(out) > topK {
		out = out[:topK]
	}
	return out, nil
}

// Skipped zählt die Einträge im gefilterten Katalog, die mangels gültiger Farbe nicht verglichen werden können.
func Skipped[E Entry](catalog []E, brandFilter string) int {
	n := 0
	for _, e := range catalog {
		if inFilter(e, brandFilter) && !ValidHex(e.Hex()) {
			n++
		}
	}
	return n
}

func inFilter(e Entry, brandFilter string) bool {
	return brandFilter == "" || e.Label() == brandFilter
}
