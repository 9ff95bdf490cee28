package colormatch

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"gonum.org/v1/gonum/floats"
)

// ErrInvalidColorFormat wird zurückgegeben, wenn eine Zeichenkette kein #RRGGBB-Hexwert ist.
var ErrInvalidColorFormat = errors.New("ungültiges farbformat")

var hexPattern = regexp.MustCompile(`^#?[0-9A-Fa-f]{6}$`)

// D65-Referenzweiß und Schwellwerte der sRGB- bzw. CIE-Lab-Umrechnung.
const (
	whiteX = 0.95047
	whiteY = 1.00000
	whiteZ = 1.08883

	srgbThreshold = 0.04045
	srgbLinearDiv = 12.92
	srgbOffset    = 0.055
	srgbGamma     = 2.4

	// (6/29)^3
	labEpsilon = 216.0 / 24389.0
	// 1 / (3 * (6/29)^2)
	labSlope  = 841.0 / 108.0
	labOffset = 4.0 / 29.0
)

// RGB ist eine sRGB-Farbe mit 8 Bit pro Kanal.
type RGB struct {
	R, G, B uint8
}

// Lab ist eine Farbe im CIE-L*a*b*-Raum (L*, a*, b*).
type Lab [3]float64

// ParseHex liest "#RRGGBB" oder "RRGGBB" ohne Rücksicht auf Groß-/Kleinschreibung.
func ParseHex(s string) (RGB, error) {
	if !hexPattern.MatchString(s) {
		return RGB{}, fmt.Errorf("%q: %w", s, ErrInvalidColorFormat)
	}
	v, err := strconv.ParseUint(strings.TrimPrefix(s, "#"), 16, 32)
	if err != nil {
		return RGB{}, fmt.Errorf("%q: %w", s, ErrInvalidColorFormat)
	}
	return RGB{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v)}, nil
}

// ValidHex meldet, ob s ein gültiger Hex-Farbwert ist.
func ValidHex(s string) bool {
	return hexPattern.MatchString(s)
}

// Normalize bringt einen Hex-Farbwert in die kanonische Form "#rrggbb".
func Normalize(s string) (string, error) {
	c, err := ParseHex(s)
	if err != nil {
		return "", err
	}
	return c.Hex(), nil
}

// Hex gibt die Farbe als "#rrggbb" zurück.
func (c RGB) Hex() string {
	return colorful.Color{
		R: float64(c.R) / 255,
		G: float64(c.G) / 255,
		B: float64(c.B) / 255,
	}.Hex()
}

// Lab rechnet die Farbe über lineares RGB und CIE XYZ (D65) nach CIE L*a*b* um.
func (c RGB) Lab() Lab {
	r := linearize(float64(c.R) / 255)
	g := linearize(float64(c.G) / 255)
	b := linearize(float64(c.B) / 255)

	// sRGB-Primärvalenzen, Referenzweiß D65
	x := 0.4124564*r + 0.3575761*g + 0.1804375*b
	y := 0.2126729*r + 0.7151522*g + 0.0721750*b
	z := 0.0193339*r + 0.1191920*g + 0.9503041*b

	fx := labF(x / whiteX)
	fy := labF(y / whiteY)
	fz := labF(z / whiteZ)

	return Lab{
		116*fy - 16,
		500 * (fx - fy),
		200 * (fy - fz),
	}
}

func linearize(c float64) float64 {
	if c <= srgbThreshold {
		return c / srgbLinearDiv
	}
	return math.Pow((c+srgbOffset)/(1+srgbOffset), srgbGamma)
}

func labF(t float64) float64 {
	if t > labEpsilon {
		return math.Cbrt(t)
	}
	return t*labSlope + labOffset
}

// DeltaE76 ist der euklidische Abstand zweier Farben im Lab-Raum (CIE76).
func DeltaE76(a, b Lab) float64 {
	return floats.Distance(a[:], b[:], 2)
}
