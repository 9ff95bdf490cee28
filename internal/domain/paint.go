package domain

import "errors"

var (
	ErrNotFound        = errors.New("nicht gefunden")
	ErrInvalidInput    = errors.New("ungültige eingabe")
	ErrInvalidColor    = errors.New("ungültiger farbwert")
	ErrCapacityReached = errors.New("kapazitätsgrenze erreicht")
)

// Paint ist eine Farbe aus dem Katalog, z. B. ein Topf "Macragge Blue" von Citadel.
// ColorHex ist leer, wenn für die Farbe kein Hexwert hinterlegt ist.
type Paint struct {
	ID       string `json:"id"`
	Brand    string `json:"brand"`
	Name     string `json:"name"`
	ColorHex string `json:"color_hex,omitempty"`
	Type     string `json:"type,omitempty"`
}

// Label liefert die Marke; damit erfüllt Paint colormatch.Entry.
func (p Paint) Label() string { return p.Brand }

// Hex liefert den hinterlegten Farbwert.
func (p Paint) Hex() string { return p.ColorHex }

// Match ist ein Treffer des Farbabgleichs, wie er über die API ausgeliefert wird.
type Match struct {
	Paint      Paint   `json:"entry"`
	Distance   float64 `json:"distance"`
	Percentage float64 `json:"percentage"`
	Band       string  `json:"band"`
}
