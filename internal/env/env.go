package env

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config enthält alle konfigurierbaren Werte der Anwendung, die über Umgebungsvariablen gesetzt werden können.
type Config struct {
	ServerAddr      string  // SERVER_ADDR – Adresse des HTTP-Servers (Standard: ":8081")
	DataSource      string  // DATA_SOURCE – "csv", "sqlite", "postgres" oder "s3" (Standard: "csv")
	CatalogFilePath string  // CATALOG_FILE_PATH – Pfad zur Katalog-CSV (Standard: "paints.csv")
	SQLiteDSN       string  // SQLITE_DSN – DSN der SQLite-Datenbank (Standard: ":memory:")
	PostgresDSN     string  // POSTGRES_DSN – Verbindungszeichenfolge für PostgreSQL
	RateLimit       float64 // RATE_LIMIT – Erlaubte Anfragen pro Sekunde und Client (Standard: 100)
	MaxPaints       int     // MAX_PAINTS – Max. Anzahl Farben im Katalog (Standard: 10000)
	S3              S3
}

// S3 beschreibt den Bucket, aus dem der Katalog bei DATA_SOURCE=s3 geladen wird.
type S3 struct {
	Endpoint   string // S3_ENDPOINT
	Region     string // S3_REGION
	Bucket     string // S3_BUCKET
	AccessKey  string // S3_ACCESS_KEY
	SecretKey  string // S3_SECRET_KEY
	UseSSL     bool   // S3_USE_SSL (Standard: true)
	CatalogKey string // S3_CATALOG_KEY (Standard: "paints.csv")
	MaxBytes   int    // S3_MAX_OBJECT_BYTES – Größenbegrenzung des Katalogobjekts (Standard: 32 MiB)
}

// MustLoad liest die Konfiguration aus Umgebungsvariablen. Eine .env-Datei im
// Arbeitsverzeichnis wird vorher geladen, überschreibt aber keine gesetzten Variablen.
func MustLoad() Config {
	_ = godotenv.Load()

	return Config{
		ServerAddr:      getOr("SERVER_ADDR", ":8081"),
		DataSource:      getOr("DATA_SOURCE", "csv"),
		CatalogFilePath: getOr("CATALOG_FILE_PATH", "paints.csv"),
		SQLiteDSN:       getOr("SQLITE_DSN", ":memory:"),
		PostgresDSN:     getOr("POSTGRES_DSN", ""),
		RateLimit:       getFloatOr("RATE_LIMIT", 100),
		MaxPaints:       getIntOr("MAX_PAINTS", 10_000),
		S3: S3{
			Endpoint:   getOr("S3_ENDPOINT", ""),
			Region:     getOr("S3_REGION", ""),
			Bucket:     getOr("S3_BUCKET", ""),
			AccessKey:  getOr("S3_ACCESS_KEY", ""),
			SecretKey:  getOr("S3_SECRET_KEY", ""),
			UseSSL:     getBoolOr("S3_USE_SSL", true),
			CatalogKey: getOr("S3_CATALOG_KEY", "paints.csv"),
			MaxBytes:   getIntOr("S3_MAX_OBJECT_BYTES", 32<<20),
		},
	}
}

func getOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getIntOr(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getFloatOr(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getBoolOr(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}
