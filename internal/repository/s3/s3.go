// Package s3 lädt den Farbkatalog als CSV-Objekt aus einem S3-kompatiblen Bucket.
package s3

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"

	csvrepo "paint-matcher/internal/repository/csv"
)

// DefaultMaxObjectSize begrenzt die Größe des Katalogobjekts, wenn Config.MaxObjectSize 0 ist.
const DefaultMaxObjectSize = 32 << 20

// ErrObjectTooLarge wird zurückgegeben, wenn das Objekt die Größenbegrenzung überschreitet.
var ErrObjectTooLarge = errors.New("objekt zu groß")

// Config enthält die Zugangsdaten zum Bucket.
type Config struct {
	Endpoint      string
	Region        string
	Bucket        string
	AccessKey     string
	SecretKey     string
	UseSSL        bool
	MaxObjectSize int64 // Bytes; 0 bedeutet DefaultMaxObjectSize
}

// Downloader lädt ein Objekt vollständig herunter. In Tests wird er durch ein Double ersetzt.
type Downloader interface {
	Download(ctx context.Context, key string) ([]byte, error)
}

// Client ist ein schmaler Wrapper um minio.Client für genau einen Bucket.
type Client struct {
	api     *minio.Client
	bucket  string
	maxSize int64
}

var _ Downloader = (*Client)(nil)

// NewClient erstellt einen Client für cfg.Bucket.
func NewClient(cfg Config) (*Client, error) {
	api, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("s3-client erstellen: %w", err)
	}
	maxSize := cfg.MaxObjectSize
	if maxSize <= 0 {
		maxSize = DefaultMaxObjectSize
	}
	return &Client{api: api, bucket: cfg.Bucket, maxSize: maxSize}, nil
}

// Download liest das Objekt key in den Speicher.
func (c *Client) Download(ctx context.Context, key string) ([]byte, error) {
	obj, err := c.api.GetObject(ctx, c.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("objekt %s abrufen: %w", key, err)
	}
	defer obj.Close()

	data, err := readLimited(obj, c.maxSize)
	if err != nil {
		return nil, fmt.Errorf("objekt %s lesen: %w", key, err)
	}
	return data, nil
}

// readLimited liest höchstens limit Bytes aus r. Ist mehr vorhanden, gibt es ErrObjectTooLarge zurück.
func readLimited(r io.Reader, limit int64) ([]byte, error) {
	buf := new(bytes.Buffer)
	n, err := io.Copy(buf, io.LimitReader(r, limit+1))
	if err != nil {
		return nil, err
	}
	if n > limit {
		return nil, fmt.Errorf("mehr als %d bytes: %w", limit, ErrObjectTooLarge)
	}
	return buf.Bytes(), nil
}

// NewPaintRepository lädt das Katalogobjekt key und baut daraus ein In-Memory-Repository.
func NewPaintRepository(ctx context.Context, d Downloader, key string, maxPaints int, logger *zap.Logger) (*csvrepo.PaintRepository, error) {
	data, err := d.Download(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("s3-katalog: %w", err)
	}
	logger.Info("katalog aus s3 geladen",
		zap.String("key", key),
		zap.Int("bytes", len(data)),
	)
	return csvrepo.NewPaintRepositoryFromReader(bytes.NewReader(data), "s3://"+key, maxPaints, logger)
}
