// Package source fetches the raw observation CSV from a file, an HTTP(S)
// URL, or an S3 object.
package source

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strings"
	"time"
)

// Fetcher returns the raw bytes of the CSV resource.
type Fetcher interface {
	Fetch(ctx context.Context) ([]byte, error)
}

// Options configures the fetcher selected by [New].
type Options struct {
	Timeout    time.Duration // HTTP fetches only
	S3Endpoint string        // custom endpoint for MinIO compatibility
	Logger     *slog.Logger
}

// New selects a fetcher by the scheme of location: "http" and "https" URLs
// are fetched over HTTP, "s3://bucket/key" from S3, and anything else is read
// as a local file path.
func New(ctx context.Context, location string, opts Options) (Fetcher, error) {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	u, err := url.Parse(location)
	if err != nil || u.Scheme == "" || len(u.Scheme) == 1 {
		// Single-letter schemes are Windows drive letters.
		return NewFile(location), nil
	}

	switch strings.ToLower(u.Scheme) {
	case "http", "https":
		return NewHTTP(location, opts.Timeout, opts.Logger), nil
	case "s3":
		key := strings.TrimPrefix(u.Path, "/")
		if u.Host == "" || key == "" {
			return nil, fmt.Errorf("invalid s3 location %q: want s3://bucket/key", location)
		}
		return NewS3(ctx, S3Options{Bucket: u.Host, Key: key, Endpoint: opts.S3Endpoint})
	case "file":
		return NewFile(u.Path), nil
	default:
		return nil, fmt.Errorf("unsupported csv source scheme %q", u.Scheme)
	}
}

// File reads the CSV from the local filesystem.
type File struct {
	path string
}

// NewFile creates a fetcher for a local path.
func NewFile(path string) *File {
	return &File{path: path}
}

func (f *File) Fetch(_ context.Context) ([]byte, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		return nil, fmt.Errorf("read csv file: %w", err)
	}
	return data, nil
}
