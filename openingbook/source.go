package openingbook

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"

	"gemduel/meta"
)

// maxBookSize bounds how much of a remote book is read.
const maxBookSize = 8 << 20

// Source fetches the raw opening book document.
type Source interface {
	Load(ctx context.Context) ([]byte, error)
}

type FileSource struct {
	Path string
}

func (s FileSource) Load(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to read opening book: %w", err)
	}
	return data, nil
}

type HTTPSource struct {
	URL    string
	Client *http.Client // http.DefaultClient when nil
}

func (s HTTPSource) Load(ctx context.Context) ([]byte, error) {
	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build opening book request: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch opening book: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("failed to fetch opening book: %s returned status %d", s.URL, resp.StatusCode)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBookSize))
	if err != nil {
		return nil, fmt.Errorf("failed to read opening book response: %w", err)
	}
	return data, nil
}

// SourceFor fetches over HTTP when a book URL is configured and reads the
// local file otherwise.
func SourceFor(cfg meta.Config) Source {
	if cfg.BookURL != "" {
		return HTTPSource{URL: cfg.BookURL}
	}
	return FileSource{Path: cfg.BookPath}
}
