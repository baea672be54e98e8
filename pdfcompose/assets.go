package pdfcompose

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Loader fetches branding assets (logo, flag, ministry seal) by name. A
// failed load aborts the whole composition upstream; the pipeline never
// draws a partial page.
type Loader interface {
	Load(ctx context.Context, name string) ([]byte, error)
}

// FileLoader resolves plain names against a local directory and passes
// http(s) URLs through to a remote fetch.
type FileLoader struct {
	Dir    string
	Client *http.Client
}

func NewFileLoader(dir string) *FileLoader {
	return &FileLoader{
		Dir:    dir,
		Client: &http.Client{Timeout: 10 * time.Second},
	}
}

func (l *FileLoader) Load(ctx context.Context, name string) ([]byte, error) {
	if name == "" {
		return nil, fmt.Errorf("empty asset name")
	}
	if strings.HasPrefix(name, "http://") || strings.HasPrefix(name, "https://") {
		return l.fetch(ctx, name)
	}
	data, err := os.ReadFile(filepath.Join(l.Dir, name))
	if err != nil {
		return nil, fmt.Errorf("load asset %s: %w", name, err)
	}
	return data, nil
}

func (l *FileLoader) fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("fetch asset %s: %w", url, err)
	}
	resp, err := l.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch asset %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch asset %s: status %d", url, resp.StatusCode)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("fetch asset %s: %w", url, err)
	}
	return data, nil
}
