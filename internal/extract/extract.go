package extract

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"sync"
)

// ErrUnsupportedType is returned for file extensions with no extractor.
var ErrUnsupportedType = errors.New("unsupported document type")

// Extractor pulls plain text out of one document container format.
type Extractor interface {
	Extract(r io.ReaderAt, size int64) (string, error)
}

var (
	registryMu sync.RWMutex
	registry   = map[string]Extractor{}
)

func Register(ext string, e Extractor) {
	key := normalizeExt(ext)
	if key == "" || e == nil {
		return
	}
	registryMu.Lock()
	registry[key] = e
	registryMu.Unlock()
}

// Supported reports whether files named like name can be extracted.
func Supported(name string) bool {
	registryMu.RLock()
	defer registryMu.RUnlock()
	_, ok := registry[normalizeExt(filepath.Ext(name))]
	return ok
}

// Extract picks an extractor by the file extension of name and returns the
// document's plain text.
func Extract(name string, r io.ReaderAt, size int64) (string, error) {
	key := normalizeExt(filepath.Ext(name))
	registryMu.RLock()
	extractor := registry[key]
	registryMu.RUnlock()
	if extractor == nil {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedType, filepath.Ext(name))
	}
	text, err := extractor.Extract(r, size)
	if err != nil {
		return "", fmt.Errorf("extract %s: %w", key, err)
	}
	return text, nil
}

func normalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
}
