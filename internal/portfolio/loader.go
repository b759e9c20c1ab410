// Package portfolio loads the portfolio owner's markdown document that
// grounds every answer.
package portfolio

import (
	"context"
	"fmt"
	"os"
)

// Loader reads the portfolio document. Implementations must return the
// full markdown text or an error; the relay fails the whole request on
// an unreadable document.
type Loader interface {
	Load(ctx context.Context) (string, error)
}

// FileLoader reads the document from the local filesystem on every call.
type FileLoader struct {
	path string
}

func NewFileLoader(path string) *FileLoader {
	return &FileLoader{path: path}
}

func (l *FileLoader) Load(ctx context.Context) (string, error) {
	data, err := os.ReadFile(l.path)
	if err != nil {
		return "", fmt.Errorf("read portfolio document %s: %w", l.path, err)
	}
	return string(data), nil
}
