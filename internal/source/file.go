package source

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/salesboard/salesboard/internal/core/sales"
)

// FileSource reads a local CSV file.
type FileSource struct {
	name string
	path string
}

func NewFileSource(name, path string) *FileSource {
	return &FileSource{name: name, path: path}
}

func (s *FileSource) Name() string { return s.name }

func (s *FileSource) Fetch(ctx context.Context) ([]sales.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("source %q: %w", s.name, err)
	}
	defer f.Close()

	records, err := ParseCSV(f)
	if err != nil {
		return nil, fmt.Errorf("source %q: %s: %w", s.name, s.path, err)
	}

	slog.Info("[Source] Read local CSV", "source", s.name, "path", s.path, "rows", len(records))
	return records, nil
}
