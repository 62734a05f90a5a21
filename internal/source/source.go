package source

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/salesboard/salesboard/internal/core/sales"
)

var (
	// ErrMissingColumn is returned when a source lacks one of the schema columns.
	ErrMissingColumn = errors.New("missing column")

	// ErrMalformed is returned when a source row cannot be converted to a record.
	ErrMalformed = errors.New("malformed source data")
)

// Source kinds accepted in configuration.
const (
	KindHTTP     = "http"
	KindFile     = "file"
	KindPostgres = "postgres"
	KindSQLite   = "sqlite"
	KindMySQL    = "mysql"
)

// Source reads one tabular source into records.
type Source interface {
	// Name identifies the source in logs and load metadata.
	Name() string

	// Fetch reads every row. It returns an error rather than a partial result.
	Fetch(ctx context.Context) ([]sales.Record, error)
}

// Spec describes one configured source.
type Spec struct {
	Name     string
	Kind     string
	Location string // URL, file path or DSN depending on Kind
	Table    string // SQL kinds only
}

// Options tune the network behavior of HTTP sources.
type Options struct {
	RequestTimeout time.Duration
	MaxTries       uint
	MaxBodyBytes   int64
	Client         *http.Client
}

// New builds the source described by spec.
func New(spec Spec, opts Options) (Source, error) {
	switch spec.Kind {
	case KindHTTP, "":
		client := opts.Client
		if client == nil {
			client = &http.Client{Timeout: opts.RequestTimeout}
		}
		return NewHTTPSource(spec.Name, spec.Location, client, opts.MaxTries, opts.MaxBodyBytes), nil
	case KindFile:
		return NewFileSource(spec.Name, spec.Location), nil
	case KindPostgres, KindSQLite, KindMySQL:
		return OpenSQLSource(spec.Name, spec.Kind, spec.Location, spec.Table)
	}
	return nil, fmt.Errorf("source %q: unsupported kind %q", spec.Name, spec.Kind)
}
