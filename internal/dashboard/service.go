package dashboard

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	coreagg "github.com/salesboard/salesboard/internal/core/aggregation"
	"github.com/salesboard/salesboard/internal/core/sales"
	"github.com/salesboard/salesboard/internal/render"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
)

var (
	// ErrInvalidQuery marks request validation errors that should return HTTP 400.
	ErrInvalidQuery = errors.New("invalid dashboard query")

	// ErrDataUnavailable marks a failed table load.
	ErrDataUnavailable = errors.New("sales data unavailable")
)

// TableProvider yields the loaded sales table.
type TableProvider interface {
	Table(ctx context.Context) (*sales.Table, error)
}

// Settings tune view sizes and display.
type Settings struct {
	TopN          int
	HistogramBins int
	WeekdayOrder  []string
	Currency      string
}

// Service builds the tab views and panel results.
// Every call reads the same immutable table; nothing is cached per request.
type Service struct {
	tables   TableProvider
	panels   coreagg.PanelRepository
	settings Settings
	format   *render.Formatter
}

// NewService creates a new dashboard service.
func NewService(tables TableProvider, panels coreagg.PanelRepository, settings Settings) *Service {
	if settings.TopN <= 0 {
		settings.TopN = 10
	}
	if settings.HistogramBins <= 0 {
		settings.HistogramBins = 30
	}
	if len(settings.WeekdayOrder) == 0 {
		settings.WeekdayOrder = sales.WeekdayOrder
	}
	if settings.Currency == "" {
		settings.Currency = "USD"
	}
	if panels == nil {
		panels = coreagg.NewPanelRepository(nil)
	}

	return &Service{
		tables:   tables,
		panels:   panels,
		settings: settings,
		format:   render.NewFormatter(language.English, settings.Currency),
	}
}

func (s *Service) table(ctx context.Context) (*sales.Table, error) {
	t, err := s.tables.Table(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDataUnavailable, err)
	}
	return t, nil
}

// StoreOptions lists the store numbers in ascending order.
func (s *Service) StoreOptions(ctx context.Context) (*Options, error) {
	return s.options(ctx, sales.ColStoreNbr)
}

// StateOptions lists the state names in ascending order.
func (s *Service) StateOptions(ctx context.Context) (*Options, error) {
	return s.options(ctx, sales.ColState)
}

func (s *Service) options(ctx context.Context, c sales.Column) (*Options, error) {
	t, err := s.table(ctx)
	if err != nil {
		return nil, err
	}
	values := coreagg.DistinctValues(t, c)
	if values == nil {
		values = []string{}
	}
	return &Options{Column: string(c), Values: values}, nil
}

// Panels lists the configured panels.
func (s *Service) Panels(ctx context.Context) ([]coreagg.Panel, error) {
	return s.panels.List(ctx)
}

// Panel evaluates the named panel. A selector for a numeric column must parse
// as a number; a selector absent from the table yields no rows.
func (s *Service) Panel(ctx context.Context, name, selector string) (*PanelResult, error) {
	panel, err := s.panels.Get(ctx, name)
	if err != nil {
		return nil, err
	}

	selector = strings.TrimSpace(selector)
	if selector != "" {
		if panel.Selector == "" {
			return nil, invalidQueryf("panel %s does not accept a selector", name)
		}
		if selector, err = normalizeSelector(panel.Selector, selector); err != nil {
			return nil, err
		}
	}

	t, err := s.table(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := panel.Evaluate(t, selector, s.settings.WeekdayOrder)
	if err != nil {
		return nil, fmt.Errorf("evaluate panel %s: %w", name, err)
	}

	return &PanelResult{Panel: *panel, Selector: selector, Rows: rows}, nil
}

// normalizeSelector validates value for column c and returns its canonical
// form, the one Record.Dimension produces ("007" -> "7" for store_nbr).
func normalizeSelector(c sales.Column, value string) (string, error) {
	if !sales.IsNumeric(c) {
		return value, nil
	}
	d, err := decimal.NewFromString(value)
	if err != nil {
		return "", invalidQueryf("%s must be numeric, got %q", c, value)
	}
	if c != sales.ColSales && !d.IsInteger() {
		return "", invalidQueryf("%s must be an integer, got %q", c, value)
	}
	return d.String(), nil
}

func parseStoreNbr(value string) (string, error) {
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return "", invalidQueryf("store_nbr must be an integer, got %q", value)
	}
	return strconv.Itoa(n), nil
}

func invalidQueryf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidQuery, fmt.Sprintf(format, args...))
}
