package aggregation

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/salesboard/salesboard/internal/core/sales"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// ErrPanelNotFound is returned when a panel name is not registered.
var ErrPanelNotFound = errors.New("panel not found")

// Sort modes for panel results.
const (
	SortValueDesc = "value_desc"
	SortValueAsc  = "value_asc"
	SortKey       = "key"
	SortWeekday   = "weekday"
	SortNone      = "none"
)

// Panel is a declarative aggregation: group, reduce, sort, limit.
// Panels are loaded at startup from YAML files and fingerprinted.
type Panel struct {
	Name        string       `json:"name"`
	Title       string       `json:"title"`
	Operator    string       `json:"operator"`
	GroupBy     sales.Column `json:"group_by"`
	Measure     sales.Column `json:"measure"`
	Limit       int          `json:"limit"`
	Sort        string       `json:"sort"`
	Where       *Condition   `json:"where,omitempty"`
	Selector    sales.Column `json:"selector,omitempty"` // column a request may filter on
	Visualize   string       `json:"visualize"`
	Fingerprint string       `json:"fingerprint"` // SHA-256 of the raw YAML file
}

// Condition is a single-column row filter.
type Condition struct {
	Column sales.Column `json:"column" yaml:"column"`
	Op     string       `json:"op" yaml:"op"` // eq, ne, gt, gte, lt, lte
	Value  string       `json:"value" yaml:"value"`
}

// rawPanel is the on-disk YAML shape.
type rawPanel struct {
	Name      string     `yaml:"name"`
	Title     string     `yaml:"title"`
	Operator  string     `yaml:"operator"`
	GroupBy   string     `yaml:"group_by"`
	Measure   string     `yaml:"measure"`
	Limit     int        `yaml:"limit"`
	Sort      string     `yaml:"sort"`
	Where     *Condition `yaml:"where"`
	Selector  string     `yaml:"selector"`
	Visualize string     `yaml:"visualize"`
}

// Predicate compiles the condition into a row predicate.
// Ordering comparisons are numeric and require a numeric column.
func (c Condition) Predicate() (sales.Predicate, error) {
	if !sales.ValidColumn(c.Column) {
		return nil, fmt.Errorf("unknown column %q", c.Column)
	}

	switch c.Op {
	case "eq":
		return sales.Equals(c.Column, c.Value), nil
	case "ne":
		eq := sales.Equals(c.Column, c.Value)
		return func(r sales.Record) bool {
			_, ok := r.Dimension(c.Column)
			return ok && !eq(r)
		}, nil
	case "gt", "gte", "lt", "lte":
	default:
		return nil, fmt.Errorf("unsupported condition op %q", c.Op)
	}

	if !sales.IsNumeric(c.Column) {
		return nil, fmt.Errorf("op %q needs a numeric column, %q is not", c.Op, c.Column)
	}
	want, err := decimal.NewFromString(c.Value)
	if err != nil {
		return nil, fmt.Errorf("condition value %q is not numeric: %w", c.Value, err)
	}

	op := c.Op
	return func(r sales.Record) bool {
		raw, ok := r.Dimension(c.Column)
		if !ok {
			return false
		}
		got, err := decimal.NewFromString(raw)
		if err != nil {
			return false
		}
		cmp := got.Cmp(want)
		switch op {
		case "gt":
			return cmp > 0
		case "gte":
			return cmp >= 0
		case "lt":
			return cmp < 0
		default:
			return cmp <= 0
		}
	}, nil
}

// Evaluate runs the panel over t. When selector is non-empty and the panel
// declares a selector column, rows are first restricted to that value; a value
// absent from t yields an empty result. weekdayOrder drives the weekday sort;
// nil means sales.WeekdayOrder. A zero Limit keeps every row.
func (p Panel) Evaluate(t *sales.Table, selector string, weekdayOrder []string) ([]KeyValue, error) {
	var filters []sales.Predicate
	if p.Where != nil {
		pred, err := p.Where.Predicate()
		if err != nil {
			return nil, fmt.Errorf("panel %q: %w", p.Name, err)
		}
		filters = append(filters, pred)
	}
	if selector != "" {
		if p.Selector == "" {
			return nil, fmt.Errorf("panel %q does not accept a selector", p.Name)
		}
		filters = append(filters, sales.Equals(p.Selector, selector))
	}

	rows := Reduce(t, p.GroupBy, p.Measure, p.Operator, sales.And(filters...))

	switch p.Sort {
	case SortValueDesc:
		rows = SortByValueDesc(rows)
	case SortValueAsc:
		rows = SortByValueAsc(rows)
	case SortKey:
		rows = SortByKey(rows)
	case SortWeekday:
		if weekdayOrder == nil {
			weekdayOrder = sales.WeekdayOrder
		}
		rows = SortByOrder(rows, weekdayOrder)
	}

	if rows == nil {
		rows = []KeyValue{}
	}
	if p.Limit == 0 {
		return rows, nil
	}
	return head(rows, p.Limit), nil
}

// PanelRepository defines the interface for looking up panels.
type PanelRepository interface {
	// Get returns the panel with the given name, or ErrPanelNotFound.
	Get(ctx context.Context, name string) (*Panel, error)

	// List returns all panels ordered by name.
	List(ctx context.Context) ([]Panel, error)
}

// FileSystemPanelRepository loads panels from *.yaml files in a directory.
// Each file holds one panel. Panels are loaded once; there is no hot reload.
type FileSystemPanelRepository struct {
	dir    string
	panels map[string]Panel
}

// NewFileSystemPanelRepository eagerly loads every panel in dir.
// A missing directory yields an empty repository.
func NewFileSystemPanelRepository(dir string) (*FileSystemPanelRepository, error) {
	repo := &FileSystemPanelRepository{
		dir:    dir,
		panels: make(map[string]Panel),
	}
	if err := repo.load(); err != nil {
		return nil, err
	}
	return repo, nil
}

// NewPanelRepository builds an in-memory repository from already validated panels.
func NewPanelRepository(panels []Panel) *FileSystemPanelRepository {
	repo := &FileSystemPanelRepository{panels: make(map[string]Panel, len(panels))}
	for _, p := range panels {
		repo.panels[p.Name] = p
	}
	return repo
}

func (r *FileSystemPanelRepository) load() error {
	info, err := os.Stat(r.dir)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("panel dir: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("panel path %q is not a directory", r.dir)
	}

	entries, err := os.ReadDir(r.dir)
	if err != nil {
		return fmt.Errorf("reading panel dir: %w", err)
	}

	for _, e := range entries {
		if e.IsDir() || (!strings.HasSuffix(e.Name(), ".yaml") && !strings.HasSuffix(e.Name(), ".yml")) {
			continue
		}

		path := filepath.Join(r.dir, e.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading panel file %s: %w", path, err)
		}

		var raw rawPanel
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return fmt.Errorf("parsing panel file %s: %w", path, err)
		}
		if raw.Name == "" {
			continue // empty or comment-only file
		}

		panel, err := raw.compile()
		if err != nil {
			return err
		}
		panel.Fingerprint = fmt.Sprintf("%x", sha256.Sum256(data))

		if _, exists := r.panels[panel.Name]; exists {
			return fmt.Errorf("panel %q: duplicate panel name (check multiple YAML files)", panel.Name)
		}
		r.panels[panel.Name] = panel
	}

	slog.Info("[Panels] Loaded panel definitions", "dir", r.dir, "count", len(r.panels))
	return nil
}

func (raw rawPanel) compile() (Panel, error) {
	p := Panel{
		Name:      raw.Name,
		Title:     raw.Title,
		Operator:  raw.Operator,
		GroupBy:   sales.Column(raw.GroupBy),
		Measure:   sales.Column(raw.Measure),
		Limit:     raw.Limit,
		Sort:      raw.Sort,
		Where:     raw.Where,
		Selector:  sales.Column(raw.Selector),
		Visualize: raw.Visualize,
	}
	if p.Title == "" {
		p.Title = p.Name
	}
	if p.Sort == "" {
		p.Sort = SortNone
	}
	if p.Visualize == "" {
		p.Visualize = "bar"
	}
	return p, p.Validate()
}

// Validate checks that the panel only references known columns and modes.
func (p Panel) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("panel name must not be empty")
	}
	if !ValidOperator(p.Operator) {
		return fmt.Errorf("panel %q: unsupported operator %q", p.Name, p.Operator)
	}
	if !sales.ValidColumn(p.GroupBy) {
		return fmt.Errorf("panel %q: unknown group_by column %q", p.Name, p.GroupBy)
	}
	if !sales.IsMeasure(p.Measure) {
		return fmt.Errorf("panel %q: %q is not a measure column", p.Name, p.Measure)
	}
	if p.Limit < 0 {
		return fmt.Errorf("panel %q: limit must be >= 0", p.Name)
	}
	switch p.Sort {
	case SortValueDesc, SortValueAsc, SortKey, SortWeekday, SortNone:
	default:
		return fmt.Errorf("panel %q: unsupported sort %q", p.Name, p.Sort)
	}
	switch p.Visualize {
	case "bar", "line", "pie":
	default:
		return fmt.Errorf("panel %q: unsupported visualize %q", p.Name, p.Visualize)
	}
	if p.Where != nil {
		if _, err := p.Where.Predicate(); err != nil {
			return fmt.Errorf("panel %q: where: %w", p.Name, err)
		}
	}
	if p.Selector != "" && !sales.ValidColumn(p.Selector) {
		return fmt.Errorf("panel %q: unknown selector column %q", p.Name, p.Selector)
	}
	return nil
}

// Get returns the panel with the given name.
func (r *FileSystemPanelRepository) Get(_ context.Context, name string) (*Panel, error) {
	p, ok := r.panels[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrPanelNotFound, name)
	}
	return &p, nil
}

// List returns all panels ordered by name.
func (r *FileSystemPanelRepository) List(_ context.Context) ([]Panel, error) {
	out := make([]Panel, 0, len(r.panels))
	for _, p := range r.panels {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}
