package sales

import (
	"time"
)

// Predicate selects rows of a table.
type Predicate func(Record) bool

// Table is an immutable, ordered collection of records.
//
// Filtered tables share the parent's rows through an index list, so filtering
// never copies records and never touches the parent.
type Table struct {
	rows    []Record
	indices []int // nil means every row of rows, in order
	meta    Metadata
}

// Metadata describes how a table was loaded.
type Metadata struct {
	LoadID    string         `json:"load_id"`
	LoadedAt  time.Time      `json:"loaded_at"`
	RowCounts map[string]int `json:"row_counts"` // rows contributed per source name
}

// NewTable takes ownership of rows. Callers must not modify the slice afterwards.
func NewTable(rows []Record, meta Metadata) *Table {
	return &Table{rows: rows, meta: meta}
}

// Len returns the number of rows. A nil table is empty.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	if t.indices != nil {
		return len(t.indices)
	}
	return len(t.rows)
}

// At returns a copy of row i.
func (t *Table) At(i int) Record {
	if t.indices != nil {
		return t.rows[t.indices[i]]
	}
	return t.rows[i]
}

// Metadata returns load information. Filtered tables report their parent's.
func (t *Table) Metadata() Metadata {
	if t == nil {
		return Metadata{}
	}
	counts := make(map[string]int, len(t.meta.RowCounts))
	for k, v := range t.meta.RowCounts {
		counts[k] = v
	}
	m := t.meta
	m.RowCounts = counts
	return m
}

// Filter returns the rows matching p, in order. A nil predicate returns t.
func (t *Table) Filter(p Predicate) *Table {
	if p == nil || t == nil {
		return t
	}
	n := t.Len()
	indices := make([]int, 0)
	for i := 0; i < n; i++ {
		if p(t.At(i)) {
			indices = append(indices, t.index(i))
		}
	}
	return &Table{rows: t.rows, indices: indices, meta: t.meta}
}

// Where is Filter(Equals(c, value)).
func (t *Table) Where(c Column, value string) *Table {
	return t.Filter(Equals(c, value))
}

func (t *Table) index(i int) int {
	if t.indices != nil {
		return t.indices[i]
	}
	return i
}

// Equals matches rows whose dimension c equals value. Null never matches.
func Equals(c Column, value string) Predicate {
	return func(r Record) bool {
		v, ok := r.Dimension(c)
		return ok && v == value
	}
}

// Promoted matches rows sold with at least one promoted item.
func Promoted(r Record) bool { return r.OnPromotion > 0 }

// And combines predicates; nil entries are ignored.
func And(ps ...Predicate) Predicate {
	return func(r Record) bool {
		for _, p := range ps {
			if p != nil && !p(r) {
				return false
			}
		}
		return true
	}
}
