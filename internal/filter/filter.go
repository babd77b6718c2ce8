// Package filter restricts a table to the rows whose categorical values are
// allowed by a per-column allow-list.
package filter

import (
	"sort"

	"hrdash/domain/dataset"
	"hrdash/internal/errors"
)

// Spec maps a column name to the labels it may take.
// Columns are AND-combined; labels within a column are OR-combined.
// A column mapped to an empty (or nil) list admits no rows. Null cells match
// only when the list contains dataset.MissingLabel.
type Spec map[string][]string

// Columns returns the constrained column names, sorted
func (s Spec) Columns() []string {
	cols := make([]string, 0, len(s))
	for c := range s {
		cols = append(cols, c)
	}
	sort.Strings(cols)
	return cols
}

// Clone returns a deep copy
func (s Spec) Clone() Spec {
	out := make(Spec, len(s))
	for c, labels := range s {
		out[c] = append(make([]string, 0, len(labels)), labels...)
	}
	return out
}

// Validate checks that every named column exists in the schema
func (s Spec) Validate(schema *dataset.Schema) error {
	for _, c := range s.Columns() {
		if !schema.Has(c) {
			return errors.InvalidColumn(c)
		}
	}
	return nil
}

type predicate struct {
	col     int
	allowed map[string]struct{}
}

// Apply returns a view of t holding the rows that satisfy every predicate in
// spec, in their original order. t is never modified.
func Apply(t *dataset.Table, spec Spec) (*dataset.Table, error) {
	if err := spec.Validate(t.Schema()); err != nil {
		return nil, err
	}

	preds := make([]predicate, 0, len(spec))
	for _, name := range spec.Columns() {
		_, c, _ := t.Schema().Lookup(name)
		allowed := make(map[string]struct{}, len(spec[name]))
		for _, label := range spec[name] {
			allowed[label] = struct{}{}
		}
		preds = append(preds, predicate{col: c, allowed: allowed})
	}

	rows := make([]int, 0, t.Len())
	for i := 0; i < t.Len(); i++ {
		if matches(t, i, preds) {
			rows = append(rows, i)
		}
	}
	return t.Select(rows), nil
}

func matches(t *dataset.Table, row int, preds []predicate) bool {
	for _, p := range preds {
		if _, ok := p.allowed[t.Value(row, p.col).Label()]; !ok {
			return false
		}
	}
	return true
}

// All returns the identity spec for the given columns: each column mapped to
// every label it takes in t, the missing label included when nulls occur.
func All(t *dataset.Table, columns ...string) (Spec, error) {
	spec := make(Spec, len(columns))
	for _, c := range columns {
		labels, err := t.Labels(c)
		if err != nil {
			return nil, errors.InvalidColumn(c)
		}
		spec[c] = labels
	}
	return spec, nil
}
