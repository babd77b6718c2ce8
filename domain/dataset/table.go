package dataset

import (
	"fmt"
	"sort"
)

// Table is an immutable, ordered set of rows sharing a schema.
//
// A filtered table is a view: it holds row indices into the storage of the
// table it was selected from and remembers the unfiltered root, so callers can
// report category domains that stay stable while filters change.
type Table struct {
	schema *Schema
	cols   [][]Value // column-major storage shared by every view of the root
	rows   []int     // nil on the root table
	root   *Table
}

// New builds a root table. Every row must carry exactly one value per column and
// each value must match its column kind.
func New(schema *Schema, rows [][]Value) (*Table, error) {
	if schema == nil {
		return nil, fmt.Errorf("table requires a schema")
	}
	cols := make([][]Value, schema.Len())
	for c := range cols {
		cols[c] = make([]Value, len(rows))
	}
	for r, row := range rows {
		if len(row) != schema.Len() {
			return nil, fmt.Errorf("row %d has %d values, schema has %d columns", r, len(row), schema.Len())
		}
		for c, v := range row {
			col := schema.columns[c]
			if !v.Null {
				if col.IsNumeric() && v.Str != "" {
					return nil, fmt.Errorf("row %d column %q: text value %q in numeric column", r, col.Name, v.Str)
				}
				if !col.IsNumeric() && v.Str == "" {
					return nil, fmt.Errorf("row %d column %q: numeric value in categorical column", r, col.Name)
				}
			}
			cols[c][r] = v
		}
	}
	return &Table{schema: schema, cols: cols}, nil
}

// Empty returns a root table with no rows
func Empty(schema *Schema) *Table {
	t, _ := New(schema, nil)
	return t
}

// Schema returns the table schema
func (t *Table) Schema() *Schema { return t.schema }

// Len returns the number of rows
func (t *Table) Len() int {
	if t.rows == nil {
		return t.storageLen()
	}
	return len(t.rows)
}

func (t *Table) storageLen() int {
	if len(t.cols) == 0 {
		return 0
	}
	return len(t.cols[0])
}

// Root returns the unfiltered table this view was derived from
func (t *Table) Root() *Table {
	if t.root == nil {
		return t
	}
	return t.root
}

// IsRoot reports whether t is an unfiltered table
func (t *Table) IsRoot() bool { return t.root == nil }

func (t *Table) storageRow(i int) int {
	if t.rows == nil {
		return i
	}
	return t.rows[i]
}

// Value returns the cell at row i, column position col
func (t *Table) Value(i, col int) Value {
	return t.cols[col][t.storageRow(i)]
}

// Row returns row i keyed by column name
func (t *Table) Row(i int) map[string]Value {
	out := make(map[string]Value, t.schema.Len())
	for c, col := range t.schema.columns {
		out[col.Name] = t.Value(i, c)
	}
	return out
}

// Select returns a view holding the given rows of t, in the given order.
// Indices are positions in t, not in the root.
func (t *Table) Select(rows []int) *Table {
	mapped := make([]int, len(rows))
	for k, i := range rows {
		if i < 0 || i >= t.Len() {
			panic(fmt.Sprintf("dataset: row %d out of range [0,%d)", i, t.Len()))
		}
		mapped[k] = t.storageRow(i)
	}
	return &Table{schema: t.schema, cols: t.cols, rows: mapped, root: t.Root()}
}

// Floats returns the non-null values of a numeric column and the number of nulls
func (t *Table) Floats(col int) ([]float64, int) {
	out := make([]float64, 0, t.Len())
	missing := 0
	for i := 0; i < t.Len(); i++ {
		v := t.Value(i, col)
		if v.Null {
			missing++
			continue
		}
		out = append(out, v.Num)
	}
	return out, missing
}

// Labels returns the distinct labels of a column. Ordinal columns follow their
// declared Levels (numeric ordinals sort ascending); other columns keep
// first-seen order. The missing label, when present, always comes last.
func (t *Table) Labels(name string) ([]string, error) {
	col, c, ok := t.schema.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNoSuchColumn, name)
	}

	seen := make(map[string]bool)
	var values []Value
	hasMissing := false
	for i := 0; i < t.Len(); i++ {
		v := t.Value(i, c)
		if v.Null {
			hasMissing = true
			continue
		}
		label := v.Label()
		if !seen[label] {
			seen[label] = true
			values = append(values, v)
		}
	}

	labels := OrderLabels(col, values)
	if hasMissing {
		labels = append(labels, MissingLabel)
	}
	return labels, nil
}

// OrderLabels orders distinct non-null values of col for display
func OrderLabels(col Column, values []Value) []string {
	if col.IsOrdinal() {
		values = append([]Value(nil), values...)
		if len(col.Levels) > 0 {
			rank := make(map[string]int, len(col.Levels))
			for i, l := range col.Levels {
				rank[l] = i
			}
			sort.SliceStable(values, func(i, j int) bool {
				ri, iok := rank[values[i].Label()]
				rj, jok := rank[values[j].Label()]
				switch {
				case iok && jok:
					return ri < rj
				case iok != jok:
					return iok
				default:
					return false
				}
			})
		} else if col.IsNumeric() {
			sort.SliceStable(values, func(i, j int) bool { return values[i].Num < values[j].Num })
		}
	}

	labels := make([]string, len(values))
	for i, v := range values {
		labels[i] = v.Label()
	}
	return labels
}
