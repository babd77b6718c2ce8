package dataset

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrNoSuchColumn is returned when a name is not part of the schema
var ErrNoSuchColumn = errors.New("no such column")

// Schema is the ordered, fixed set of columns every row of a table carries
type Schema struct {
	columns []Column
	index   map[string]int
}

// NewSchema validates the columns and builds the name index
func NewSchema(columns ...Column) (*Schema, error) {
	s := &Schema{
		columns: make([]Column, 0, len(columns)),
		index:   make(map[string]int, len(columns)),
	}
	for _, c := range columns {
		if c.Name == "" {
			return nil, fmt.Errorf("column %d has no name", len(s.columns))
		}
		if c.Kind != KindCategorical && c.Kind != KindNumeric {
			return nil, fmt.Errorf("column %q has unknown kind %q", c.Name, c.Kind)
		}
		if _, dup := s.index[c.Name]; dup {
			return nil, fmt.Errorf("duplicate column %q", c.Name)
		}
		s.index[c.Name] = len(s.columns)
		s.columns = append(s.columns, c)
	}
	return s, nil
}

// MustSchema is NewSchema for static declarations
func MustSchema(columns ...Column) *Schema {
	s, err := NewSchema(columns...)
	if err != nil {
		panic(err)
	}
	return s
}

// Len returns the number of columns
func (s *Schema) Len() int { return len(s.columns) }

// Columns returns a copy of the column list
func (s *Schema) Columns() []Column {
	out := make([]Column, len(s.columns))
	copy(out, s.columns)
	return out
}

// Names returns the column names in schema order
func (s *Schema) Names() []string {
	names := make([]string, len(s.columns))
	for i, c := range s.columns {
		names[i] = c.Name
	}
	return names
}

// Lookup returns the column and its position
func (s *Schema) Lookup(name string) (Column, int, bool) {
	i, ok := s.index[name]
	if !ok {
		return Column{}, -1, false
	}
	return s.columns[i], i, true
}

// Has reports whether the schema contains name
func (s *Schema) Has(name string) bool {
	_, ok := s.index[name]
	return ok
}

// Column returns the column at position i
func (s *Schema) Column(i int) Column { return s.columns[i] }

// MarshalJSON writes the column list
func (s *Schema) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.columns)
}
