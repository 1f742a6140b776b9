// Package schema provides the structural metadata model for a dataset:
// tables, columns, identifier naming rules, and the codecs used to
// persist and restore schemas from a destination's state table.
package schema

import (
	"fmt"
	"sort"
)

// Column describes a single column of a table.
type Column struct {
	Name      string `json:"name" yaml:"name"`
	DataType  string `json:"data_type" yaml:"data_type"`
	Nullable  bool   `json:"nullable" yaml:"nullable"`
	Precision int    `json:"precision,omitempty" yaml:"precision,omitempty"`
	Scale     int    `json:"scale,omitempty" yaml:"scale,omitempty"`
}

// Table describes a table: its normalized name and columns.
// Columns are keyed by name but keep their declaration order so that
// projections can preserve it.
type Table struct {
	Name    string
	columns map[string]Column
	order   []string
}

// NewTable creates a table with the given columns, preserving order.
func NewTable(name string, columns ...Column) *Table {
	t := &Table{Name: name, columns: make(map[string]Column, len(columns))}
	for _, c := range columns {
		t.AddColumn(c)
	}
	return t
}

// AddColumn adds or replaces a column. A replaced column keeps its
// original position.
func (t *Table) AddColumn(c Column) {
	if _, ok := t.columns[c.Name]; !ok {
		t.order = append(t.order, c.Name)
	}
	t.columns[c.Name] = c
}

// Column returns the column with the given name.
func (t *Table) Column(name string) (Column, bool) {
	c, ok := t.columns[name]
	return c, ok
}

// Columns returns all columns in declaration order.
func (t *Table) Columns() []Column {
	out := make([]Column, 0, len(t.order))
	for _, name := range t.order {
		out = append(out, t.columns[name])
	}
	return out
}

// ColumnNames returns the column names in declaration order.
func (t *Table) ColumnNames() []string {
	out := make([]string, len(t.order))
	copy(out, t.order)
	return out
}

// Len returns the number of columns.
func (t *Table) Len() int {
	return len(t.order)
}

// Schema is the structural metadata of a dataset: a named collection of
// tables plus the naming convention used to normalize identifiers.
type Schema struct {
	name   string
	tables map[string]*Table
	naming NamingConvention
}

// New creates an empty schema with the given name and the default
// snake_case naming convention.
func New(name string) *Schema {
	return &Schema{
		name:   name,
		tables: make(map[string]*Table),
		naming: SnakeCase{},
	}
}

// Name returns the schema name.
func (s *Schema) Name() string {
	return s.name
}

// Naming returns the schema's naming convention.
func (s *Schema) Naming() NamingConvention {
	return s.naming
}

// SetNaming replaces the naming convention. Table and column names
// already present are not re-normalized.
func (s *Schema) SetNaming(n NamingConvention) {
	s.naming = n
}

// Table returns the table with the given (normalized) name.
func (s *Schema) Table(name string) (*Table, bool) {
	t, ok := s.tables[name]
	return t, ok
}

// AddTable adds or replaces a table.
func (s *Schema) AddTable(t *Table) {
	s.tables[t.Name] = t
}

// TableNames returns all table names, sorted.
func (s *Schema) TableNames() []string {
	names := make([]string, 0, len(s.tables))
	for name := range s.tables {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IsEmpty reports whether the schema has no tables.
func (s *Schema) IsEmpty() bool {
	return len(s.tables) == 0
}

// String implements fmt.Stringer.
func (s *Schema) String() string {
	return fmt.Sprintf("schema %q (%d tables)", s.name, len(s.tables))
}
