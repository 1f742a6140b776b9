package dataset

import (
	"context"
	"fmt"
	"strings"

	"github.com/trymzet/dlt/pkg/schema"
)

// Relation is a lazily-specified read expression over one table or one
// raw SQL query of a dataset. Relations are immutable values: every
// refinement returns a new Relation and never mutates the receiver, so
// they are safe to share read-only.
//
// Exactly one of the raw query and the table name is set; this is
// guaranteed by the Dataset factories that construct relations.
type Relation struct {
	ds *Dataset

	providedQuery string
	tableName     string
	limit         int
	selected      []string
}

// clone returns a copy with its own selected-columns slice.
func (r *Relation) clone() *Relation {
	dup := *r
	dup.selected = append([]string(nil), r.selected...)
	return &dup
}

// IsRawQuery reports whether the relation was created from a raw query.
func (r *Relation) IsRawQuery() bool {
	return r.providedQuery != ""
}

// WithLimit returns a new relation capped at n rows. Fails with
// ErrQueryImmutable on raw-query relations.
func (r *Relation) WithLimit(n int) (*Relation, error) {
	if r.providedQuery != "" {
		return nil, fmt.Errorf("cannot change limit: %w", ErrQueryImmutable)
	}
	dup := r.clone()
	dup.limit = n
	return dup, nil
}

// Head returns a new relation capped at n rows, defaulting to 5.
func (r *Relation) Head(n ...int) (*Relation, error) {
	limit := 5
	if len(n) > 0 {
		limit = n[0]
	}
	return r.WithLimit(limit)
}

// Select returns a new relation projecting only the named columns, in
// the given order. Fails with ErrQueryImmutable on raw-query relations
// and eagerly with UnknownColumnError when the schema knows the table
// but not a requested column.
func (r *Relation) Select(ctx context.Context, columns ...string) (*Relation, error) {
	if r.providedQuery != "" {
		return nil, fmt.Errorf("cannot change selected columns: %w", ErrQueryImmutable)
	}
	dup := r.clone()
	dup.selected = append([]string(nil), columns...)

	// fail fast on unknown columns instead of at execution time
	if _, err := dup.ColumnsSchema(ctx); err != nil {
		return nil, err
	}
	return dup, nil
}

// SQL derives the relation's query text. Raw queries are returned
// verbatim; table relations synthesize a single SELECT using the
// schema's naming rules and the client's dialect.
func (r *Relation) SQL(ctx context.Context) (string, error) {
	if r.providedQuery != "" {
		return r.providedQuery, nil
	}

	sch, err := r.ds.Schema(ctx)
	if err != nil {
		return "", err
	}
	client, err := r.ds.SQLClient(ctx)
	if err != nil {
		return "", err
	}

	table := client.QualifiedTableName(sch.Naming().NormalizeTablesPath(r.tableName))

	selector := "*"
	if len(r.selected) > 0 {
		escaped := make([]string, len(r.selected))
		for i, c := range r.selected {
			escaped[i] = client.EscapeColumn(sch.Naming().NormalizePath(c))
		}
		selector = strings.Join(escaped, ",")
	}

	prefix, suffix := client.Dialect().LimitClause(r.limit)

	parts := []string{"SELECT"}
	if prefix != "" {
		parts = append(parts, prefix)
	}
	parts = append(parts, selector, "FROM", table)
	if suffix != "" {
		parts = append(parts, suffix)
	}
	return strings.Join(parts, " "), nil
}

// ColumnsSchema computes the relation's column schema. It is nil for
// raw-query relations and for tables the dataset schema does not know;
// otherwise it is the full table, or the requested normalized subset in
// request order. Unknown requested columns fail immediately with
// UnknownColumnError.
func (r *Relation) ColumnsSchema(ctx context.Context) (*schema.Table, error) {
	if r.providedQuery != "" {
		return nil, nil
	}

	sch, err := r.ds.Schema(ctx)
	if err != nil {
		return nil, err
	}
	tableName := sch.Naming().NormalizeTablesPath(r.tableName)
	table, ok := sch.Table(tableName)
	if !ok {
		return nil, nil
	}
	if len(r.selected) == 0 {
		return table, nil
	}

	subset := schema.NewTable(table.Name)
	for _, name := range r.selected {
		normalized := sch.Naming().NormalizePath(name)
		col, ok := table.Column(normalized)
		if !ok {
			return nil, &UnknownColumnError{Column: normalized, Table: table.Name}
		}
		subset.AddColumn(col)
	}
	return subset, nil
}
