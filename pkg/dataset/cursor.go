package dataset

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/trymzet/dlt/pkg/destination"
	"github.com/trymzet/dlt/pkg/schema"
)

// Row is a single result row in column order.
type Row []any

// Cursor is a scoped read over one executed relation query. It owns
// both the result rows and the client session that produced them;
// Close releases the rows first and the session after, and is safe to
// call more than once.
type Cursor struct {
	rows    *sql.Rows
	columns *schema.Table
	names   []string
	release func() error
	closed  bool

	logger  *slog.Logger
	queryID string
}

// Cursor executes the relation and returns a cursor over its rows.
// The caller must Close it. The client session stays open for the
// cursor's lifetime so that drivers can stream results.
func (r *Relation) Cursor(ctx context.Context) (*Cursor, error) {
	sqlText, err := r.SQL(ctx)
	if err != nil {
		return nil, err
	}
	columns, err := r.ColumnsSchema(ctx)
	if err != nil {
		return nil, err
	}
	client, err := r.ds.SQLClient(ctx)
	if err != nil {
		return nil, err
	}
	if err := client.Open(ctx); err != nil {
		return nil, err
	}
	if setup, ok := client.(destination.StreamingSessionSetup); ok {
		if err := setup.SetupStreamingSession(ctx); err != nil {
			_ = client.Close()
			return nil, err
		}
	}

	queryID := uuid.NewString()
	r.ds.logger.Debug("executing relation query",
		slog.String("query_id", queryID),
		slog.String("query", sqlText))

	rows, err := client.ExecuteQuery(ctx, sqlText)
	if err != nil {
		_ = client.Close()
		return nil, err
	}
	names, err := rows.Columns()
	if err != nil {
		_ = rows.Close()
		_ = client.Close()
		return nil, err
	}

	return &Cursor{
		rows:    rows,
		columns: columns,
		names:   names,
		release: client.Close,
		logger:  r.ds.logger,
		queryID: queryID,
	}, nil
}

// ColumnNames returns the result column names in order.
func (c *Cursor) ColumnNames() []string {
	out := make([]string, len(c.names))
	copy(out, c.names)
	return out
}

// ColumnsSchema returns the schema attached to the cursor, nil when the
// relation had none.
func (c *Cursor) ColumnsSchema() *schema.Table {
	return c.columns
}

// FetchOne returns the next row, or nil with a nil error when the
// result set is exhausted.
func (c *Cursor) FetchOne() (Row, error) {
	if !c.rows.Next() {
		if err := c.rows.Err(); err != nil {
			return nil, err
		}
		return nil, nil
	}
	return c.scanRow()
}

// FetchMany returns up to n rows. An empty slice means exhaustion.
func (c *Cursor) FetchMany(n int) ([]Row, error) {
	rows := make([]Row, 0, n)
	for len(rows) < n {
		row, err := c.FetchOne()
		if err != nil {
			return nil, err
		}
		if row == nil {
			break
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// Fetch returns all remaining rows.
func (c *Cursor) Fetch() ([]Row, error) {
	var rows []Row
	for {
		row, err := c.FetchOne()
		if err != nil {
			return nil, err
		}
		if row == nil {
			return rows, nil
		}
		rows = append(rows, row)
	}
}

func (c *Cursor) scanRow() (Row, error) {
	values := make(Row, len(c.names))
	targets := make([]any, len(c.names))
	for i := range values {
		targets[i] = &values[i]
	}
	if err := c.rows.Scan(targets...); err != nil {
		return nil, fmt.Errorf("scan row: %w", err)
	}
	return values, nil
}

// Close releases the result rows and then the client session.
func (c *Cursor) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true
	c.logger.Debug("closing relation cursor", slog.String("query_id", c.queryID))
	rowsErr := c.rows.Close()
	releaseErr := c.release()
	if rowsErr != nil {
		return rowsErr
	}
	return releaseErr
}
