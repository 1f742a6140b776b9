package dataset

import (
	"context"
	"iter"

	"github.com/apache/arrow-go/v18/arrow"
)

// DefaultBatchSize is the row count per chunk for the lazy iterators.
const DefaultBatchSize = 1000

// Fetch executes the relation and returns all rows. The underlying
// cursor is opened and released inside the call.
func (r *Relation) Fetch(ctx context.Context) ([]Row, error) {
	cursor, err := r.Cursor(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = cursor.Close() }()
	return cursor.Fetch()
}

// FetchMany executes the relation and returns up to n rows.
func (r *Relation) FetchMany(ctx context.Context, n int) ([]Row, error) {
	cursor, err := r.Cursor(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = cursor.Close() }()
	return cursor.FetchMany(n)
}

// FetchOne executes the relation and returns the first row, or nil
// when the result is empty.
func (r *Relation) FetchOne(ctx context.Context) (Row, error) {
	cursor, err := r.Cursor(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = cursor.Close() }()
	return cursor.FetchOne()
}

// Frame executes the relation and returns all rows as a column-named
// frame.
func (r *Relation) Frame(ctx context.Context) (*Frame, error) {
	cursor, err := r.Cursor(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = cursor.Close() }()

	rows, err := cursor.Fetch()
	if err != nil {
		return nil, err
	}
	return &Frame{Columns: cursor.ColumnNames(), Rows: rows}, nil
}

// Arrow executes the relation and returns all rows as one Arrow record.
// The caller owns the record and must Release it.
func (r *Relation) Arrow(ctx context.Context) (arrow.Record, error) {
	cursor, err := r.Cursor(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = cursor.Close() }()

	rows, err := cursor.Fetch()
	if err != nil {
		return nil, err
	}
	return buildRecord(arrowSchemaFor(cursor.ColumnNames(), cursor.ColumnsSchema()), rows)
}

// IterFetch returns a lazy sequence of row chunks of up to batchSize
// rows. Each full iteration executes the query anew; the cursor is
// released when the sequence ends or the consumer stops early. A
// batchSize of zero or less means DefaultBatchSize.
func (r *Relation) IterFetch(ctx context.Context, batchSize int) iter.Seq2[[]Row, error] {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return func(yield func([]Row, error) bool) {
		cursor, err := r.Cursor(ctx)
		if err != nil {
			yield(nil, err)
			return
		}
		defer func() { _ = cursor.Close() }()

		for {
			rows, err := cursor.FetchMany(batchSize)
			if err != nil {
				yield(nil, err)
				return
			}
			if len(rows) == 0 {
				return
			}
			if !yield(rows, nil) {
				return
			}
		}
	}
}

// IterFrames returns a lazy sequence of frames of up to batchSize rows.
func (r *Relation) IterFrames(ctx context.Context, batchSize int) iter.Seq2[*Frame, error] {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return func(yield func(*Frame, error) bool) {
		cursor, err := r.Cursor(ctx)
		if err != nil {
			yield(nil, err)
			return
		}
		defer func() { _ = cursor.Close() }()

		columns := cursor.ColumnNames()
		for {
			rows, err := cursor.FetchMany(batchSize)
			if err != nil {
				yield(nil, err)
				return
			}
			if len(rows) == 0 {
				return
			}
			if !yield(&Frame{Columns: columns, Rows: rows}, nil) {
				return
			}
		}
	}
}

// IterArrow returns a lazy sequence of Arrow records of up to batchSize
// rows. The consumer owns each yielded record and must Release it.
func (r *Relation) IterArrow(ctx context.Context, batchSize int) iter.Seq2[arrow.Record, error] {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return func(yield func(arrow.Record, error) bool) {
		cursor, err := r.Cursor(ctx)
		if err != nil {
			yield(nil, err)
			return
		}
		defer func() { _ = cursor.Close() }()

		arrowSchema := arrowSchemaFor(cursor.ColumnNames(), cursor.ColumnsSchema())
		for {
			rows, err := cursor.FetchMany(batchSize)
			if err != nil {
				yield(nil, err)
				return
			}
			if len(rows) == 0 {
				return
			}
			record, err := buildRecord(arrowSchema, rows)
			if err != nil {
				yield(nil, err)
				return
			}
			if !yield(record, nil) {
				return
			}
		}
	}
}
