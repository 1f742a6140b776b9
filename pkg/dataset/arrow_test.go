package dataset

import (
	"testing"
	"time"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trymzet/dlt/pkg/schema"
)

func TestArrowSchemaFor(t *testing.T) {
	table := schema.NewTable("events",
		schema.Column{Name: "id", DataType: "bigint"},
		schema.Column{Name: "score", DataType: "double", Nullable: true},
		schema.Column{Name: "active", DataType: "bool"},
		schema.Column{Name: "at", DataType: "timestamp"},
		schema.Column{Name: "note", DataType: "text", Nullable: true},
	)

	arrowSchema := arrowSchemaFor([]string{"id", "score", "active", "at", "note", "extra"}, table)
	require.Equal(t, 6, arrowSchema.NumFields())

	assert.Equal(t, arrow.PrimitiveTypes.Int64, arrowSchema.Field(0).Type)
	assert.False(t, arrowSchema.Field(0).Nullable)
	assert.Equal(t, arrow.PrimitiveTypes.Float64, arrowSchema.Field(1).Type)
	assert.Equal(t, arrow.FixedWidthTypes.Boolean, arrowSchema.Field(2).Type)
	assert.IsType(t, &arrow.TimestampType{}, arrowSchema.Field(3).Type)
	assert.Equal(t, arrow.BinaryTypes.String, arrowSchema.Field(4).Type)

	// columns outside the schema default to a nullable string
	assert.Equal(t, arrow.BinaryTypes.String, arrowSchema.Field(5).Type)
	assert.True(t, arrowSchema.Field(5).Nullable)
}

func TestBuildRecord(t *testing.T) {
	table := schema.NewTable("events",
		schema.Column{Name: "id", DataType: "bigint"},
		schema.Column{Name: "score", DataType: "double", Nullable: true},
		schema.Column{Name: "at", DataType: "timestamp"},
	)
	arrowSchema := arrowSchemaFor([]string{"id", "score", "at"}, table)

	at := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	record, err := buildRecord(arrowSchema, []Row{
		{int64(1), 0.5, at},
		{int64(2), nil, at},
	})
	require.NoError(t, err)
	defer record.Release()

	require.EqualValues(t, 2, record.NumRows())

	ids := record.Column(0).(*array.Int64)
	assert.Equal(t, int64(1), ids.Value(0))
	assert.Equal(t, int64(2), ids.Value(1))

	scores := record.Column(1).(*array.Float64)
	assert.Equal(t, 0.5, scores.Value(0))
	assert.True(t, scores.IsNull(1))

	stamps := record.Column(2).(*array.Timestamp)
	assert.EqualValues(t, at.UnixMicro(), stamps.Value(0))
}

func TestBuildRecordTypeMismatch(t *testing.T) {
	table := schema.NewTable("events", schema.Column{Name: "id", DataType: "bigint"})
	arrowSchema := arrowSchemaFor([]string{"id"}, table)

	_, err := buildRecord(arrowSchema, []Row{{"not a number"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot convert")
}
