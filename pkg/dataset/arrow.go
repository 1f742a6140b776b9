package dataset

import (
	"fmt"
	"strings"
	"time"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/trymzet/dlt/pkg/schema"
)

// arrowSchemaFor maps result columns to an Arrow schema. Column types
// come from the relation's schema when known, otherwise everything is
// a nullable string.
func arrowSchemaFor(columns []string, table *schema.Table) *arrow.Schema {
	fields := make([]arrow.Field, len(columns))
	for i, name := range columns {
		field := arrow.Field{Name: name, Type: arrow.BinaryTypes.String, Nullable: true}
		if table != nil {
			if col, ok := table.Column(name); ok {
				field.Type = arrowTypeFor(col.DataType)
				field.Nullable = col.Nullable
			}
		}
		fields[i] = field
	}
	return arrow.NewSchema(fields, nil)
}

// arrowTypeFor maps a schema data type to an Arrow type.
func arrowTypeFor(dataType string) arrow.DataType {
	switch strings.ToLower(dataType) {
	case "bigint":
		return arrow.PrimitiveTypes.Int64
	case "double":
		return arrow.PrimitiveTypes.Float64
	case "bool":
		return arrow.FixedWidthTypes.Boolean
	case "timestamp":
		return &arrow.TimestampType{Unit: arrow.Microsecond}
	case "date":
		return arrow.FixedWidthTypes.Date32
	case "binary":
		return arrow.BinaryTypes.Binary
	default:
		return arrow.BinaryTypes.String
	}
}

// buildRecord converts scanned rows to a single Arrow record. Callers
// own the returned record and must Release it.
func buildRecord(arrowSchema *arrow.Schema, rows []Row) (arrow.Record, error) {
	builder := array.NewRecordBuilder(memory.DefaultAllocator, arrowSchema)
	defer builder.Release()

	for _, row := range rows {
		for i := range arrowSchema.Fields() {
			var value any
			if i < len(row) {
				value = row[i]
			}
			if err := appendArrowValue(builder.Field(i), value); err != nil {
				return nil, fmt.Errorf("column %s: %w", arrowSchema.Field(i).Name, err)
			}
		}
	}
	return builder.NewRecord(), nil
}

func appendArrowValue(b array.Builder, value any) error {
	if value == nil {
		b.AppendNull()
		return nil
	}
	switch builder := b.(type) {
	case *array.Int64Builder:
		switch v := value.(type) {
		case int64:
			builder.Append(v)
		case int32:
			builder.Append(int64(v))
		case int:
			builder.Append(int64(v))
		default:
			return fmt.Errorf("cannot convert %T to int64", value)
		}
	case *array.Float64Builder:
		switch v := value.(type) {
		case float64:
			builder.Append(v)
		case float32:
			builder.Append(float64(v))
		case int64:
			builder.Append(float64(v))
		default:
			return fmt.Errorf("cannot convert %T to float64", value)
		}
	case *array.BooleanBuilder:
		v, ok := value.(bool)
		if !ok {
			return fmt.Errorf("cannot convert %T to bool", value)
		}
		builder.Append(v)
	case *array.TimestampBuilder:
		v, ok := value.(time.Time)
		if !ok {
			return fmt.Errorf("cannot convert %T to timestamp", value)
		}
		builder.Append(arrow.Timestamp(v.UnixMicro()))
	case *array.Date32Builder:
		v, ok := value.(time.Time)
		if !ok {
			return fmt.Errorf("cannot convert %T to date", value)
		}
		builder.Append(arrow.Date32FromTime(v))
	case *array.BinaryBuilder:
		switch v := value.(type) {
		case []byte:
			builder.Append(v)
		case string:
			builder.Append([]byte(v))
		default:
			return fmt.Errorf("cannot convert %T to binary", value)
		}
	case *array.StringBuilder:
		switch v := value.(type) {
		case string:
			builder.Append(v)
		case []byte:
			builder.Append(string(v))
		default:
			builder.Append(fmt.Sprintf("%v", value))
		}
	default:
		return fmt.Errorf("unsupported arrow builder %T", b)
	}
	return nil
}
