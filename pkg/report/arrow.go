package report

import (
	"io"

	"github.com/apache/arrow/go/v17/arrow"
	"github.com/apache/arrow/go/v17/arrow/array"
	"github.com/apache/arrow/go/v17/arrow/ipc"
	"github.com/apache/arrow/go/v17/arrow/memory"

	"github.com/ajitpratap0/cinelens/pkg/errors"
	"github.com/ajitpratap0/cinelens/pkg/models"
)

// ArrowSchema maps the table's columns onto nullable Arrow fields
func ArrowSchema(t *models.Table) *arrow.Schema {
	cols := t.Columns()
	fields := make([]arrow.Field, len(cols))
	for i, c := range cols {
		fields[i] = arrow.Field{Name: c.Name, Type: arrowType(c.Kind), Nullable: true}
	}
	return arrow.NewSchema(fields, nil)
}

func arrowType(k models.Kind) arrow.DataType {
	switch k {
	case models.KindInt:
		return arrow.PrimitiveTypes.Int64
	case models.KindFloat:
		return arrow.PrimitiveTypes.Float64
	case models.KindDate:
		return arrow.FixedWidthTypes.Date32
	default:
		return arrow.BinaryTypes.String
	}
}

// ToRecord copies the table into a single Arrow record batch. The caller
// must Release it.
func ToRecord(t *models.Table, pool memory.Allocator) arrow.Record {
	if pool == nil {
		pool = memory.NewGoAllocator()
	}
	schema := ArrowSchema(t)
	b := array.NewRecordBuilder(pool, schema)
	defer b.Release()

	for c := range schema.Fields() {
		appendColumn(b.Field(c), t, c)
	}
	return b.NewRecord()
}

func appendColumn(fb array.Builder, t *models.Table, c int) {
	fb.Reserve(t.NumRows())
	for r := 0; r < t.NumRows(); r++ {
		v := t.Cell(r, c)
		if v.IsNull() {
			fb.AppendNull()
			continue
		}
		switch b := fb.(type) {
		case *array.Int64Builder:
			b.Append(v.Int64())
		case *array.Float64Builder:
			f, _ := v.Float64()
			b.Append(f)
		case *array.Date32Builder:
			b.Append(arrow.Date32FromTime(v.Time()))
		case *array.StringBuilder:
			b.Append(v.Str())
		}
	}
}

// WriteIPC writes the table to w as an Arrow IPC stream with one record batch
func WriteIPC(w io.Writer, t *models.Table) error {
	pool := memory.NewGoAllocator()
	rec := ToRecord(t, pool)
	defer rec.Release()

	writer := ipc.NewWriter(w, ipc.WithSchema(rec.Schema()), ipc.WithAllocator(pool))
	if err := writer.Write(rec); err != nil {
		_ = writer.Close()
		return errors.Wrap(err, errors.ErrorTypeIO, "failed to write record batch")
	}
	if err := writer.Close(); err != nil {
		return errors.Wrap(err, errors.ErrorTypeIO, "failed to close Arrow stream")
	}
	return nil
}
