package geos

import (
	"encoding/binary"
	"math"

	"github.com/cockroachdb/errors"
	"github.com/flatgeobuf/flatgeobuf/src/go/flattypes"
	"github.com/flatgeobuf/flatgeobuf/src/go/writer"
	flatbuffers "github.com/google/flatbuffers/go"
)

// sridColumnName is the property column holding each feature's SRID.
const sridColumnName = "srid"

func sridColumn(builder *flatbuffers.Builder) *writer.Column {
	col := writer.NewColumn(builder)
	col.SetName(sridColumnName)
	col.SetTitle(sridColumnName)
	col.SetType(flattypes.ColumnTypeInt)
	col.SetNullable(false)
	return col
}

// encodeSRID encodes srid as the value of column 0: a little endian uint16
// column index followed by the int32 value.
func encodeSRID(srid int) []byte {
	buf := make([]byte, 6)
	binary.LittleEndian.PutUint16(buf, 0)
	binary.LittleEndian.PutUint32(buf[2:], uint32(int32(srid)))
	return buf
}

var fixedWidths = map[flattypes.ColumnType]int{
	flattypes.ColumnTypeBool:   1,
	flattypes.ColumnTypeByte:   1,
	flattypes.ColumnTypeUByte:  1,
	flattypes.ColumnTypeShort:  2,
	flattypes.ColumnTypeUShort: 2,
	flattypes.ColumnTypeInt:    4,
	flattypes.ColumnTypeUInt:   4,
	flattypes.ColumnTypeLong:   8,
	flattypes.ColumnTypeULong:  8,
	flattypes.ColumnTypeFloat:  4,
	flattypes.ColumnTypeDouble: 8,
}

// decodeProperties decodes a feature's property buffer against the header
// columns. Layers written by other tools may carry any column types.
func decodeProperties(data []byte, header *flattypes.Header) (map[string]interface{}, error) {
	props := make(map[string]interface{})
	for off := 0; off < len(data); {
		if off+2 > len(data) {
			return nil, errors.Wrap(ErrInvalidData, "truncated column index")
		}
		idx := int(binary.LittleEndian.Uint16(data[off:]))
		off += 2

		var col flattypes.Column
		if idx >= header.ColumnsLength() || !header.Columns(&col, idx) {
			return nil, errors.Wrapf(ErrInvalidData, "column %d of %d", idx, header.ColumnsLength())
		}
		v, n, err := readPropertyValue(data[off:], col.Type())
		if err != nil {
			return nil, errors.Wrapf(err, "column %q", col.Name())
		}
		off += n
		props[string(col.Name())] = v
	}
	return props, nil
}

// readPropertyValue reads one value and returns it with the number of bytes
// consumed. Variable length values carry a uint32 length prefix.
func readPropertyValue(data []byte, typ flattypes.ColumnType) (interface{}, int, error) {
	le := binary.LittleEndian
	if w, ok := fixedWidths[typ]; ok {
		if len(data) < w {
			return nil, 0, errors.Wrapf(ErrInvalidData, "truncated %s value", flattypes.EnumNamesColumnType[typ])
		}
		switch typ {
		case flattypes.ColumnTypeBool:
			return data[0] != 0, w, nil
		case flattypes.ColumnTypeByte:
			return int8(data[0]), w, nil
		case flattypes.ColumnTypeUByte:
			return data[0], w, nil
		case flattypes.ColumnTypeShort:
			return int16(le.Uint16(data)), w, nil
		case flattypes.ColumnTypeUShort:
			return le.Uint16(data), w, nil
		case flattypes.ColumnTypeInt:
			return int32(le.Uint32(data)), w, nil
		case flattypes.ColumnTypeUInt:
			return le.Uint32(data), w, nil
		case flattypes.ColumnTypeLong:
			return int64(le.Uint64(data)), w, nil
		case flattypes.ColumnTypeULong:
			return le.Uint64(data), w, nil
		case flattypes.ColumnTypeFloat:
			return math.Float32frombits(le.Uint32(data)), w, nil
		default:
			return math.Float64frombits(le.Uint64(data)), w, nil
		}
	}

	switch typ {
	case flattypes.ColumnTypeString, flattypes.ColumnTypeJson, flattypes.ColumnTypeDateTime, flattypes.ColumnTypeBinary:
	default:
		return nil, 0, errors.Wrapf(ErrInvalidData, "unknown column type %d", typ)
	}
	if len(data) < 4 {
		return nil, 0, errors.Wrap(ErrInvalidData, "truncated value length")
	}
	n := int(le.Uint32(data))
	if len(data)-4 < n {
		return nil, 0, errors.Wrapf(ErrInvalidData, "value of %d bytes, %d left", n, len(data)-4)
	}
	raw := data[4 : 4+n]
	if typ == flattypes.ColumnTypeBinary {
		return append([]byte(nil), raw...), 4 + n, nil
	}
	return string(raw), 4 + n, nil
}

// sridOf returns the SRID stored in props, if any.
func sridOf(props map[string]interface{}) (int, bool) {
	switch v := props[sridColumnName].(type) {
	case int8:
		return int(v), true
	case uint8:
		return int(v), true
	case int16:
		return int(v), true
	case uint16:
		return int(v), true
	case int32:
		return int(v), true
	case uint32:
		return int(v), true
	case int64:
		return int(v), true
	case uint64:
		return int(v), true
	default:
		return 0, false
	}
}
