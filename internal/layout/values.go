package layout

import (
	"encoding/binary"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/tturner/aoiunit/internal/cip/codec"
)

// ParseBool accepts true/false, yes/no and 1/0 in any case.
func ParseBool(s string) (bool, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "TRUE", "YES", "1":
		return true, nil
	case "FALSE", "NO", "0":
		return false, nil
	default:
		return false, fmt.Errorf("%w: %q as BOOL", ErrParse, s)
	}
}

func formatBool(v bool) string {
	if v {
		return "1"
	}
	return "0"
}

// encodeScalar renders a non-BOOL value as its little-endian wire bytes.
// SINT, INT and DINT keep the low-order bytes of the parsed integer.
func encodeScalar(t DataType, s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	out := make([]byte, t.Size())

	switch t {
	case Sint, Int, Dint, Lint:
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %q as %s", ErrParse, s, t)
		}
		switch t {
		case Sint:
			out[0] = byte(n)
		case Int:
			codec.PutUint16(binary.LittleEndian, out, uint16(n))
		case Dint:
			codec.PutUint32(binary.LittleEndian, out, uint32(n))
		case Lint:
			codec.PutUint64(binary.LittleEndian, out, uint64(n))
		}
	case Real:
		f, err := strconv.ParseFloat(s, 32)
		if err != nil {
			return nil, fmt.Errorf("%w: %q as REAL", ErrParse, s)
		}
		codec.PutUint32(binary.LittleEndian, out, math.Float32bits(float32(f)))
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedType, t)
	}

	return out, nil
}

// formatScalar is the inverse of encodeScalar.
func formatScalar(t DataType, b []byte) string {
	switch t {
	case Sint:
		return strconv.FormatInt(int64(int8(b[0])), 10)
	case Int:
		return strconv.FormatInt(int64(int16(codec.Uint16(binary.LittleEndian, b))), 10)
	case Dint:
		return strconv.FormatInt(int64(int32(codec.Uint32(binary.LittleEndian, b))), 10)
	case Lint:
		return strconv.FormatInt(int64(codec.Uint64(binary.LittleEndian, b)), 10)
	case Real:
		f := math.Float32frombits(codec.Uint32(binary.LittleEndian, b))
		return strconv.FormatFloat(float64(f), 'g', -1, 32)
	default:
		return ""
	}
}

// Normalize returns value in the form Decode would print it after the value
// was encoded as t: booleans become "1"/"0", integers are truncated to the
// type width and REALs are rounded to single precision.
func Normalize(t DataType, value string) (string, error) {
	if t == Bool {
		v, err := ParseBool(value)
		if err != nil {
			return "", err
		}
		return formatBool(v), nil
	}
	b, err := encodeScalar(t, value)
	if err != nil {
		return "", err
	}
	return formatScalar(t, b), nil
}
