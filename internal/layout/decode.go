package layout

import (
	"fmt"

	"github.com/tturner/aoiunit/internal/cip/codec"
)

// Decode reads every supported field from buf. Fields with unsupported types
// have no entry in the result; DecodeField reports them as ErrUnsupportedType.
// The returned map is new on every call; buf is not retained.
func (l *Layout) Decode(buf []byte) (Values, error) {
	for _, f := range l.fields {
		if err := checkBounds(f, buf); err != nil {
			return nil, err
		}
	}

	out := make(Values, len(l.fields))
	for _, f := range l.fields {
		if f.Type.Supported() {
			out[f.Name] = readField(f, buf)
		}
	}
	return out, nil
}

// DecodeField reads a single field from buf.
func (l *Layout) DecodeField(buf []byte, name string) (string, error) {
	f, ok := l.Lookup(name)
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownParameter, name)
	}
	if !f.Type.Supported() {
		return "", fmt.Errorf("%w: %s is %s", ErrUnsupportedType, name, f.TypeName)
	}
	if err := checkBounds(f, buf); err != nil {
		return "", err
	}
	return readField(f, buf), nil
}

func checkBounds(f Field, buf []byte) error {
	if f.End() > len(buf) {
		return fmt.Errorf("%w: %s needs bytes [%d,%d) but buffer has %d",
			ErrOutOfRange, f.Name, f.ByteOffset, f.End(), len(buf))
	}
	return nil
}

func readField(f Field, buf []byte) string {
	b := buf[f.ByteOffset:f.End()]
	if f.Type == Bool {
		return formatBool(codec.HostBit(b, f.HostBit()))
	}
	return formatScalar(f.Type, b)
}
