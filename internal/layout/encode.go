package layout

import (
	"fmt"

	"github.com/tturner/aoiunit/internal/cip/codec"
)

// Encode returns a copy of buf with the named parameter set to value. Only the
// bytes of that parameter change; for a BOOL only its bit in the host word
// changes. buf itself is never modified.
func (l *Layout) Encode(buf []byte, name, value string) ([]byte, error) {
	f, ok := l.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownParameter, name)
	}
	if !f.Type.Supported() {
		return nil, fmt.Errorf("%w: %s is %s", ErrUnsupportedType, name, f.TypeName)
	}
	if err := checkBounds(f, buf); err != nil {
		return nil, err
	}

	var scalar []byte
	var bit bool
	var err error
	if f.Type == Bool {
		bit, err = ParseBool(value)
	} else {
		scalar, err = encodeScalar(f.Type, value)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}

	out := make([]byte, len(buf))
	copy(out, buf)

	dst := out[f.ByteOffset:f.End()]
	if f.Type == Bool {
		codec.SetHostBit(dst, f.HostBit(), bit)
	} else {
		copy(dst, scalar)
	}
	return out, nil
}
