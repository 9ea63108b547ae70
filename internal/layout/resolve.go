package layout

import (
	"fmt"

	"github.com/tturner/aoiunit/internal/cip/codec"
)

// boolsPerHostWord is how many BOOL members share one host word.
const boolsPerHostWord = 32

// Layout is the resolved byte/bit position of every parameter of an AOI.
// It is immutable once built and safe for concurrent use.
type Layout struct {
	fields []Field
	index  map[string]int
	size   int
}

// Resolve assigns buffer positions to params in declaration order.
//
// Each scalar is aligned to its own size. BOOLs are packed 32 to a 4-byte host
// word: a new host word is opened at the cursor for the 1st, 33rd, 65th...
// BOOL, and every BOOL records the host word offset plus a bit index that
// starts at 31 and counts down. Unsupported types are kept in the layout at
// the current cursor with zero size and do not advance it.
func Resolve(params []Parameter) (*Layout, error) {
	l := &Layout{
		fields: make([]Field, 0, len(params)),
		index:  make(map[string]int, len(params)),
	}

	cursor := 0
	hostWord := 0
	boolCount := 0

	for _, p := range params {
		if _, dup := l.index[p.Name]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateParameter, p.Name)
		}

		f := Field{Parameter: p, Size: p.Type.Size()}
		switch p.Type {
		case Bool:
			if boolCount%boolsPerHostWord == 0 {
				hostWord = alignUp(cursor, codec.HostWordSize)
				cursor = hostWord + codec.HostWordSize
			}
			f.ByteOffset = hostWord
			f.BitIndex = 31 - boolCount%boolsPerHostWord
			boolCount++
		case Sint, Int, Dint, Real, Lint:
			cursor = alignUp(cursor, f.Size)
			f.ByteOffset = cursor
			cursor += f.Size
		default:
			f.ByteOffset = cursor
		}

		l.index[p.Name] = len(l.fields)
		l.fields = append(l.fields, f)
		if f.End() > l.size {
			l.size = f.End()
		}
	}

	return l, nil
}

func alignUp(n, align int) int {
	if rem := n % align; rem != 0 {
		return n + align - rem
	}
	return n
}

// Fields returns a copy of the resolved fields in declaration order.
func (l *Layout) Fields() []Field {
	out := make([]Field, len(l.fields))
	copy(out, l.fields)
	return out
}

// Lookup returns the resolved field for name.
func (l *Layout) Lookup(name string) (Field, bool) {
	i, ok := l.index[name]
	if !ok {
		return Field{}, false
	}
	return l.fields[i], true
}

// Size is the minimum buffer length that covers every supported field.
func (l *Layout) Size() int {
	return l.size
}

// Unsupported lists fields whose type does not take part in packing.
// Offsets of fields declared after one of these are unlikely to match the
// controller.
func (l *Layout) Unsupported() []Field {
	var out []Field
	for _, f := range l.fields {
		if !f.Type.Supported() {
			out = append(out, f)
		}
	}
	return out
}
