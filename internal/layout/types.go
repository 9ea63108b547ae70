package layout

import "strings"

// DataType is the declared kind of an AOI parameter. Only the six Logix
// atomic scalars take part in byte-layout packing.
type DataType int

const (
	Unsupported DataType = iota
	Bool
	Sint
	Int
	Dint
	Lint
	Real
)

// ParseDataType maps an L5X data type name to a DataType.
// Unknown names (STRING, TIMER, UDTs, ...) map to Unsupported.
func ParseDataType(name string) DataType {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "BOOL":
		return Bool
	case "SINT":
		return Sint
	case "INT":
		return Int
	case "DINT":
		return Dint
	case "LINT":
		return Lint
	case "REAL":
		return Real
	default:
		return Unsupported
	}
}

// Size returns the number of bytes the type occupies in a tag buffer.
// BOOL reports the size of its shared host word.
func (t DataType) Size() int {
	switch t {
	case Sint:
		return 1
	case Int:
		return 2
	case Bool, Dint, Real:
		return 4
	case Lint:
		return 8
	default:
		return 0
	}
}

// Supported reports whether the type can be resolved, decoded and encoded.
func (t DataType) Supported() bool {
	return t != Unsupported
}

func (t DataType) String() string {
	switch t {
	case Bool:
		return "BOOL"
	case Sint:
		return "SINT"
	case Int:
		return "INT"
	case Dint:
		return "DINT"
	case Lint:
		return "LINT"
	case Real:
		return "REAL"
	default:
		return "UNSUPPORTED"
	}
}

// Usage is the parameter direction declared on the AOI.
type Usage int

const (
	Input Usage = iota
	Output
	InOut
)

// ParseUsage maps an L5X Usage attribute. Empty or unknown values are Input,
// which is how Logix treats a parameter without an explicit usage.
func ParseUsage(s string) Usage {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "output":
		return Output
	case "inout":
		return InOut
	default:
		return Input
	}
}

func (u Usage) String() string {
	switch u {
	case Output:
		return "Output"
	case InOut:
		return "InOut"
	default:
		return "Input"
	}
}

// Parameter describes one declared AOI member in declaration order.
type Parameter struct {
	Name     string
	Type     DataType
	TypeName string // declared name as written in the definition
	Usage    Usage
	Required bool
	Visible  bool
}

// Field is a Parameter with its resolved position in the tag buffer.
type Field struct {
	Parameter

	ByteOffset int // start of the value, or of the host word for BOOL
	BitIndex   int // BOOL only: 31 for the first BOOL in a host word, counting down
	Size       int // bytes covered at ByteOffset; 0 for unsupported types
}

// HostBit returns the little-endian bit number within the host word that
// holds a BOOL field.
func (f Field) HostBit() uint {
	return uint(31 - f.BitIndex)
}

// End returns the first byte past the field.
func (f Field) End() int {
	return f.ByteOffset + f.Size
}

// Values maps parameter names to decoded, formatted values.
type Values map[string]string
