package layout

import "errors"

var (
	// ErrUnsupportedType is returned for parameters that are not one of the
	// six packed scalar types.
	ErrUnsupportedType = errors.New("unsupported data type")
	// ErrUnknownParameter is returned when an encode target is not in the layout.
	ErrUnknownParameter = errors.New("unknown parameter")
	// ErrOutOfRange is returned when a resolved field lies past the end of the
	// buffer, which means the layout and buffer disagree.
	ErrOutOfRange = errors.New("offset out of range")
	// ErrParse is returned when a value string cannot be parsed as the
	// parameter's declared type.
	ErrParse = errors.New("cannot parse value")
	// ErrDuplicateParameter is returned by Resolve when two parameters share a name.
	ErrDuplicateParameter = errors.New("duplicate parameter")
)
