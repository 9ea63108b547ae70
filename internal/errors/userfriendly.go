package errors

import (
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/tturner/aoiunit/internal/l5x"
	"github.com/tturner/aoiunit/internal/layout"
	"github.com/tturner/aoiunit/internal/tagstore"
)

// UserFriendlyError provides user-friendly error messages with context and hints
type UserFriendlyError struct {
	Message string
	Reason  string
	Hint    string
	Try     string
	Err     error
}

func (e UserFriendlyError) Error() string {
	var buf strings.Builder
	buf.WriteString(e.Message)
	if e.Reason != "" {
		buf.WriteString("\n  Reason: " + e.Reason)
	}
	if e.Hint != "" {
		buf.WriteString("\n  Hint: " + e.Hint)
	}
	if e.Try != "" {
		buf.WriteString("\n  Try: " + e.Try)
	}
	if e.Err != nil {
		buf.WriteString("\n  Details: " + e.Err.Error())
	}
	return buf.String()
}

func (e UserFriendlyError) Unwrap() error {
	return e.Err
}

// WrapConfigError wraps configuration errors with user-friendly context
func WrapConfigError(err error, configPath string) error {
	if err == nil {
		return nil
	}

	return UserFriendlyError{
		Message: fmt.Sprintf("Configuration error in %s", configPath),
		Reason:  err.Error(),
		Hint:    "Generate a commented starting point with: aoiunit validate-config --write-default",
		Try:     fmt.Sprintf("Validate your config: aoiunit validate-config --config %s", configPath),
		Err:     err,
	}
}

// WrapDefinitionError wraps errors reading an AOI definition export
func WrapDefinitionError(err error, path, aoi string) error {
	if err == nil {
		return nil
	}

	reason := "The file is not a readable L5X export"
	if stderrors.Is(err, l5x.ErrDefinitionNotFound) {
		reason = fmt.Sprintf("No AddOnInstructionDefinition named %q in the export", aoi)
	} else if stderrors.Is(err, layout.ErrDuplicateParameter) {
		reason = "Two parameters share the same name"
	}

	return UserFriendlyError{
		Message: fmt.Sprintf("Failed to load AOI definition from %s", path),
		Reason:  reason,
		Hint:    "Export the AOI (or the whole project) from Studio 5000 as L5X",
		Try:     fmt.Sprintf("aoiunit layout --definition %s", path),
		Err:     err,
	}
}

// WrapCodecError wraps decode/encode errors with user-friendly context
func WrapCodecError(err error, operation string) error {
	if err == nil {
		return nil
	}

	return UserFriendlyError{
		Message: fmt.Sprintf("Tag %s failed", operation),
		Reason:  extractCodecReason(err),
		Hint:    codecHint(err),
		Err:     err,
	}
}

// WrapStoreError wraps tag memory errors
func WrapStoreError(err error, tag string) error {
	if err == nil {
		return nil
	}

	reason := "Tag memory could not be read or written"
	if stderrors.Is(err, tagstore.ErrTagNotFound) {
		reason = fmt.Sprintf("Tag %s is not in the snapshot", tag)
	}
	return UserFriendlyError{
		Message: fmt.Sprintf("Tag access failed for %s", tag),
		Reason:  reason,
		Hint:    "Seed the snapshot with the instance bytes, or let run create a zeroed tag",
		Err:     err,
	}
}

func extractCodecReason(err error) string {
	switch {
	case stderrors.Is(err, layout.ErrUnknownParameter):
		return "Parameter is not declared on the AOI"
	case stderrors.Is(err, layout.ErrUnsupportedType):
		return "Parameter type is not one of BOOL, SINT, INT, DINT, LINT, REAL"
	case stderrors.Is(err, layout.ErrOutOfRange):
		return "Tag buffer is shorter than the resolved layout"
	case stderrors.Is(err, layout.ErrParse):
		return "Value cannot be parsed as the parameter's type"
	}
	return "Codec error occurred"
}

func codecHint(err error) string {
	switch {
	case stderrors.Is(err, layout.ErrUnknownParameter):
		return "Parameter names are case sensitive; list them with aoiunit layout"
	case stderrors.Is(err, layout.ErrOutOfRange):
		return "The buffer may belong to a different AOI revision"
	case stderrors.Is(err, layout.ErrParse):
		return "BOOL accepts true/false, yes/no, 1/0; integers are base 10"
	}
	return ""
}
