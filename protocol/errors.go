package protocol

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrMissingField        = errors.New("missing field")
	ErrUnrecognizedLiteral = errors.New("unrecognized literal")
	ErrMalformedNumber     = errors.New("malformed number")
)

// DecodeError reports why a protocol node could not be turned into a value.
// Kind is one of the sentinels above and matches with errors.Is.
type DecodeError struct {
	Kind      error
	Element   string // Name of the node being decoded
	Attribute string // Offending attribute, if any
	Child     string // Missing child element, if any
	Value     string // Raw text that failed to parse
	Err       error  // Underlying parse error
}

func (e *DecodeError) Error() string {
	var sb strings.Builder
	sb.WriteString(e.Kind.Error())
	switch {
	case e.Child != "":
		fmt.Fprintf(&sb, " <%s> in <%s>", e.Child, e.Element)
	case e.Attribute != "":
		fmt.Fprintf(&sb, " %q in <%s>", e.Attribute, e.Element)
	case e.Element != "":
		fmt.Fprintf(&sb, " <%s>", e.Element)
	}
	if e.Value != "" {
		fmt.Fprintf(&sb, ": %q", e.Value)
	}
	if e.Err != nil {
		fmt.Fprintf(&sb, ": %v", e.Err)
	}
	return sb.String()
}

func (e *DecodeError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}
