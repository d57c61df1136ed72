package protocol

import (
	"errors"
	"fmt"
)

// 单行解析的哨兵错误。
var (
	ErrUnsupportedProtocol  = errors.New("unsupported protocol")
	ErrDecode               = errors.New("decode error")
	ErrMalformedPayload     = errors.New("malformed payload")
	ErrMissingRequiredField = errors.New("missing required field")
)

const (
	unsupportedProtocolMessage = "Unsupported or invalid protocol."
	vmessMissingFieldsMessage  = "Invalid VMess config: missing required fields (ps, add, port, id)."
)

// ParseError describes why one share link could not be parsed.
//
// Error returns Message verbatim so it can be shown to users as the
// failure reason of the line.
type ParseError struct {
	Kind     error // one of the sentinels above
	Protocol Type  // empty when the scheme was not recognized
	Message  string
	Err      error // underlying decoder error, if any
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return e.Message
}

// Unwrap exposes the kind and the underlying error to errors.Is/As.
func (e *ParseError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func newParseError(kind error, proto Type, format string, args ...any) *ParseError {
	return &ParseError{
		Kind:     kind,
		Protocol: proto,
		Message:  fmt.Sprintf(format, args...),
	}
}

func wrapParseError(kind error, proto Type, err error, format string, args ...any) *ParseError {
	pe := newParseError(kind, proto, format, args...)
	pe.Err = err
	return pe
}
