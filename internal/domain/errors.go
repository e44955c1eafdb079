package domain

import "fmt"

// ErrorKind classifies extraction failures. The kinds are diagnostic:
// callers treat any ParseError as "extraction failed" and log the detail.
type ErrorKind int

const (
	// ErrAnchorNotFound means a required substring (the script anchor, the
	// opening brace after it, or a record's closing brace) never occurs in
	// the remaining input. Usually signals an upstream page-format change.
	ErrAnchorNotFound ErrorKind = iota

	// ErrUnexpectedToken means a required literal token was absent.
	ErrUnexpectedToken

	// ErrUnterminatedString means a single-quoted string was opened but
	// never closed before the end of input.
	ErrUnterminatedString

	// ErrExpectedInteger means a numeric field's value did not start with
	// a digit.
	ErrExpectedInteger

	// ErrFieldMismatch means a record field appeared under an unexpected
	// name or out of the required order.
	ErrFieldMismatch
)

func (k ErrorKind) String() string {
	switch k {
	case ErrAnchorNotFound:
		return "anchor not found"
	case ErrUnexpectedToken:
		return "unexpected token"
	case ErrUnterminatedString:
		return "unterminated string"
	case ErrExpectedInteger:
		return "expected integer"
	case ErrFieldMismatch:
		return "field mismatch"
	default:
		return "unknown"
	}
}

// ParseError reports a positioned extraction failure. Pos is a byte offset
// into the input passed to Extract. Expected and Found are populated where
// they add detail (the missing token, the mismatched field name).
type ParseError struct {
	Kind     ErrorKind
	Pos      int
	Expected string
	Found    string
}

func (e *ParseError) Error() string {
	switch e.Kind {
	case ErrAnchorNotFound:
		return fmt.Sprintf("offset %d: %q not found in remaining input", e.Pos, e.Expected)
	case ErrUnexpectedToken:
		return fmt.Sprintf("offset %d: expected %q", e.Pos, e.Expected)
	case ErrUnterminatedString:
		return fmt.Sprintf("offset %d: unterminated string", e.Pos)
	case ErrExpectedInteger:
		return fmt.Sprintf("offset %d: expected integer", e.Pos)
	case ErrFieldMismatch:
		return fmt.Sprintf("offset %d: expected field %q, found %q", e.Pos, e.Expected, e.Found)
	default:
		return fmt.Sprintf("offset %d: parse error", e.Pos)
	}
}
