package kvrest

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
)

// Kind classifies a successful response body.
type Kind int

const (
	// KindData is a body that parsed as JSON.
	KindData Kind = iota
	// KindEmpty is a zero-length body.
	KindEmpty
	// KindUndecodable is a non-empty body that is not JSON.
	KindUndecodable
)

func (k Kind) String() string {
	switch k {
	case KindData:
		return "data"
	case KindEmpty:
		return "empty"
	case KindUndecodable:
		return "undecodable"
	default:
		return "unknown"
	}
}

// Result is the normalized body of a successful (200/201) response.
type Result struct {
	Kind Kind
	// Value is the decoded JSON for KindData, using encoding/json's generic
	// types (map[string]any, []any, float64, string, bool, nil).
	Value any
	// Raw is the response body as received.
	Raw []byte
	// Err is the parse error for KindUndecodable.
	Err error
}

// ErrEmptyResult is returned by Into when the response had no body.
var ErrEmptyResult = stderrors.New("kvrest: empty response body")

// DecodeError reports a successful response whose body could not be decoded
// into the requested shape.
type DecodeError struct {
	Raw []byte
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("kvrest: decode response: %v (raw: %q)", e.Err, truncate(e.Raw, 256))
}

func (e *DecodeError) Unwrap() error { return e.Err }

func decodeResult(body []byte) Result {
	if len(body) == 0 {
		return Result{Kind: KindEmpty}
	}
	var v any
	if err := json.Unmarshal(body, &v); err != nil {
		return Result{Kind: KindUndecodable, Raw: body, Err: err}
	}
	return Result{Kind: KindData, Value: v, Raw: body}
}

// IsEmpty reports whether the response had no body.
func (r Result) IsEmpty() bool { return r.Kind == KindEmpty }

// IsUndecodable reports whether the body was not JSON.
func (r Result) IsUndecodable() bool { return r.Kind == KindUndecodable }

// Into decodes a data result into target. It returns ErrEmptyResult for an
// empty body and a *DecodeError when the body is not JSON or does not fit
// target.
func (r Result) Into(target any) error {
	switch r.Kind {
	case KindEmpty:
		return ErrEmptyResult
	case KindUndecodable:
		return &DecodeError{Raw: r.Raw, Err: r.Err}
	}
	if err := json.Unmarshal(r.Raw, target); err != nil {
		return &DecodeError{Raw: r.Raw, Err: err}
	}
	return nil
}

// String renders the result for display: the JSON body, "<empty>" or
// "<undecodable: raw>".
func (r Result) String() string {
	switch r.Kind {
	case KindEmpty:
		return "<empty>"
	case KindUndecodable:
		return "<undecodable: " + string(r.Raw) + ">"
	default:
		return string(r.Raw)
	}
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
