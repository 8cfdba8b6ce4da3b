package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
)

// DecodeError reports a response body that is not valid JSON.
type DecodeError struct {
	// Size is the length of the rejected body in bytes.
	Size int
	// Err is the underlying syntax error.
	Err error
}

// Error implements the error interface.
func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode error: response (%d bytes) is not valid JSON: %v", e.Size, e.Err)
}

// Unwrap returns the underlying cause.
func (e *DecodeError) Unwrap() error {
	return e.Err
}

// errTrailingData is the cause of a DecodeError for bodies with content after the JSON value.
var errTrailingData = errors.New("unexpected data after top-level value")

// Decode parses a response body into a Document.
//
// Only malformed JSON is an error. Missing or mistyped fields fall back to
// zero values, so the body is decoded into a generic tree and fields are
// picked out of it.
func Decode(body []byte) (*Document, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var root any
	if err := dec.Decode(&root); err != nil {
		return nil, &DecodeError{Size: len(body), Err: err}
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		if err == nil {
			err = errTrailingData
		}
		return nil, &DecodeError{Size: len(body), Err: err}
	}

	return &Document{QueryResult: buildQueryResult(field(root, "queryresult"))}, nil
}

// buildQueryResult converts the "queryresult" value.
func buildQueryResult(v any) QueryResult {
	qr := QueryResult{
		NumPods:   count(field(v, "numpods")),
		Success:   boolean(field(v, "success")),
		Error:     apiError(field(v, "error")),
		Timing:    number(field(v, "timing")),
		DataTypes: stringOrEmpty(field(v, "datatypes")),
	}
	for _, p := range list(field(v, "pods")) {
		qr.Pods = append(qr.Pods, buildPod(p))
	}
	return qr
}

// buildPod converts one element of "pods".
func buildPod(v any) Pod {
	pod := Pod{
		Title:      str(field(v, "title")),
		ID:         stringOrEmpty(field(v, "id")),
		Scanner:    stringOrEmpty(field(v, "scanner")),
		NumSubpods: count(field(v, "numsubpods")),
	}
	for _, s := range list(field(v, "subpods")) {
		pod.Subpods = append(pod.Subpods, Subpod{
			Plaintext: str(field(s, "plaintext")),
			Title:     stringOrEmpty(field(s, "title")),
		})
	}
	return pod
}

// apiError converts the "error" value, which is false on success and an object otherwise.
func apiError(v any) *APIError {
	if _, ok := v.(map[string]any); !ok {
		return nil
	}
	code := stringOrEmpty(field(v, "code"))
	if n, ok := field(v, "code").(json.Number); ok {
		code = n.String()
	}
	return &APIError{
		Code: code,
		Msg:  stringOrEmpty(field(v, "msg")),
	}
}

// field returns v[key] when v is an object, otherwise nil.
func field(v any, key string) any {
	obj, ok := v.(map[string]any)
	if !ok {
		return nil
	}
	return obj[key]
}

// list returns v when it is an array, otherwise nil.
func list(v any) []any {
	arr, _ := v.([]any) //nolint:errcheck // non-arrays are treated as empty
	return arr
}

// str returns a pointer to v when it is a string, otherwise nil.
func str(v any) *string {
	s, ok := v.(string)
	if !ok {
		return nil
	}
	return &s
}

// stringOrEmpty returns v when it is a string, otherwise "".
func stringOrEmpty(v any) string {
	s, _ := v.(string) //nolint:errcheck // non-strings are treated as empty
	return s
}

// count returns v when it is a non-negative integral number, otherwise 0.
// Floats such as 2.0 and numeric strings such as "2" do not count.
func count(v any) uint64 {
	n, ok := v.(json.Number)
	if !ok {
		return 0
	}
	c, err := strconv.ParseUint(n.String(), 10, 64)
	if err != nil {
		return 0
	}
	return c
}

// number returns v as a float64 when it is a number, otherwise 0.
func number(v any) float64 {
	n, ok := v.(json.Number)
	if !ok {
		return 0
	}
	f, err := n.Float64()
	if err != nil {
		return 0
	}
	return f
}

// boolean returns a pointer to v when it is a bool, otherwise nil.
func boolean(v any) *bool {
	b, ok := v.(bool)
	if !ok {
		return nil
	}
	return &b
}
