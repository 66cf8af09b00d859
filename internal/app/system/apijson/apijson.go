// Package apijson decodes JSON request bodies and writes JSON responses
// in the shapes every endpoint shares.
package apijson

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/dalemusser/crccards/internal/app/system/inputval"
	"go.uber.org/zap"
)

// DefaultMaxBodyBytes bounds a request body when no limit is configured.
const DefaultMaxBodyBytes int64 = 1 << 20

// Error messages used in {"error": ...} bodies.
const (
	MsgValidationFailed = "Validation failed"
	MsgInvalidJSON      = "Invalid JSON body"
	MsgBodyTooLarge     = "Request body too large"
	MsgInvalidID        = "Invalid id"
	MsgInvalidProjectID = "Invalid projectId"
	MsgNotFound         = "Not found"
	MsgMethodNotAllowed = "Method not allowed"
	MsgInternal         = "Internal server error"
)

var (
	ErrInvalidJSON  = errors.New("request body is not a JSON object")
	ErrBodyTooLarge = errors.New("request body too large")
)

// TypeError reports a body field whose JSON type does not match the
// expected one, such as a number where a string belongs.
type TypeError struct {
	Field    string
	Expected string
}

func (e *TypeError) Error() string {
	return fmt.Sprintf("%s must be %s", e.Field, e.Expected)
}

// ErrorBody is the shape of every error response.
type ErrorBody struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

// Decode reads a single JSON object from r's body into dst. The body is
// limited to maxBytes (DefaultMaxBodyBytes when <= 0). Unknown fields are
// ignored. It returns ErrInvalidJSON, ErrBodyTooLarge or the first
// *TypeError. On a *TypeError the rest of the object has still been decoded
// into dst.
func Decode(w http.ResponseWriter, r *http.Request, maxBytes int64, dst any) error {
	typeErrs, err := decode(w, r, maxBytes, dst)
	if err != nil {
		return err
	}
	if len(typeErrs) > 0 {
		return typeErrs[0]
	}
	return nil
}

// Bind decodes r's body into dst (a pointer to an input struct) and runs the
// struct-tag rules on it. A non-nil error is a body-level failure from
// Decode, for WriteDecodeError. Otherwise the Result lists every field
// violation, including each JSON type mismatch found while decoding.
func Bind(w http.ResponseWriter, r *http.Request, maxBytes int64, dst any) (*inputval.Result, error) {
	typeErrs, err := decode(w, r, maxBytes, dst)
	if err != nil {
		return nil, err
	}
	res := inputval.Validate(dst)
	// TypeMismatch puts each mismatch first; walk backwards to keep body order.
	for i := len(typeErrs) - 1; i >= 0; i-- {
		res.TypeMismatch(dst, typeErrs[i].Field, typeErrs[i].Expected)
	}
	return res, nil
}

func decode(w http.ResponseWriter, r *http.Request, maxBytes int64, dst any) ([]*TypeError, error) {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBodyBytes
	}
	if r.Body == nil {
		return nil, ErrInvalidJSON
	}
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBytes))
	if err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			return nil, ErrBodyTooLarge
		}
		return nil, ErrInvalidJSON
	}

	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, ErrInvalidJSON
	}

	var first *TypeError
	dec := json.NewDecoder(bytes.NewReader(trimmed))
	if err := dec.Decode(dst); err != nil {
		var ute *json.UnmarshalTypeError
		if !errors.As(err, &ute) {
			return nil, ErrInvalidJSON
		}
		first = &TypeError{Field: ute.Field, Expected: describe(ute.Type)}
	}
	if dec.More() {
		return nil, ErrInvalidJSON
	}
	if first == nil {
		return nil, nil
	}
	// encoding/json only reports the earliest mismatch.
	if all := fieldTypeErrors(trimmed, dst); len(all) > 0 {
		return all, nil
	}
	return []*TypeError{first}, nil
}

// fieldTypeErrors decodes each top-level member of body on its own into a
// scratch value of the matching dst field, collecting one mismatch per
// member in struct field order.
func fieldTypeErrors(body []byte, dst any) []*TypeError {
	t := reflect.TypeOf(dst)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil || t.Kind() != reflect.Struct {
		return nil
	}
	var members map[string]json.RawMessage
	if err := json.Unmarshal(body, &members); err != nil {
		return nil
	}

	var out []*TypeError
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			continue
		}
		if name == "" {
			name = f.Name
		}
		raw, ok := member(members, name)
		if !ok {
			continue
		}
		err := json.Unmarshal(raw, reflect.New(f.Type).Interface())
		var ute *json.UnmarshalTypeError
		if !errors.As(err, &ute) {
			continue
		}
		field := name
		if ute.Field != "" {
			field = name + "." + ute.Field
		}
		out = append(out, &TypeError{Field: field, Expected: describe(ute.Type)})
	}
	return out
}

// member looks a key up the way encoding/json matches it: exact first, then
// case-insensitively.
func member(members map[string]json.RawMessage, name string) (json.RawMessage, bool) {
	if raw, ok := members[name]; ok {
		return raw, true
	}
	for k, raw := range members {
		if strings.EqualFold(k, name) {
			return raw, true
		}
	}
	return nil, false
}

func describe(t reflect.Type) string {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.String:
		return "a string"
	case reflect.Slice, reflect.Array:
		return "a list"
	case reflect.Struct, reflect.Map:
		return "an object"
	case reflect.Bool:
		return "a boolean"
	case reflect.Int, reflect.Int32, reflect.Int64, reflect.Float32, reflect.Float64:
		return "a number"
	default:
		return "a valid value"
	}
}

// WriteJSON writes v as JSON with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Warn("write json response failed", zap.Error(err))
	}
}

// WriteError writes {"error": msg} with the given status.
func WriteError(w http.ResponseWriter, status int, msg string) {
	WriteJSON(w, status, ErrorBody{Error: msg})
}

// WriteValidation writes a 400 with a field to message mapping.
func WriteValidation(w http.ResponseWriter, fields map[string]string) {
	WriteJSON(w, http.StatusBadRequest, ErrorBody{Error: MsgValidationFailed, Fields: fields})
}

// WriteDecodeError writes the response matching an error from Decode.
func WriteDecodeError(w http.ResponseWriter, err error) {
	var te *TypeError
	switch {
	case errors.As(err, &te):
		field := te.Field
		if field == "" {
			field = "body"
		}
		WriteValidation(w, map[string]string{field: te.Error() + "."})
	case errors.Is(err, ErrBodyTooLarge):
		WriteError(w, http.StatusRequestEntityTooLarge, MsgBodyTooLarge)
	default:
		WriteError(w, http.StatusBadRequest, MsgInvalidJSON)
	}
}
