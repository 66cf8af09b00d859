// Package inputval validates request payloads using struct tags.
//
// Rules come from go-playground/validator (`validate:"..."`), and a
// `label:"..."` tag supplies the human-readable field name used in messages.
// Field keys in a Result use the `json` tag name so clients can map an error
// back to the property they sent, e.g. "responsibilities" or
// "issueFlags[0].category".
package inputval

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// FieldError is one violated rule.
type FieldError struct {
	Field   string // json path of the field, e.g. "className"
	Message string // human-readable message
}

// Result holds every violation found in one payload.
type Result struct {
	Errors []FieldError
}

// HasErrors reports whether any rule was violated.
func (r *Result) HasErrors() bool {
	return len(r.Errors) > 0
}

// First returns the first message, or "" if there are none.
func (r *Result) First() string {
	if len(r.Errors) == 0 {
		return ""
	}
	return r.Errors[0].Message
}

// All joins every message with "; ".
func (r *Result) All() string {
	msgs := make([]string, 0, len(r.Errors))
	for _, e := range r.Errors {
		msgs = append(msgs, e.Message)
	}
	return strings.Join(msgs, "; ")
}

// Fields maps each violated field to its first message.
func (r *Result) Fields() map[string]string {
	out := make(map[string]string, len(r.Errors))
	for _, e := range r.Errors {
		if _, seen := out[e.Field]; !seen {
			out[e.Field] = e.Message
		}
	}
	return out
}

// Add appends a violation. Used for errors found outside struct tags,
// such as JSON type mismatches.
func (r *Result) Add(field, msg string) {
	r.Errors = append(r.Errors, FieldError{Field: field, Message: msg})
}

// TypeMismatch records that the JSON value at path had the wrong type.
// path is the dotted field path reported by encoding/json, which carries no
// list indexes ("issueFlags.category"); expected describes the wanted type,
// e.g. "a list". Rule violations already recorded for that field are
// replaced, and the mismatch keeps their indexed key when there is one.
func (r *Result) TypeMismatch(root any, path, expected string) {
	field := path
	if field == "" {
		field = "body"
	}
	rest := make([]FieldError, 0, len(r.Errors))
	for _, e := range r.Errors {
		if stripIndexes(e.Field) == path {
			if field == path {
				field = e.Field
			}
			continue
		}
		rest = append(rest, e)
	}
	msg := fmt.Sprintf("%s must be %s.", jsonLabel(reflect.TypeOf(root), path), expected)
	r.Errors = append([]FieldError{{Field: field, Message: msg}}, rest...)
}

func stripIndexes(field string) string {
	var b strings.Builder
	depth := 0
	for _, c := range field {
		switch {
		case c == '[':
			depth++
		case c == ']':
			depth--
		case depth == 0:
			b.WriteRune(c)
		}
	}
	return b.String()
}

// jsonLabel resolves the `label` tag of the field at a dotted json path.
// It falls back to the last path segment.
func jsonLabel(t reflect.Type, path string) string {
	if path == "" {
		return "Body"
	}
	parts := strings.Split(path, ".")
	label := parts[len(parts)-1]
	for i, p := range parts {
		for t != nil && (t.Kind() == reflect.Ptr || t.Kind() == reflect.Slice || t.Kind() == reflect.Array) {
			t = t.Elem()
		}
		if t == nil || t.Kind() != reflect.Struct {
			return parts[len(parts)-1]
		}
		f, ok := fieldByJSONName(t, p)
		if !ok {
			return parts[len(parts)-1]
		}
		if i == len(parts)-1 {
			if l := f.Tag.Get("label"); l != "" {
				label = l
			}
		}
		t = f.Type
	}
	return label
}

func fieldByJSONName(t reflect.Type, name string) (reflect.StructField, bool) {
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		tag := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if tag == name || (tag == "" && strings.EqualFold(f.Name, name)) {
			return f, true
		}
	}
	return reflect.StructField{}, false
}

var (
	once     sync.Once
	validate *validator.Validate
)

func instance() *validator.Validate {
	once.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name == "" {
				return f.Name
			}
			return name
		})
		registerCustomRules(v)
		validate = v
	})
	return validate
}

// Validate runs the struct-tag rules on s and collects every violation.
func Validate(s any) *Result {
	res := &Result{}
	err := instance().Struct(s)
	if err == nil {
		return res
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		res.Add("", err.Error())
		return res
	}

	t := reflect.TypeOf(s)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	for _, fe := range verrs {
		res.Add(fieldPath(fe.Namespace()), message(fe, labelFor(t, fe.StructNamespace())))
	}
	return res
}

// fieldPath drops the leading struct name from a validator namespace.
func fieldPath(ns string) string {
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

// labelFor resolves the `label` tag of the field addressed by a struct
// namespace such as "createCardInput.IssueFlags[0].Category".
func labelFor(root reflect.Type, structNS string) string {
	parts := strings.Split(fieldPath(structNS), ".")
	t := root
	var label string
	for _, p := range parts {
		name := p
		if i := strings.IndexByte(p, '['); i >= 0 {
			name = p[:i]
		}
		for t.Kind() == reflect.Ptr || t.Kind() == reflect.Slice {
			t = t.Elem()
		}
		if t.Kind() != reflect.Struct {
			break
		}
		f, ok := t.FieldByName(name)
		if !ok {
			break
		}
		label = f.Tag.Get("label")
		if label == "" {
			label = f.Name
		}
		t = f.Type
	}
	return label
}

func message(fe validator.FieldError, label string) string {
	isList := fe.Kind() == reflect.Slice || fe.Kind() == reflect.Array
	switch fe.Tag() {
	case "required":
		if strings.HasSuffix(fe.Namespace(), "]") {
			return fmt.Sprintf("%s must not contain null entries.", label)
		}
		return fmt.Sprintf("%s is required.", label)
	case "notblank":
		return fmt.Sprintf("%s must not be blank.", label)
	case "min":
		if isList {
			return fmt.Sprintf("%s must contain at least %s %s.", label, fe.Param(), plural(fe.Param(), "item"))
		}
		return fmt.Sprintf("%s must be at least %s characters.", label, fe.Param())
	case "max":
		if isList {
			return fmt.Sprintf("%s must contain at most %s %s.", label, fe.Param(), plural(fe.Param(), "item"))
		}
		return fmt.Sprintf("%s must be at most %s characters.", label, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s.", label, strings.ReplaceAll(fe.Param(), " ", ", "))
	case "inert":
		return fmt.Sprintf("%s must not contain executable markup.", label)
	case "objectid":
		return fmt.Sprintf("%s must be a valid id.", label)
	default:
		return fmt.Sprintf("%s is invalid.", label)
	}
}

func plural(n, word string) string {
	if n == "1" {
		return word
	}
	return word + "s"
}
