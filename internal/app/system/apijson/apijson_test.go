package apijson_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dalemusser/crccards/internal/app/system/apijson"
)

type body struct {
	Name  *string   `json:"name"`
	Items *[]string `json:"items"`
}

func decode(t *testing.T, raw string, max int64) (body, error) {
	t.Helper()
	var b body
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(raw))
	w := httptest.NewRecorder()
	return b, apijson.Decode(w, r, max, &b)
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr error
	}{
		{"object", `{"name":"x","items":["a"]}`, nil},
		{"empty object", `{}`, nil},
		{"unknown fields ignored", `{"name":"x","extra":1}`, nil},
		{"empty body", ``, apijson.ErrInvalidJSON},
		{"array", `["a"]`, apijson.ErrInvalidJSON},
		{"null", `null`, apijson.ErrInvalidJSON},
		{"malformed", `{"name":`, apijson.ErrInvalidJSON},
		{"trailing data", `{"name":"x"}{"name":"y"}`, apijson.ErrInvalidJSON},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := decode(t, tt.raw, 0)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Decode(%q) error = %v, want %v", tt.raw, err, tt.wantErr)
			}
		})
	}
}

func TestDecode_NullMeansAbsent(t *testing.T) {
	b, err := decode(t, `{"name":null,"items":null}`, 0)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if b.Name != nil || b.Items != nil {
		t.Errorf("expected nil fields, got %+v", b)
	}
}

func TestDecode_TypeError(t *testing.T) {
	_, err := decode(t, `{"name":5}`, 0)
	var te *apijson.TypeError
	if !errors.As(err, &te) {
		t.Fatalf("expected TypeError, got %v", err)
	}
	if te.Field != "name" || te.Expected != "a string" {
		t.Errorf("unexpected TypeError: %+v", te)
	}

	_, err = decode(t, `{"items":"a"}`, 0)
	if !errors.As(err, &te) || te.Expected != "a list" {
		t.Errorf("expected list TypeError, got %v", err)
	}
}

func TestDecode_TooLarge(t *testing.T) {
	_, err := decode(t, `{"name":"`+strings.Repeat("x", 100)+`"}`, 16)
	if !errors.Is(err, apijson.ErrBodyTooLarge) {
		t.Errorf("expected ErrBodyTooLarge, got %v", err)
	}
}

func TestWriteDecodeError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantError  string
		wantField  string
	}{
		{"invalid json", apijson.ErrInvalidJSON, http.StatusBadRequest, apijson.MsgInvalidJSON, ""},
		{"too large", apijson.ErrBodyTooLarge, http.StatusRequestEntityTooLarge, apijson.MsgBodyTooLarge, ""},
		{"type error", &apijson.TypeError{Field: "name", Expected: "a string"}, http.StatusBadRequest, apijson.MsgValidationFailed, "name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			apijson.WriteDecodeError(w, tt.err)

			if w.Code != tt.wantStatus {
				t.Errorf("status: got %d, want %d", w.Code, tt.wantStatus)
			}
			var got apijson.ErrorBody
			if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
				t.Fatalf("decode response: %v", err)
			}
			if got.Error != tt.wantError {
				t.Errorf("error: got %q, want %q", got.Error, tt.wantError)
			}
			if tt.wantField != "" && got.Fields[tt.wantField] == "" {
				t.Errorf("expected field %q in %v", tt.wantField, got.Fields)
			}
		})
	}
}

func TestWriteJSON(t *testing.T) {
	w := httptest.NewRecorder()
	apijson.WriteJSON(w, http.StatusCreated, map[string]bool{"ok": true})

	if w.Code != http.StatusCreated {
		t.Errorf("status: got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
		t.Errorf("Content-Type: got %q", ct)
	}
	if strings.TrimSpace(w.Body.String()) != `{"ok":true}` {
		t.Errorf("body: got %q", w.Body.String())
	}
}

func TestDecode_TypeErrorKeepsOtherFields(t *testing.T) {
	b, err := decode(t, `{"items":"a","name":"kept"}`, 0)
	var te *apijson.TypeError
	if !errors.As(err, &te) || te.Field != "items" {
		t.Fatalf("expected items TypeError, got %v", err)
	}
	if b.Name == nil || *b.Name != "kept" {
		t.Errorf("name: got %v, want kept", b.Name)
	}

	// A type error does not hide trailing data.
	if _, err := decode(t, `{"items":"a"}{}`, 0); !errors.Is(err, apijson.ErrInvalidJSON) {
		t.Errorf("expected ErrInvalidJSON, got %v", err)
	}
}

type bindInput struct {
	Name  string   `json:"name" validate:"required,notblank" label:"Name"`
	Items []string `json:"items" validate:"required,min=1" label:"Items"`
	Tags  []string `json:"tags" validate:"required,min=1" label:"Tags"`
}

func TestBind(t *testing.T) {
	bind := func(raw string) (map[string]string, error) {
		var in bindInput
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(raw))
		res, err := apijson.Bind(httptest.NewRecorder(), r, 0, &in)
		if err != nil {
			return nil, err
		}
		return res.Fields(), nil
	}

	t.Run("type error reported with every other violation", func(t *testing.T) {
		fields, err := bind(`{"items":"a","tags":[]}`)
		if err != nil {
			t.Fatalf("Bind error: %v", err)
		}
		want := map[string]string{
			"name":  "Name is required.",
			"items": "Items must be a list.",
			"tags":  "Tags must contain at least 1 item.",
		}
		if len(fields) != len(want) {
			t.Errorf("fields: got %v, want %v", fields, want)
		}
		for k, v := range want {
			if fields[k] != v {
				t.Errorf("%s: got %q, want %q", k, fields[k], v)
			}
		}
	})

	t.Run("valid", func(t *testing.T) {
		fields, err := bind(`{"name":"x","items":["a"],"tags":["b"]}`)
		if err != nil || len(fields) != 0 {
			t.Errorf("Bind = %v, %v; want no violations", fields, err)
		}
	})

	t.Run("body-level failure", func(t *testing.T) {
		if _, err := bind(`[]`); !errors.Is(err, apijson.ErrInvalidJSON) {
			t.Errorf("expected ErrInvalidJSON, got %v", err)
		}
	})
}

func TestBind_EveryTypeMismatch(t *testing.T) {
	var in bindInput
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":5,"items":"a","tags":["x"]}`))
	res, err := apijson.Bind(httptest.NewRecorder(), r, 0, &in)
	if err != nil {
		t.Fatalf("Bind error: %v", err)
	}

	fields := res.Fields()
	if got := fields["name"]; got != "Name must be a string." {
		t.Errorf("name: got %q", got)
	}
	if got := fields["items"]; got != "Items must be a list." {
		t.Errorf("items: got %q", got)
	}
	if len(fields) != 2 {
		t.Errorf("fields: got %v, want name and items only", fields)
	}
	if res.Errors[0].Field != "name" || res.Errors[1].Field != "items" {
		t.Errorf("order: got %v", res.Errors)
	}
	if len(in.Tags) != 1 || in.Tags[0] != "x" {
		t.Errorf("tags: got %v, want [x]", in.Tags)
	}
}
