package validators

import (
	"net/http/httptest"
	"strings"
	"testing"

	pkgerrors "github.com/mobelhaus/showroom-backend/pkg/errors"
)

type samplePayload struct {
	Name  string `json:"name" validate:"required"`
	Count int    `json:"count" validate:"min=1"`
}

func TestDecodeJSONBody(t *testing.T) {
	t.Run("valid payload", func(t *testing.T) {
		r := httptest.NewRequest("POST", "/", strings.NewReader(`{"name":"Sofa","count":2}`))
		var payload samplePayload
		if err := DecodeJSONBody(r, &payload); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if payload.Name != "Sofa" || payload.Count != 2 {
			t.Fatalf("payload = %+v", payload)
		}
	})

	t.Run("unknown field rejected", func(t *testing.T) {
		r := httptest.NewRequest("POST", "/", strings.NewReader(`{"name":"Sofa","count":2,"extra":true}`))
		var payload samplePayload
		err := DecodeJSONBody(r, &payload)
		if err == nil {
			t.Fatal("expected error for unknown field")
		}
	})

	t.Run("missing required field uses json names", func(t *testing.T) {
		r := httptest.NewRequest("POST", "/", strings.NewReader(`{"count":2}`))
		var payload samplePayload
		err := DecodeJSONBody(r, &payload)
		if err == nil {
			t.Fatal("expected validation error")
		}
		typed := pkgerrors.As(err)
		if typed == nil || typed.Code() != pkgerrors.CodeValidation {
			t.Fatalf("expected validation code, got %v", err)
		}
		details, ok := typed.Details().(map[string]string)
		if !ok {
			t.Fatalf("details = %T", typed.Details())
		}
		if _, ok := details["name"]; !ok {
			t.Fatalf("details keyed by struct name, got %v", details)
		}
	})
}

func TestParseQueryInt(t *testing.T) {
	r := httptest.NewRequest("GET", "/?page=3&bad=x&big=999", nil)

	if got, err := ParseQueryInt(r, "page", 1, 1, 100); err != nil || got != 3 {
		t.Fatalf("page = %d, err = %v", got, err)
	}
	if got, err := ParseQueryInt(r, "missing", 7, 1, 100); err != nil || got != 7 {
		t.Fatalf("default = %d, err = %v", got, err)
	}
	if _, err := ParseQueryInt(r, "bad", 1, 1, 100); err == nil {
		t.Fatal("expected error for non-numeric value")
	}
	if _, err := ParseQueryInt(r, "big", 1, 1, 100); err == nil {
		t.Fatal("expected error for out-of-range value")
	}
}
