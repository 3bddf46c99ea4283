package form

import (
	"errors"
	"net/url"
	"strconv"
	"testing"
)

func TestCollectCountBounds(t *testing.T) {
	for count := -2; count <= 25; count++ {
		v := url.Values{FieldStyle: {"humorous"}, FieldCount: {strconv.Itoa(count)}}
		req, err := Collect(v)
		inside := count >= 6 && count <= 15
		if inside {
			if err != nil {
				t.Fatalf("count %d rejected: %v", count, err)
			}
			if req.Count != count || req.Style != "humorous" {
				t.Fatalf("unexpected request %+v", req)
			}
			continue
		}
		var verr *ValidationError
		if !errors.As(err, &verr) || verr.Field != FieldCount {
			t.Fatalf("count %d: expected count ValidationError, got %v", count, err)
		}
	}
}

func TestCollectRejects(t *testing.T) {
	tests := []struct {
		name  string
		v     url.Values
		field string
	}{
		{"missing style", url.Values{FieldCount: {"6"}}, FieldStyle},
		{"blank style", url.Values{FieldStyle: {"  "}, FieldCount: {"6"}}, FieldStyle},
		{"unknown style", url.Values{FieldStyle: {"gothic"}, FieldCount: {"6"}}, FieldStyle},
		{"missing count", url.Values{FieldStyle: {"humorous"}}, FieldCount},
		{"non numeric", url.Values{FieldStyle: {"humorous"}, FieldCount: {"six"}}, FieldCount},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Collect(tt.v)
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if verr.Field != tt.field {
				t.Fatalf("expected field %s, got %s", tt.field, verr.Field)
			}
		})
	}
}
