package resume

import (
	"strings"
	"testing"
)

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    string
		wantErr string
	}{
		{
			name: "prose around the object",
			in:   `Sure, here is the result: {"title":"a","description":"b","keywords":["c"]} hope it helps!`,
			want: `{"title":"a","description":"b","keywords":["c"]}`,
		},
		{
			name: "nested braces stay inside",
			in:   `x {"a":{"b":1}} y`,
			want: `{"a":{"b":1}}`,
		},
		{
			name: "stray closing brace before the object",
			in:   `} noise {"a":1}`,
			want: `{"a":1}`,
		},
		{
			name: "first object wins",
			in:   `{"a":1} {"b":2}`,
			want: `{"a":1}`,
		},
		{
			name:    "no object",
			in:      "no json here",
			wantErr: "no object found",
		},
		{
			name:    "empty input",
			in:      "",
			wantErr: "no object found",
		},
		{
			name:    "unbalanced object",
			in:      `{"a": {"b": 1}`,
			wantErr: "unbalanced object",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractJSON(tt.in)
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("ExtractJSON(%q) err = %v, want error containing %q", tt.in, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ExtractJSON(%q): %v", tt.in, err)
			}
			if got != tt.want {
				t.Fatalf("ExtractJSON(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestParse(t *testing.T) {
	r, err := Parse(`{"title":"Beach day","description":"Kids play in the sand","keywords":["beach","kids"]}`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if r.Title != "Beach day" || r.Description != "Kids play in the sand" {
		t.Fatalf("unexpected resume: %+v", r)
	}
	if len(r.Keywords) != 2 || r.Keywords[0] != "beach" || r.Keywords[1] != "kids" {
		t.Fatalf("unexpected keywords: %v", r.Keywords)
	}
}

func TestParse_RejectsProse(t *testing.T) {
	if _, err := Parse(`here you go: {"title":"a"}`); err == nil {
		t.Fatalf("expected error for non-JSON answer")
	}
}
