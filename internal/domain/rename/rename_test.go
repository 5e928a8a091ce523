package rename

import (
	"testing"
	"time"
)

func TestApply(t *testing.T) {
	v := Values{
		Created:  time.Date(2023, 7, 9, 14, 0, 0, 0, time.UTC),
		Title:    "Kids at the beach",
		Keywords: []string{"beach", "kids", "summer"},
		Stem:     "IMG_0042",
	}

	tests := []struct {
		name     string
		template string
		want     string
	}{
		{"date tokens", "%Y-%M-%D", "2023-07-09"},
		{"title", "%T", "Kids at the beach"},
		{"keywords dashed", "%K", "beach-kids-summer"},
		{"keywords listed", "%J", "beach, kids, summer"},
		{"original stem", "%F_copy", "IMG_0042_copy"},
		{"mixed", "%Y%M%D_%T", "20230709_Kids at the beach"},
		{"unknown token passes through", "%x%T", "%xKids at the beach"},
		{"lone percent at end", "%T%", "Kids at the beach%"},
		{"no tokens", "plain name", "plain name"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Apply(tt.template, v); got != tt.want {
				t.Fatalf("Apply(%q) = %q, want %q", tt.template, got, tt.want)
			}
		})
	}
}

func TestApply_SubstitutedTextIsNotRescanned(t *testing.T) {
	v := Values{
		Created:  time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
		Title:    "100%K done",
		Keywords: []string{"a", "b"},
	}

	got := Apply("%T_%K", v)
	if got != "100%K done_a-b" {
		t.Fatalf("expected title to stay literal, got %q", got)
	}
}

func TestApply_EpochFallbackDate(t *testing.T) {
	v := Values{Created: time.Unix(0, 0).UTC()}
	if got := Apply("%Y-%M-%D", v); got != "1970-01-01" {
		t.Fatalf("expected epoch date, got %q", got)
	}
}

func TestApply_EmptyKeywords(t *testing.T) {
	v := Values{Created: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)}
	if got := Apply("a%Kb%Jc", v); got != "abc" {
		t.Fatalf("expected empty joins, got %q", got)
	}
}

func TestNewPath(t *testing.T) {
	tests := []struct {
		name    string
		orig    string
		newName string
		want    string
	}{
		{"keeps extension case", "/videos/clip.MP4", "2023-07-09_beach", "/videos/2023-07-09_beach.MP4"},
		{"lowercase extension", "/videos/clip.mov", "new", "/videos/new.mov"},
		{"no extension", "/videos/clip", "new", "/videos/new"},
		{"relative path", "clip.mp4", "new", "new.mp4"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NewPath(tt.orig, tt.newName); got != tt.want {
				t.Fatalf("NewPath(%q, %q) = %q, want %q", tt.orig, tt.newName, got, tt.want)
			}
		})
	}
}

func TestStem(t *testing.T) {
	tests := map[string]string{
		"/videos/IMG_0042.mp4": "IMG_0042",
		"clip.MOV":             "clip",
		"archive.tar.gz":       "archive.tar",
		"noext":                "noext",
	}
	for in, want := range tests {
		t.Run(in, func(t *testing.T) {
			if got := Stem(in); got != want {
				t.Fatalf("Stem(%q) = %q, want %q", in, got, want)
			}
		})
	}
}
