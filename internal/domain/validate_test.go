package domain

import (
	"errors"
	"slices"
	"testing"
)

func TestValidateMark(t *testing.T) {
	tests := []struct {
		name    string
		title   string
		url     string
		note    string
		tags    []string
		wantErr bool
	}{
		{"valid", "t", "http://x", "", []string{"a"}, false},
		{"empty title ok", "", "http://x", "n", []string{"a", "проверка"}, false},
		{"missing url", "t", "", "", []string{"a"}, true},
		{"no tags", "t", "http://x", "", nil, true},
		{"slash in tag", "t", "http://x", "", []string{"a/b"}, true},
		{"space in tag", "t", "http://x", "", []string{"a b"}, true},
		{"newline in tag", "t", "http://x", "", []string{"a\nb"}, true},
		{"empty tag", "t", "http://x", "", []string{""}, true},
		{"newline in title", "t\n", "http://x", "", []string{"a"}, true},
		{"carriage return in note", "t", "http://x", "a\rb", []string{"a"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateMark(tt.title, tt.url, tt.note, tt.tags)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateMark() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrValidation) {
				t.Errorf("ValidateMark() error = %v, want ErrValidation", err)
			}
		})
	}
}

func TestSplitTags(t *testing.T) {
	got := SplitTags("  b a\tb  c ")
	want := []string{"b", "a", "c"}
	if !slices.Equal(got, want) {
		t.Errorf("SplitTags() = %v, want %v", got, want)
	}
	if len(SplitTags("   ")) != 0 {
		t.Error("SplitTags() of blanks should be empty")
	}
}
