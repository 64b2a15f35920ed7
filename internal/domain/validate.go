package domain

import (
	"fmt"
	"strings"
	"unicode"
)

// ValidateTag checks a single tag name.
func ValidateTag(tag string) error {
	if tag == "" {
		return fmt.Errorf("%w: empty tag", ErrValidation)
	}
	if strings.Contains(tag, "/") {
		return fmt.Errorf("%w: tag %q contains a slash", ErrValidation, tag)
	}
	if strings.IndexFunc(tag, unicode.IsSpace) >= 0 {
		return fmt.Errorf("%w: tag %q contains whitespace", ErrValidation, tag)
	}
	return nil
}

// ValidateMark checks caller input for insert and edit. Nothing touches
// disk when it fails.
func ValidateMark(title, url, note string, tags []string) error {
	if url == "" {
		return fmt.Errorf("%w: url is required", ErrValidation)
	}
	if len(tags) == 0 {
		return fmt.Errorf("%w: at least one tag is required", ErrValidation)
	}
	fields := []struct{ name, value string }{
		{"title", title},
		{"url", url},
		{"note", note},
	}
	for _, f := range fields {
		if strings.ContainsAny(f.value, "\r\n") {
			return fmt.Errorf("%w: %s contains a line break", ErrValidation, f.name)
		}
	}
	for _, t := range tags {
		if err := ValidateTag(t); err != nil {
			return err
		}
	}
	return nil
}

// SplitTags splits a user supplied tag string on whitespace and drops
// duplicates, keeping first occurrence order.
func SplitTags(s string) []string {
	fields := strings.Fields(s)
	out := make([]string, 0, len(fields))
	seen := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		if _, ok := seen[f]; ok {
			continue
		}
		seen[f] = struct{}{}
		out = append(out, f)
	}
	return out
}
