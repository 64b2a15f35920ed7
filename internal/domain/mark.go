package domain

import "time"

// Mark is one stored bookmark.
type Mark struct {
	Stamp   int64   // creation time, UNIX seconds
	Fix     int     // fixup counter for same-second collisions
	ModTime float64 // last write, UNIX seconds; 0 when unknown
	Title   string
	URL     string
	Note    string
	Tags    []string
}

// Key returns the permanent identity of the mark.
func (m Mark) Key() Key {
	return Key{Stamp: m.Stamp, Fix: m.Fix}
}

// DisplayTitle returns the title, or the URL when the title is empty.
func (m Mark) DisplayTitle() string {
	if m.Title == "" {
		return m.URL
	}
	return m.Title
}

// Modified returns ModTime as a time, truncated to whole seconds.
// It returns the zero time for legacy records without one.
func (m Mark) Modified() time.Time {
	if m.ModTime <= 0 {
		return time.Time{}
	}
	return time.Unix(int64(m.ModTime), 0).UTC()
}

// TagCount is one entry of the tag catalog.
type TagCount struct {
	Name  string
	Count int
}
