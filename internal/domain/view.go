package domain

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// MarkView is the plain-data projection of a mark handed to presentation.
type MarkView struct {
	Date        string    `json:"date"`
	Key         string    `json:"key"`
	Title       string    `json:"title"`
	Note        string    `json:"note"`
	HrefMark    string    `json:"href_mark"`
	HrefEdit    string    `json:"href_edit"`
	HrefMarkURL string    `json:"href_mark_url"`
	Tags        []TagLink `json:"tags"`
	Damaged     string    `json:"damaged,omitempty"`
}

// TagLink is a tag as shown next to a mark.
type TagLink struct {
	Name string `json:"name_tag"`
	Href string `json:"href_tag"`
}

// TagView is the projection of one tag catalog entry.
type TagView struct {
	Name  string `json:"name_tag"`
	Href  string `json:"href_tag"`
	Count int    `json:"num_tagged"`
}

var hrefEscaper = strings.NewReplacer(
	" ", "%20",
	`"`, "%22",
	"<", "%3C",
	">", "%3E",
)

// TagHref returns the listing URL of a tag under prefix.
func TagHref(prefix, tag string) string {
	return prefix + "/" + url.PathEscape(tag) + "/"
}

// View projects the mark for presentation under the given path prefix.
func (m Mark) View(prefix string) MarkView {
	key := m.Key().String()
	v := MarkView{
		Date:        time.Unix(m.Stamp, 0).UTC().Format("2006-01-02"),
		Key:         key,
		Title:       m.DisplayTitle(),
		Note:        m.Note,
		HrefMark:    fmt.Sprintf("%s/mark.%s", prefix, key),
		HrefEdit:    fmt.Sprintf("%s/edit?mark=%s", prefix, key),
		HrefMarkURL: hrefEscaper.Replace(m.URL),
		Tags:        make([]TagLink, 0, len(m.Tags)),
	}
	for _, t := range m.Tags {
		v.Tags = append(v.Tags, TagLink{Name: t, Href: TagHref(prefix, t)})
	}
	return v
}

// View projects a catalog entry for presentation.
func (t TagCount) View(prefix string) TagView {
	return TagView{Name: t.Name, Href: TagHref(prefix, t.Name), Count: t.Count}
}
