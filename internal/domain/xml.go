package domain

import (
	"strings"
	"time"
)

// ExportTimeFormat is the Delicious export time layout, always UTC.
const ExportTimeFormat = "2006-01-02T15:04:05Z"

var attrEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	"\n", "&#10;",
	"\r", "&#13;",
	"\t", "&#9;",
)

// QuoteAttr escapes s for use as an XML attribute value and wraps it in
// quotes. A value holding double quotes but no single quotes is wrapped in
// single quotes so that it stays byte-compatible with existing exports.
func QuoteAttr(s string) string {
	s = attrEscaper.Replace(s)
	if strings.Contains(s, `"`) {
		if strings.Contains(s, "'") {
			return `"` + strings.ReplaceAll(s, `"`, "&quot;") + `"`
		}
		return "'" + s + "'"
	}
	return `"` + s + `"`
}

// XML renders the mark as a single <post/> line of a Delicious export.
func (m Mark) XML() string {
	var b strings.Builder
	b.WriteString("  <post href=")
	b.WriteString(QuoteAttr(m.URL))
	b.WriteString(" description=")
	b.WriteString(QuoteAttr(m.Title))
	b.WriteString(" tag=")
	b.WriteString(QuoteAttr(strings.Join(m.Tags, " ")))
	b.WriteString(` time="`)
	b.WriteString(time.Unix(m.Stamp, 0).UTC().Format(ExportTimeFormat))
	b.WriteString(`" extended=`)
	b.WriteString(QuoteAttr(m.Note))
	b.WriteString(" />\n")
	return b.String()
}
