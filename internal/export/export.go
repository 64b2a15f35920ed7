// Package export writes a mark store as a Delicious-compatible posts file.
package export

import (
	"bufio"
	"io"
	"iter"

	"github.com/MrSnakeDoc/slasti/internal/domain"
	"github.com/MrSnakeDoc/slasti/internal/logger"
	"github.com/MrSnakeDoc/slasti/internal/store/flatfile"
)

// ContentType is the media type of the export.
const ContentType = "text/xml; charset=utf-8"

// Write streams every mark of the sequence, newest first, wrapped in a
// <posts> element for user. Damaged records are skipped and logged.
func Write(w io.Writer, user string, marks iter.Seq[*flatfile.Mark], log logger.Logger) error {
	if log == nil {
		log = logger.Nop()
	}
	bw := bufio.NewWriter(w)

	bw.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	bw.WriteString("<posts user=" + domain.QuoteAttr(user) + ` tag="">` + "\n")

	skipped := 0
	for m := range marks {
		if m.Damaged() {
			skipped++
			continue
		}
		if _, err := bw.WriteString(m.XML()); err != nil {
			return err
		}
	}
	bw.WriteString("</posts>\n")

	if skipped > 0 {
		log.Warn("export skipped damaged records",
			logger.String("user", user),
			logger.Int("skipped", skipped))
	}
	return bw.Flush()
}
