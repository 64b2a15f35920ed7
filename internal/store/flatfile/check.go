package flatfile

import (
	"context"
	"fmt"
	"slices"

	"github.com/MrSnakeDoc/slasti/internal/logger"
)

// Link is one tag index entry.
type Link struct {
	Tag  string `json:"tag"`
	Name string `json:"name"`
}

// CheckReport describes how far the two directions of the tag relation
// have drifted apart.
type CheckReport struct {
	Marks    int      `json:"marks"`
	Damaged  []string `json:"damaged,omitempty"`  // record names that do not decode
	Dangling []Link   `json:"dangling,omitempty"` // index entries no record backs
	Missing  []Link   `json:"missing,omitempty"`  // record tags absent from the index
	Repaired bool     `json:"repaired"`
}

// Clean reports whether nothing was found.
func (r CheckReport) Clean() bool {
	return len(r.Damaged) == 0 && len(r.Dangling) == 0 && len(r.Missing) == 0
}

// Check compares every record with the tag index. With repair it holds
// the writer lock and fixes the index to match the records. Damaged
// records are reported but never touched.
func (s *Store) Check(ctx context.Context, repair bool) (CheckReport, error) {
	var report CheckReport

	if repair {
		unlock, err := s.locker.Lock(ctx)
		if err != nil {
			return report, fmt.Errorf("check: %w", err)
		}
		defer unlock()
	}

	names, err := s.listing()
	if err != nil {
		return report, err
	}
	report.Marks = len(names)

	healthy := make(map[string][]string, len(names)) // name -> tags
	present := make(map[string]bool, len(names))
	for i, name := range names {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		present[name] = true
		m := s.load("", names, i)
		if m.Damaged() {
			report.Damaged = append(report.Damaged, name)
			continue
		}
		healthy[name] = m.Tags
	}

	tagNames, err := s.tags.Names()
	if err != nil {
		return report, err
	}
	members := make(map[string][]string, len(tagNames))
	for _, tag := range tagNames {
		list := s.tags.Load(tag)
		members[tag] = list
		for _, name := range list {
			tags, ok := healthy[name]
			switch {
			case !present[name]:
				report.Dangling = append(report.Dangling, Link{Tag: tag, Name: name})
			case ok && !slices.Contains(tags, tag):
				report.Dangling = append(report.Dangling, Link{Tag: tag, Name: name})
			}
		}
	}

	for _, name := range names {
		for _, tag := range healthy[name] {
			if !slices.Contains(members[tag], name) {
				report.Missing = append(report.Missing, Link{Tag: tag, Name: name})
			}
		}
	}

	if !repair || len(report.Dangling)+len(report.Missing) == 0 {
		return report, nil
	}

	for _, l := range report.Dangling {
		if err := s.tags.Unlink(l.Tag, l.Name); err != nil {
			return report, err
		}
	}
	for _, l := range report.Missing {
		if err := s.tags.Link(l.Tag, l.Name); err != nil {
			return report, err
		}
	}
	report.Repaired = true
	s.logger.Info("tag index repaired",
		logger.Int("dangling", len(report.Dangling)),
		logger.Int("missing", len(report.Missing)))
	return report, nil
}
