package flatfile

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"

	"github.com/MrSnakeDoc/slasti/internal/fsutil"
	"github.com/MrSnakeDoc/slasti/internal/logger"
	"github.com/MrSnakeDoc/slasti/internal/metrics"
)

// TagIndex keeps one file per tag listing the names of its marks.
//
// In lenient mode (the default) write failures are logged and counted but
// not returned, so a single unwritable tag file cannot abort an insert.
// Strict mode returns them.
type TagIndex struct {
	dir    string
	strict bool
	logger logger.Logger
}

// NewTagIndex returns an index rooted at dir.
func NewTagIndex(dir string, strict bool, log logger.Logger) *TagIndex {
	return &TagIndex{dir: dir, strict: strict, logger: log}
}

func (ti *TagIndex) path(tag string) string {
	return filepath.Join(ti.dir, EncodeTag(tag))
}

// read returns the raw file content. A missing file is an empty list.
func (ti *TagIndex) read(tag string) (string, error) {
	data, err := os.ReadFile(ti.path(tag))
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Load returns the member names of tag in file order. It never fails:
// an unreadable file reads as empty.
func (ti *TagIndex) Load(tag string) []string {
	buf, err := ti.read(tag)
	if err != nil {
		ti.logger.Warn("tag index unreadable",
			logger.String("tag", tag),
			logger.Error(err))
		return nil
	}
	return splitList(buf)
}

// Count returns the number of members of tag.
func (ti *TagIndex) Count(tag string) int {
	return len(ti.Load(tag))
}

// Link adds name to tag. Linking an existing member is a no-op.
func (ti *TagIndex) Link(tag, name string) error {
	buf, err := ti.read(tag)
	if err != nil {
		return ti.fail("link", tag, name, err)
	}
	if slices.Contains(splitList(buf), name) {
		return nil
	}
	buf = buf + " " + name
	if err := fsutil.WriteFile(ti.path(tag), []byte(buf), 0o644); err != nil {
		return ti.fail("link", tag, name, err)
	}
	return nil
}

// Unlink removes name from tag. The tag file goes away with its last member.
func (ti *TagIndex) Unlink(tag, name string) error {
	buf, err := ti.read(tag)
	if err != nil {
		return ti.fail("unlink", tag, name, err)
	}
	list := splitList(buf)
	i := slices.Index(list, name)
	if i < 0 {
		return nil
	}
	list = slices.Delete(list, i, i+1)

	if len(list) == 0 {
		err = os.Remove(ti.path(tag))
		if errors.Is(err, fs.ErrNotExist) {
			err = nil
		}
	} else {
		err = fsutil.WriteFile(ti.path(tag), []byte(strings.Join(list, " ")), 0o644)
	}
	if err != nil {
		return ti.fail("unlink", tag, name, err)
	}
	return nil
}

// Relink moves name from the old tag set to the new one, touching only
// the tags that differ.
func (ti *TagIndex) Relink(name string, oldTags, newTags []string) error {
	dropped, added := DiffTags(oldTags, newTags)
	var errs []error
	for _, t := range dropped {
		if err := ti.Unlink(t, name); err != nil {
			errs = append(errs, err)
		}
	}
	for _, t := range added {
		if err := ti.Link(t, name); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// LinkAll links name into every tag.
func (ti *TagIndex) LinkAll(name string, tags []string) error {
	var errs []error
	for _, t := range tags {
		if err := ti.Link(t, name); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// UnlinkAll removes name from every tag. Repeated tags are harmless.
func (ti *TagIndex) UnlinkAll(name string, tags []string) error {
	var errs []error
	for _, t := range tags {
		if err := ti.Unlink(t, name); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Names returns every tag that has an index file, ascending.
// Files whose names do not decode are skipped.
func (ti *TagIndex) Names() ([]string, error) {
	entries, err := os.ReadDir(ti.dir)
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || fsutil.Hidden(e.Name()) {
			continue
		}
		tag, err := DecodeTag(e.Name())
		if err != nil {
			ti.logger.Warn("skipping undecodable tag file",
				logger.String("file", e.Name()),
				logger.Error(err))
			continue
		}
		names = append(names, tag)
	}
	slices.Sort(names)
	return names, nil
}

func (ti *TagIndex) fail(op, tag, name string, err error) error {
	metrics.TagWriteErrorsTotal.Inc()
	err = fmt.Errorf("tag index %s %q for %s: %w", op, tag, name, err)
	if ti.strict {
		return err
	}
	ti.logger.Warn("tag index write failed", logger.Error(err))
	return nil
}

// DiffTags returns the tags only in oldTags and the tags only in newTags.
// Tags are compared by their UTF-8 bytes, never by locale collation.
// Both results come out in byte order. Each list is treated as a set.
func DiffTags(oldTags, newTags []string) (dropped, added []string) {
	oldTags, newTags = uniqueTags(oldTags), uniqueTags(newTags)
	type entry struct {
		tag  string
		side byte // '-' old only, '+' new only, ' ' both
	}
	joint := make([]entry, 0, len(oldTags)+len(newTags))
	for _, t := range oldTags {
		joint = append(joint, entry{t, '-'})
	}
	for _, t := range newTags {
		joint = append(joint, entry{t, '+'})
	}
	sort.SliceStable(joint, func(i, j int) bool { return joint[i].tag < joint[j].tag })

	for i := 1; i < len(joint); i++ {
		if joint[i-1].tag == joint[i].tag {
			joint[i-1].side = ' '
			joint[i].side = ' '
		}
	}

	for _, e := range joint {
		switch e.side {
		case '-':
			dropped = append(dropped, e.tag)
		case '+':
			added = append(added, e.tag)
		}
	}
	return dropped, added
}
