// Package flatfile stores marks as one small text file each, plus one
// index file per tag listing the marks that carry it.
//
//	<root>/marks/<stamp>          fix 0
//	<root>/marks/<stamp>.<fix>    fix 1..99
//	<root>/tags/<base64 tag>      " name name ..."
package flatfile

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"iter"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/MrSnakeDoc/slasti/internal/domain"
	"github.com/MrSnakeDoc/slasti/internal/fsutil"
	"github.com/MrSnakeDoc/slasti/internal/index"
	"github.com/MrSnakeDoc/slasti/internal/lock"
	"github.com/MrSnakeDoc/slasti/internal/logger"
	"github.com/MrSnakeDoc/slasti/internal/metrics"
)

const (
	marksDir = "marks"
	tagsDir  = "tags"
)

// Options tune a Store. The zero value is usable.
type Options struct {
	Strict bool             // return tag index write errors instead of logging them
	Locker lock.Locker      // writer lock; defaults to an in-process lock
	Logger logger.Logger    // defaults to a no-op logger
	Now    func() time.Time // clock for new marks and edits
}

// Store is one user's mark collection.
type Store struct {
	root    string
	markDir string
	tags    *TagIndex
	index   *index.MarkIndex
	locker  lock.Locker
	logger  logger.Logger
	now     func() time.Time
}

// New checks that root is an existing directory. Call Open before use.
func New(root string, opts Options) (*Store, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrConfig, root, err)
	}
	fi, err := os.Stat(abs)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: does not exist: %s", domain.ErrConfig, abs)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrConfig, abs, err)
	}
	if !fi.IsDir() {
		return nil, fmt.Errorf("%w: not a directory: %s", domain.ErrConfig, abs)
	}

	if opts.Logger == nil {
		opts.Logger = logger.Nop()
	}
	if opts.Locker == nil {
		opts.Locker = lock.NewLocal()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	log := opts.Logger.With(logger.String("store", abs))

	return &Store{
		root:    abs,
		markDir: filepath.Join(abs, marksDir),
		tags:    NewTagIndex(filepath.Join(abs, tagsDir), opts.Strict, log),
		index:   index.NewMarkIndex(),
		locker:  opts.Locker,
		logger:  log,
		now:     opts.Now,
	}, nil
}

// Open creates the marks and tags directories if needed.
func (s *Store) Open() error {
	for _, dir := range []string{s.tags.dir, s.markDir} {
		if err := os.Mkdir(dir, 0o755); err != nil && !errors.Is(err, fs.ErrExist) {
			return fmt.Errorf("%w: %v", domain.ErrConfig, err)
		}
	}
	return nil
}

// Root returns the absolute store directory.
func (s *Store) Root() string { return s.root }

// LockMode names the writer lock backend.
func (s *Store) LockMode() string { return s.locker.Mode() }

// LastReload returns when the mark listing was last read from disk.
func (s *Store) LastReload() time.Time { return s.index.GetLastReload() }

// Insert writes a new mark under the first free fixup counter of stamp
// and links its tags. It returns the counter used.
func (s *Store) Insert(ctx context.Context, stamp int64, title, url, note string, tags []string) (int, error) {
	tags = uniqueTags(tags)
	if err := domain.ValidateStamp(stamp); err != nil {
		return 0, err
	}
	if err := domain.ValidateMark(title, url, note, tags); err != nil {
		return 0, err
	}

	unlock, err := s.locker.Lock(ctx)
	if err != nil {
		return 0, fmt.Errorf("insert: %w", err)
	}
	defer unlock()

	if _, err := s.listing(); err != nil {
		return 0, err
	}

	fix, err := s.freeFix(stamp)
	if err != nil {
		metrics.MarkWritesTotal.WithLabelValues("insert", "error").Inc()
		return 0, err
	}
	if fix > 0 {
		metrics.FixCollisionsTotal.Inc()
	}

	m := domain.Mark{
		Stamp:   stamp,
		Fix:     fix,
		ModTime: s.modTime(),
		Title:   title,
		URL:     url,
		Note:    note,
		Tags:    tags,
	}
	name := domain.FormatName(stamp, fix)
	if err := fsutil.WriteFile(s.markPath(name), Encode(m), 0o644); err != nil {
		metrics.MarkWritesTotal.WithLabelValues("insert", "error").Inc()
		return 0, fmt.Errorf("insert %s: %w", name, err)
	}
	s.noteAdded(name)

	if err := s.tags.LinkAll(name, tags); err != nil {
		metrics.MarkWritesTotal.WithLabelValues("insert", "partial").Inc()
		return fix, fmt.Errorf("insert %s: %w", name, err)
	}

	metrics.MarkWritesTotal.WithLabelValues("insert", "ok").Inc()
	s.logger.Debug("mark inserted", logger.String("name", name))
	return fix, nil
}

func (s *Store) freeFix(stamp int64) (int, error) {
	for fix := 0; fix <= domain.MaxFix; fix++ {
		_, err := os.Lstat(s.markPath(domain.FormatName(stamp, fix)))
		if errors.Is(err, fs.ErrNotExist) {
			return fix, nil
		}
		if err != nil {
			return 0, fmt.Errorf("stat %d.%02d: %w", stamp, fix, err)
		}
	}
	return 0, fmt.Errorf("%w: %d", domain.ErrOutOfFixSlots, stamp)
}

// Edit rewrites an existing mark in place and moves it between tags as
// needed. The key never changes.
func (s *Store) Edit(ctx context.Context, stamp int64, fix int, title, url, note string, tags []string) error {
	tags = uniqueTags(tags)
	if err := domain.ValidateMark(title, url, note, tags); err != nil {
		return err
	}

	unlock, err := s.locker.Lock(ctx)
	if err != nil {
		return fmt.Errorf("edit: %w", err)
	}
	defer unlock()

	if _, err := s.listing(); err != nil {
		return err
	}

	name := domain.FormatName(stamp, fix)
	old, err := s.readRecord(name)
	if err != nil {
		return err
	}

	m := domain.Mark{
		Stamp:   stamp,
		Fix:     fix,
		ModTime: s.modTime(),
		Title:   title,
		URL:     url,
		Note:    note,
		Tags:    tags,
	}
	if err := fsutil.WriteFile(s.markPath(name), Encode(m), 0o644); err != nil {
		metrics.MarkWritesTotal.WithLabelValues("edit", "error").Inc()
		return fmt.Errorf("edit %s: %w", name, err)
	}
	s.noteAdded(name)

	if err := s.tags.Relink(name, old.Mark.Tags, tags); err != nil {
		metrics.MarkWritesTotal.WithLabelValues("edit", "partial").Inc()
		return fmt.Errorf("edit %s: %w", name, err)
	}

	metrics.MarkWritesTotal.WithLabelValues("edit", "ok").Inc()
	s.logger.Debug("mark edited", logger.String("name", name))
	return nil
}

// Delete unlinks every tag of a mark and removes its record.
func (s *Store) Delete(ctx context.Context, stamp int64, fix int) error {
	unlock, err := s.locker.Lock(ctx)
	if err != nil {
		return fmt.Errorf("delete: %w", err)
	}
	defer unlock()

	if _, err := s.listing(); err != nil {
		return err
	}

	name := domain.FormatName(stamp, fix)
	old, err := s.readRecord(name)
	if err != nil {
		return err
	}

	tagErr := s.tags.UnlinkAll(name, old.Mark.Tags)

	if err := os.Remove(s.markPath(name)); err != nil {
		metrics.MarkWritesTotal.WithLabelValues("delete", "error").Inc()
		return fmt.Errorf("delete %s: %w", name, err)
	}
	s.noteRemoved(name)

	if tagErr != nil {
		metrics.MarkWritesTotal.WithLabelValues("delete", "partial").Inc()
		return fmt.Errorf("delete %s: %w", name, tagErr)
	}

	metrics.MarkWritesTotal.WithLabelValues("delete", "ok").Inc()
	s.logger.Debug("mark deleted", logger.String("name", name))
	return nil
}

// readRecord loads a record for modification. Tags of a damaged record
// read as empty.
func (s *Store) readRecord(name string) (Decoded, error) {
	f, err := os.Open(s.markPath(name))
	if errors.Is(err, fs.ErrNotExist) {
		return Decoded{}, fmt.Errorf("%w: %s", domain.ErrNotFound, name)
	}
	if err != nil {
		return Decoded{}, fmt.Errorf("read %s: %w", name, err)
	}
	defer fsutil.Close(f)

	d := Decode(f)
	if d.Damage != DamageNone {
		s.logger.Warn("modifying damaged record",
			logger.String("name", name),
			logger.String("damage", d.Damage.String()))
		d.Mark.Tags = nil
	}
	return d, nil
}

// Lookup returns the mark with the given key from the global listing.
func (s *Store) Lookup(stamp int64, fix int) *Mark {
	names, err := s.listing()
	if err != nil {
		s.logger.Error("mark listing failed", logger.Error(err))
		return nil
	}
	return s.find("", names, domain.FormatName(stamp, fix))
}

// First returns the newest mark, or nil for an empty store.
func (s *Store) First() *Mark {
	names, err := s.listing()
	if err != nil {
		s.logger.Error("mark listing failed", logger.Error(err))
		return nil
	}
	if len(names) == 0 {
		return nil
	}
	return s.load("", names, 0)
}

// TagLookup returns the mark with the given key within tag's listing.
func (s *Store) TagLookup(tag string, stamp int64, fix int) *Mark {
	return s.find(tag, s.tagListing(tag), domain.FormatName(stamp, fix))
}

// TagFirst returns the newest mark carrying tag.
func (s *Store) TagFirst(tag string) *Mark {
	names := s.tagListing(tag)
	if len(names) == 0 {
		return nil
	}
	return s.load(tag, names, 0)
}

// All iterates over every mark, newest first, on one listing snapshot.
func (s *Store) All() iter.Seq[*Mark] {
	return func(yield func(*Mark) bool) {
		names, err := s.listing()
		if err != nil {
			s.logger.Error("mark listing failed", logger.Error(err))
			return
		}
		for i := range names {
			if !yield(s.load("", names, i)) {
				return
			}
		}
	}
}

// Count returns the number of marks.
func (s *Store) Count() int {
	names, err := s.listing()
	if err != nil {
		s.logger.Error("mark listing failed", logger.Error(err))
		return 0
	}
	return len(names)
}

func (s *Store) find(tag string, names []string, name string) *Mark {
	pos, ok := index.Find(names, name)
	if !ok {
		return nil
	}
	return s.load(tag, names, pos)
}

func (s *Store) tagListing(tag string) []string {
	names := s.tags.Load(tag)
	index.SortDescending(names)
	return names
}

// racyWindow is how long after a directory change its mtime is not
// trusted. Filesystem timestamps are coarser than the writes they stamp,
// so a second change within one tick would otherwise go unnoticed.
var racyWindow = 2 * time.Second

// listing returns the cached global listing. The cache is trusted only
// while the directory mtime still matches and the directory was last read
// from disk more than racyWindow after that mtime. Own writes patch the
// cache but are not a disk read, so the first listing after one rereads.
func (s *Store) listing() ([]string, error) {
	fi, err := os.Stat(s.markDir)
	if err != nil {
		return nil, fmt.Errorf("stat marks: %w", err)
	}
	names, stamp, ok := s.index.Snapshot()
	if ok && stamp.Equal(fi.ModTime()) && s.index.GetLastReload().Sub(stamp) > racyWindow {
		return names, nil
	}

	entries, err := os.ReadDir(s.markDir)
	if err != nil {
		return nil, fmt.Errorf("list marks: %w", err)
	}
	names = make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || fsutil.Hidden(e.Name()) {
			continue
		}
		if _, err := domain.ParseName(e.Name()); err != nil {
			s.logger.Warn("skipping stray file in marks", logger.String("file", e.Name()))
			continue
		}
		names = append(names, e.Name())
	}
	index.SortDescending(names)
	s.index.Replace(names, fi.ModTime())

	metrics.ListingReloadsTotal.Inc()
	s.logger.Debug("mark listing reloaded", logger.Int("marks", len(names)))
	return names, nil
}

func (s *Store) noteAdded(name string) {
	fi, err := os.Stat(s.markDir)
	if err != nil {
		s.index.Invalidate()
		return
	}
	s.index.Add(name, fi.ModTime())
}

func (s *Store) noteRemoved(name string) {
	fi, err := os.Stat(s.markDir)
	if err != nil {
		s.index.Invalidate()
		return
	}
	s.index.Remove(name, fi.ModTime())
}

func (s *Store) markPath(name string) string {
	return filepath.Join(s.markDir, name)
}

func (s *Store) modTime() float64 {
	return float64(s.now().UnixMicro()) / 1e6
}

// load decodes the record at names[pos]. It never fails; problems are
// carried on the returned handle.
func (s *Store) load(tag string, names []string, pos int) *Mark {
	name := names[pos]
	m := &Mark{name: name, tag: tag, list: names, pos: pos, store: s}

	f, err := os.Open(s.markPath(name))
	if err != nil {
		m.Damage = DamageUnreadable
	} else {
		d := Decode(f)
		if !d.HasModTime && d.Damage != DamageUnreadable {
			if fi, err := f.Stat(); err == nil {
				d.Mark.ModTime = math.Floor(float64(fi.ModTime().UnixNano()) / 1e9)
			}
		}
		fsutil.Close(f)
		m.Mark = d.Mark
		m.Damage = d.Damage
	}

	if m.Damage != DamageNone {
		metrics.DamagedRecordsTotal.WithLabelValues(m.Damage.String()).Inc()
		s.logger.Warn("damaged mark record",
			logger.String("name", name),
			logger.String("damage", m.Damage.String()))
		if m.Damage <= DamageBadKeyParts {
			if k, err := domain.ParseName(name); err == nil {
				m.Stamp, m.Fix = k.Stamp, k.Fix
			}
		}
	}
	return m
}

func uniqueTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
