package flatfile

import "github.com/MrSnakeDoc/slasti/internal/domain"

// Mark is a mark read from a listing. It remembers the listing snapshot
// and its position so Pred and Succ walk the same ordering it came from,
// whether that is the global listing or one tag's.
type Mark struct {
	domain.Mark
	Damage Damage

	name  string
	tag   string
	list  []string
	pos   int
	store *Store
}

// Name returns the record file name.
func (m *Mark) Name() string { return m.name }

// Tag returns the tag whose listing produced the mark, or "" for the
// global listing.
func (m *Mark) Tag() string { return m.tag }

// Damaged reports whether the record could not be fully decoded.
func (m *Mark) Damaged() bool { return m.Damage != DamageNone }

// Pred returns the next newer mark in the same listing.
func (m *Mark) Pred() *Mark {
	if m.pos == 0 {
		return nil
	}
	return m.store.load(m.tag, m.list, m.pos-1)
}

// Succ returns the next older mark in the same listing.
func (m *Mark) Succ() *Mark {
	if m.pos+1 >= len(m.list) {
		return nil
	}
	return m.store.load(m.tag, m.list, m.pos+1)
}

// View projects the mark, flagging damage.
func (m *Mark) View(prefix string) domain.MarkView {
	v := m.Mark.View(prefix)
	v.Damaged = m.Damage.String()
	return v
}
