package flatfile

import "github.com/MrSnakeDoc/slasti/internal/domain"

// Tags lists every tag with its mark count, ascending by name.
func (s *Store) Tags() ([]domain.TagCount, error) {
	names, err := s.tags.Names()
	if err != nil {
		return nil, err
	}
	out := make([]domain.TagCount, 0, len(names))
	for _, n := range names {
		out = append(out, domain.TagCount{Name: n, Count: s.tags.Count(n)})
	}
	return out, nil
}

// CountFor returns how many marks carry tag.
func (s *Store) CountFor(tag string) int {
	return s.tags.Count(tag)
}

// Tag returns the catalog entry of tag. ok is false when no mark carries it.
func (s *Store) Tag(tag string) (domain.TagCount, bool) {
	n := s.tags.Count(tag)
	if n == 0 {
		return domain.TagCount{}, false
	}
	return domain.TagCount{Name: tag, Count: n}, true
}
