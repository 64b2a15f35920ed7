package flatfile

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/MrSnakeDoc/slasti/internal/domain"
)

func TestCatalog(t *testing.T) {
	s := newTestStore(t)
	mustInsert(t, s, 1, "m", "zeta", "alpha")
	mustInsert(t, s, 2, "m", "alpha", "проверка")
	mustInsert(t, s, 3, "m", "alpha")

	tags, err := s.Tags()
	if err != nil {
		t.Fatalf("Tags() error = %v", err)
	}
	want := []domain.TagCount{
		{Name: "alpha", Count: 3},
		{Name: "zeta", Count: 1},
		{Name: "проверка", Count: 1},
	}
	if !slices.Equal(tags, want) {
		t.Errorf("Tags() = %v, want %v", tags, want)
	}

	if tc, ok := s.Tag("alpha"); !ok || tc.Count != 3 {
		t.Errorf("Tag(alpha) = %+v, %v", tc, ok)
	}
	if _, ok := s.Tag("nope"); ok {
		t.Error("Tag(nope) should report absent")
	}
	if s.CountFor("nope") != 0 {
		t.Error("CountFor(nope) should be 0")
	}
}

func TestCheckFindsAndRepairsDrift(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	mustInsert(t, s, 10, "m", "a", "b")
	mustInsert(t, s, 20, "m", "a")

	// a link to a mark that does not exist
	if err := s.tags.Link("a", "0000000099"); err != nil {
		t.Fatal(err)
	}
	// a link the record does not claim
	if err := s.tags.Link("c", "0000000020"); err != nil {
		t.Fatal(err)
	}
	// drop b entirely so mark 10 misses it
	if err := os.Remove(filepath.Join(s.Root(), "tags", EncodeTag("b"))); err != nil {
		t.Fatal(err)
	}
	// a damaged record is reported but left alone
	if err := os.WriteFile(filepath.Join(s.Root(), "marks", "0000000005"), []byte("junk\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	report, err := s.Check(ctx, false)
	if err != nil {
		t.Fatalf("Check() error = %v", err)
	}
	if report.Marks != 3 {
		t.Errorf("Marks = %d, want 3", report.Marks)
	}
	if !slices.Equal(report.Damaged, []string{"0000000005"}) {
		t.Errorf("Damaged = %v", report.Damaged)
	}
	wantDangling := []Link{{Tag: "a", Name: "0000000099"}, {Tag: "c", Name: "0000000020"}}
	if !slices.Equal(report.Dangling, wantDangling) {
		t.Errorf("Dangling = %v, want %v", report.Dangling, wantDangling)
	}
	wantMissing := []Link{{Tag: "b", Name: "0000000010"}}
	if !slices.Equal(report.Missing, wantMissing) {
		t.Errorf("Missing = %v, want %v", report.Missing, wantMissing)
	}
	if report.Repaired {
		t.Error("report-only Check() claims a repair")
	}

	report, err = s.Check(ctx, true)
	if err != nil {
		t.Fatalf("Check(repair) error = %v", err)
	}
	if !report.Repaired {
		t.Error("Check(repair) did not repair")
	}

	report, err = s.Check(ctx, false)
	if err != nil {
		t.Fatalf("Check() error = %v", err)
	}
	if len(report.Dangling) != 0 || len(report.Missing) != 0 {
		t.Errorf("drift left after repair: %+v", report)
	}
	if _, ok := s.Tag("c"); ok {
		t.Error("tag c should be gone after repair")
	}
	if s.TagLookup("b", 10, 0) == nil {
		t.Error("mark 10 should be back under b")
	}
}

func TestCheckCleanStore(t *testing.T) {
	s := newTestStore(t)
	mustInsert(t, s, 1, "m", "a")

	report, err := s.Check(context.Background(), true)
	if err != nil {
		t.Fatalf("Check() error = %v", err)
	}
	if !report.Clean() || report.Repaired {
		t.Errorf("Check() on a clean store = %+v", report)
	}
}

func TestCheckHonoursContext(t *testing.T) {
	s := newTestStore(t)
	mustInsert(t, s, 1, "m", "a")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := s.Check(ctx, false); err == nil {
		t.Error("Check() with a cancelled context should fail")
	}
}
