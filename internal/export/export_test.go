package export

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/MrSnakeDoc/slasti/internal/logger"
	"github.com/MrSnakeDoc/slasti/internal/store/flatfile"
)

func newStore(t *testing.T) *flatfile.Store {
	t.Helper()
	s, err := flatfile.New(t.TempDir(), flatfile.Options{Logger: logger.New("error", false)})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if err := s.Open(); err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	return s
}

func TestWriteGolden(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	// insertion order is not listing order
	if _, err := s.Insert(ctx, 1348242431, "проверка", "http://pant.su", "", []string{"pantsu"}); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Insert(ctx, 1348242433, "moo", "http://xxxx", "", []string{"a", "b", "c"}); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := Write(&buf, "auser", s.All(), nil); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	want := `<?xml version="1.0" encoding="UTF-8"?>` + "\n" +
		`<posts user="auser" tag="">` + "\n" +
		`  <post href="http://xxxx" description="moo" tag="a b c" time="2012-09-21T15:47:13Z" extended="" />` + "\n" +
		`  <post href="http://pant.su" description="проверка" tag="pantsu" time="2012-09-21T15:47:11Z" extended="" />` + "\n" +
		"</posts>\n"
	if got := buf.String(); got != want {
		t.Errorf("Write() =\n%s\nwant\n%s", got, want)
	}
}

func TestWriteEmpty(t *testing.T) {
	s := newStore(t)

	var buf bytes.Buffer
	if err := Write(&buf, "o'brien", s.All(), nil); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	want := `<?xml version="1.0" encoding="UTF-8"?>` + "\n" +
		`<posts user="o'brien" tag="">` + "\n" +
		"</posts>\n"
	if got := buf.String(); got != want {
		t.Errorf("Write() = %q, want %q", got, want)
	}
}

func TestWriteSkipsDamaged(t *testing.T) {
	s := newStore(t)
	if _, err := s.Insert(context.Background(), 200, "ok", "http://ok", "", []string{"t"}); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(s.Root(), "marks", "0000000100"), []byte("garbage\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := Write(&buf, "u", s.All(), logger.New("error", false)); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if n := strings.Count(buf.String(), "<post "); n != 1 {
		t.Errorf("got %d posts, want 1:\n%s", n, buf.String())
	}
}
