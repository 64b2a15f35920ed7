package users

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/MrSnakeDoc/slasti/internal/domain"
)

func writeUsers(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "users.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to create test YAML file: %v", err)
	}
	return path
}

func TestLoaderLoad(t *testing.T) {
	t.Setenv("SLASTI_TEST_DATA", "/srv/slasti")
	path := writeUsers(t, `---
- name: alice
  type: fs
  root: ${SLASTI_TEST_DATA}/alice
- name: bob
  type: fs
  root: /tmp/bob
`)

	list, err := NewLoader(path).Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("Load() returned %d users, want 2", len(list))
	}
	if list[0].Root != "/srv/slasti/alice" {
		t.Errorf("root = %q, want expanded path", list[0].Root)
	}
	if list[1].Name != "bob" {
		t.Errorf("name = %q, want bob", list[1].Name)
	}
}

func TestLoaderLoadMissingFile(t *testing.T) {
	if _, err := NewLoader(filepath.Join(t.TempDir(), "nope.yaml")).Load(); err == nil {
		t.Error("Load() should fail on a missing file")
	}
}

func TestLoaderLoadBadYAML(t *testing.T) {
	path := writeUsers(t, "name: [unterminated\n")
	if _, err := NewLoader(path).Load(); err == nil {
		t.Error("Load() should fail on malformed yaml")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		list []User
		ok   bool
	}{
		{name: "valid", list: []User{{Name: "a", Type: "fs", Root: "/a"}}, ok: true},
		{name: "empty", list: nil},
		{name: "no name", list: []User{{Type: "fs", Root: "/a"}}},
		{name: "slash in name", list: []User{{Name: "a/b", Type: "fs", Root: "/a"}}},
		{name: "unknown type", list: []User{{Name: "a", Type: "sql", Root: "/a"}}},
		{name: "no root", list: []User{{Name: "a", Type: "fs"}}},
		{name: "duplicate", list: []User{
			{Name: "a", Type: "fs", Root: "/a"},
			{Name: "a", Type: "fs", Root: "/b"},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.list)
			if tt.ok && err != nil {
				t.Errorf("Validate() error = %v", err)
			}
			if !tt.ok && !errors.Is(err, domain.ErrConfig) {
				t.Errorf("Validate() = %v, want ErrConfig", err)
			}
		})
	}
}
