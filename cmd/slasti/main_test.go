package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append(args, "--log-level", "error"))
	err := cmd.Execute()
	return out.String(), err
}

func TestStoreCommands(t *testing.T) {
	root := filepath.Join(t.TempDir(), "auser")
	if err := os.Mkdir(root, 0o755); err != nil {
		t.Fatal(err)
	}

	out, err := run(t, "add", "--root", root, "--stamp", "1348242433", "--title", "moo", "--url", "http://xxxx", "--tags", "a b c")
	if err != nil {
		t.Fatalf("add error = %v (%s)", err, out)
	}
	if strings.TrimSpace(out) != "1348242433.00" {
		t.Errorf("add printed %q", out)
	}
	if _, err := run(t, "add", "--root", root, "--stamp", "1348242431", "--title", "проверка", "--url", "http://pant.su", "--tags", "pantsu"); err != nil {
		t.Fatalf("add error = %v", err)
	}

	out, err = run(t, "tags", "--root", root)
	if err != nil {
		t.Fatalf("tags error = %v", err)
	}
	if !strings.Contains(out, "     1 a\n") || !strings.Contains(out, "     1 pantsu\n") {
		t.Errorf("tags output = %q", out)
	}

	file := filepath.Join(t.TempDir(), "export.xml")
	if _, err := run(t, "export", "--root", root, "-o", file); err != nil {
		t.Fatalf("export error = %v", err)
	}
	data, err := os.ReadFile(file)
	if err != nil {
		t.Fatal(err)
	}
	want := `<?xml version="1.0" encoding="UTF-8"?>` + "\n" +
		`<posts user="auser" tag="">` + "\n" +
		`  <post href="http://xxxx" description="moo" tag="a b c" time="2012-09-21T15:47:13Z" extended="" />` + "\n" +
		`  <post href="http://pant.su" description="проверка" tag="pantsu" time="2012-09-21T15:47:11Z" extended="" />` + "\n" +
		"</posts>\n"
	if string(data) != want {
		t.Errorf("export =\n%s\nwant\n%s", data, want)
	}

	if out, err := run(t, "check", "--root", root); err != nil {
		t.Errorf("check on a clean store error = %v (%s)", err, out)
	}
}

func TestCheckCommandReportsDrift(t *testing.T) {
	root := t.TempDir()
	if _, err := run(t, "add", "--root", root, "--stamp", "100", "--url", "http://x", "--tags", "a"); err != nil {
		t.Fatal(err)
	}
	tagDir := filepath.Join(root, "tags")
	entries, err := os.ReadDir(tagDir)
	if err != nil || len(entries) != 1 {
		t.Fatalf("tags dir = %v, %v", entries, err)
	}
	if err := os.Remove(filepath.Join(tagDir, entries[0].Name())); err != nil {
		t.Fatal(err)
	}

	out, err := run(t, "check", "--root", root)
	if err == nil {
		t.Fatalf("check should fail on drift (%s)", out)
	}
	if !strings.Contains(out, `"missing"`) {
		t.Errorf("report = %s", out)
	}

	if out, err := run(t, "check", "--root", root, "--repair"); err != nil || !strings.Contains(out, `"repaired": true`) {
		t.Errorf("check --repair = %v (%s)", err, out)
	}
	if _, err := run(t, "check", "--root", root); err != nil {
		t.Errorf("check after repair error = %v", err)
	}
}

func TestAddRequiresFlags(t *testing.T) {
	if _, err := run(t, "add", "--root", t.TempDir(), "--url", "http://x"); err == nil {
		t.Error("add without --tags should fail")
	}
	if _, err := run(t, "tags"); err == nil {
		t.Error("tags without --root should fail")
	}
}
