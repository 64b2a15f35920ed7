package fsutil

import (
	"fmt"
	"os"
	"strings"

	"github.com/google/renameio/v2"
)

// WriteFile replaces path with data atomically: renameio writes a dotted
// temp file next to path, syncs it and renames it over path.
func WriteFile(path string, data []byte, perm os.FileMode) error {
	if err := renameio.WriteFile(path, data, perm); err != nil {
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return nil
}

// Hidden reports whether a directory entry is a dotfile. In-flight temp
// files are dotfiles, so listings skip them.
func Hidden(name string) bool {
	return strings.HasPrefix(name, ".")
}

// Close closes c and ignores any error.
// Use for best-effort cleanup where the error is already being reported.
func Close(c interface{ Close() error }) {
	_ = c.Close()
}
