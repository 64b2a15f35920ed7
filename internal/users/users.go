// Package users loads the list of mark stores served by the application.
package users

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/MrSnakeDoc/slasti/internal/domain"
)

// TypeFS is the flat-file store backend, the only one there is.
const TypeFS = "fs"

// User is one entry of users.yaml: a name and the store it owns.
type User struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"`
	Root string `yaml:"root"`
}

// Loader handles loading and validation of users.yaml
type Loader struct {
	filePath string
}

// NewLoader creates a new users loader
func NewLoader(filePath string) *Loader {
	return &Loader{filePath: filePath}
}

// Load reads, expands and validates the users file.
// ${VAR} references are expanded from the environment before parsing.
func (l *Loader) Load() ([]User, error) {
	data, err := os.ReadFile(l.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read users file: %w", err)
	}

	var list []User
	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), &list); err != nil {
		return nil, fmt.Errorf("failed to parse users yaml: %w", err)
	}

	if err := Validate(list); err != nil {
		return nil, err
	}
	return list, nil
}

// Validate checks every entry and rejects duplicate names.
func Validate(list []User) error {
	if len(list) == 0 {
		return fmt.Errorf("%w: no users defined", domain.ErrConfig)
	}
	seen := make(map[string]bool, len(list))
	for i, u := range list {
		switch {
		case u.Name == "":
			return fmt.Errorf("%w: user #%d has no name", domain.ErrConfig, i+1)
		case strings.ContainsAny(u.Name, "/ \t\n"):
			return fmt.Errorf("%w: user name %q is not a path segment", domain.ErrConfig, u.Name)
		case seen[u.Name]:
			return fmt.Errorf("%w: duplicate user %q", domain.ErrConfig, u.Name)
		case u.Type != TypeFS:
			return fmt.Errorf("%w: user %q has unknown type %q", domain.ErrConfig, u.Name, u.Type)
		case u.Root == "":
			return fmt.Errorf("%w: user %q has no root", domain.ErrConfig, u.Name)
		}
		seen[u.Name] = true
	}
	return nil
}
