// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets reads NCBI credentials kept outside the config file.
// Each regular file in the secrets directory holds one value; the file name
// is the key.
package secrets

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/pdiddy/biofetch/pkg/types"
)

// Key file names.
const (
	NCBIAPIKey = "ncbi-api-key"
	NCBIEmail  = "ncbi-email"
)

// Known lists the key files biofetch consumes.
var Known = []string{NCBIAPIKey, NCBIEmail}

// Set maps key names to trimmed values.
type Set map[string]string

// Load reads dir into a Set. A missing directory yields an empty Set.
// Dotfiles, subdirectories and blank files are ignored; a file that cannot
// be read is logged and skipped.
func Load(dir string) (Set, error) {
	entries, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return Set{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	s := make(Set, len(entries))
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || strings.HasPrefix(name, ".") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			slog.Warn("skipping unreadable secret", "name", name, "err", err)
			continue
		}
		v := strings.TrimSpace(string(data))
		if v == "" {
			continue
		}
		if !slices.Contains(Known, name) {
			slog.Debug("ignoring unknown secret", "name", name)
		}
		s[name] = v
	}
	return s, nil
}

// Names returns the loaded key names, sorted.
func (s Set) Names() []string {
	names := make([]string, 0, len(s))
	for k := range s {
		names = append(names, k)
	}
	slices.Sort(names)
	return names
}

// ApplyNCBI fills unset NCBI settings. Values already set by config or
// environment win.
func (s Set) ApplyNCBI(cfg *types.NCBIConfig) {
	if cfg.APIKey == "" {
		cfg.APIKey = s[NCBIAPIKey]
	}
	if cfg.Email == "" {
		cfg.Email = s[NCBIEmail]
	}
}
