// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package secrets

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/biofetch/pkg/types"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name  string
		setup func(t *testing.T) string
		want  Set
	}{
		{
			name: "reads key files and trims whitespace",
			setup: func(t *testing.T) string {
				dir := t.TempDir()
				writeFile(t, dir, NCBIAPIKey, "  0123456789abcdef  \n")
				writeFile(t, dir, NCBIEmail, "lab@example.org\n")
				return dir
			},
			want: Set{
				NCBIAPIKey: "0123456789abcdef",
				NCBIEmail:  "lab@example.org",
			},
		},
		{
			name: "returns empty map for nonexistent directory",
			setup: func(t *testing.T) string {
				return filepath.Join(t.TempDir(), "does-not-exist")
			},
			want: Set{},
		},
		{
			name: "skips empty files",
			setup: func(t *testing.T) string {
				dir := t.TempDir()
				writeFile(t, dir, NCBIEmail, "lab@example.org")
				writeFile(t, dir, NCBIAPIKey, "   \n\t  ")
				return dir
			},
			want: Set{NCBIEmail: "lab@example.org"},
		},
		{
			name: "skips dotfiles and subdirectories",
			setup: func(t *testing.T) string {
				dir := t.TempDir()
				writeFile(t, dir, ".gitkeep", "")
				writeFile(t, dir, ".hidden-key", "secret")
				writeFile(t, dir, NCBIAPIKey, "k")
				require.NoError(t, os.Mkdir(filepath.Join(dir, "subdir"), 0o755))
				return dir
			},
			want: Set{NCBIAPIKey: "k"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Load(tt.setup(t))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoadUnreadableFile(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("root can read files without permission bits")
	}
	dir := t.TempDir()
	writeFile(t, dir, NCBIEmail, "lab@example.org")

	badPath := filepath.Join(dir, NCBIAPIKey)
	require.NoError(t, os.WriteFile(badPath, []byte("secret"), 0o000))
	t.Cleanup(func() { os.Chmod(badPath, 0o644) })

	got, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "lab@example.org", got[NCBIEmail])
	_, hasBad := got[NCBIAPIKey]
	assert.False(t, hasBad, "unreadable file should not appear in result")
}

func TestApplyNCBI(t *testing.T) {
	s := Set{NCBIAPIKey: "from-file", NCBIEmail: "file@example.org"}

	var empty types.NCBIConfig
	s.ApplyNCBI(&empty)
	assert.Equal(t, "from-file", empty.APIKey)
	assert.Equal(t, "file@example.org", empty.Email)

	set := types.NCBIConfig{APIKey: "from-env"}
	s.ApplyNCBI(&set)
	assert.Equal(t, "from-env", set.APIKey)
	assert.Equal(t, "file@example.org", set.Email)
}

func TestNames(t *testing.T) {
	s := Set{NCBIEmail: "a", NCBIAPIKey: "b", "other": "c"}
	assert.Equal(t, []string{NCBIAPIKey, NCBIEmail, "other"}, s.Names())
	assert.Empty(t, Set{}.Names())
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}
