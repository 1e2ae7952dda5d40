// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package util

import (
	"os"
	"runtime"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// STRING TESTS
// =============================================================================

func TestTruncateRunes(t *testing.T) {
	tests := []struct {
		name string
		in   string
		max  int
		want string
	}{
		{"short", "hello", 10, "hello"},
		{"exact", "hello", 5, "hello"},
		{"long", "hello world", 5, "hello..."},
		{"multibyte", "héllo wörld", 4, "héll..."},
		{"zero", "hello", 0, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TruncateRunes(tt.in, tt.max))
		})
	}
}

func TestTruncateWidth(t *testing.T) {
	assert.Equal(t, "hello", TruncateWidth("hello", 10))
	assert.Equal(t, "hel...", TruncateWidth("hello world", 6))
	// Each CJK character is two columns wide.
	got := TruncateWidth("日本語のテキスト", 7)
	assert.LessOrEqual(t, len([]rune(got)), 5)
	assert.True(t, strings.HasSuffix(got, "..."))
	assert.Equal(t, "", TruncateWidth("hello", 0))
}

func TestLooksLikeAPIKey(t *testing.T) {
	assert.True(t, LooksLikeAPIKey("sk-or-v1-0123456789abcdef0123456789abcdef"))
	assert.True(t, LooksLikeAPIKey("  sk-or-v1-0123456789abcdef0123456789abcdef  "))
	assert.False(t, LooksLikeAPIKey("sk-short"))
	assert.False(t, LooksLikeAPIKey("pk-or-v1-0123456789abcdef0123456789abcdef"))
	assert.False(t, LooksLikeAPIKey(""))
}

func TestFingerprint(t *testing.T) {
	assert.Equal(t, "none", Fingerprint(""))
	fp := Fingerprint("sk-secret")
	assert.Len(t, fp, 8)
	assert.Equal(t, fp, Fingerprint("sk-secret"))
	assert.NotEqual(t, fp, Fingerprint("sk-other"))
	assert.NotContains(t, fp, "sk-")
}

func TestWrapWidth(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		width int
		want  string
	}{
		{"fits", "hello", 10, "hello"},
		{"breaks at space", "the quick brown fox", 10, "the quick\nbrown fox"},
		{"keeps newlines", "one\ntwo", 10, "one\ntwo"},
		{"splits long word", "abcdefghij", 4, "abcd\nefgh\nij"},
		{"wide runes", "日本語のテキスト", 6, "日本語\nのテキ\nスト"},
		{"no width", "hello world", 0, "hello world"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, WrapWidth(tt.in, tt.width))
		})
	}
}

// =============================================================================
// ATOMIC WRITE TESTS
// =============================================================================

func TestAtomicWriteFile_CreatesParentDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "subdir", "deep", "test.txt")

	require.NoError(t, AtomicWriteFile(path, []byte("test data"), 0600))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "test data", string(content))
}

func TestAtomicWriteFile_Overwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.txt")
	require.NoError(t, AtomicWriteFile(path, []byte("first"), 0600))
	require.NoError(t, AtomicWriteFile(path, []byte("second"), 0600))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "second", string(content))

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files must not be left behind")
}

func TestAtomicWriteFile_AppliesPermissions(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("unix permissions")
	}
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("old"), 0644))

	require.NoError(t, AtomicWriteFile(path, []byte("new"), 0600))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestAtomicWriteFile_FailureLeavesTargetAlone(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "config.toml")
	require.NoError(t, os.Mkdir(target, 0700))

	// A directory in the way makes the final rename fail.
	require.Error(t, AtomicWriteFile(target, []byte("data"), 0600))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1, "temp file must be removed")
	assert.True(t, entries[0].IsDir())
}
