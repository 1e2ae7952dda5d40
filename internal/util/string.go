// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package util

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"
)

// APIKeyPrefix is the prefix every OpenRouter key carries.
const APIKeyPrefix = "sk-"

// minAPIKeyLength is the shortest key we consider well-formed.
const minAPIKeyLength = 32

// TruncateRunes truncates a string to a maximum number of runes (characters).
// If the string is truncated, "..." is appended.
func TruncateRunes(s string, maxRunes int) string {
	if maxRunes <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= maxRunes {
		return s
	}
	return string(runes[:maxRunes]) + "..."
}

// TruncateWidth truncates a string to a maximum display width, counting
// double-width characters as two columns.
func TruncateWidth(s string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= maxWidth {
		return s
	}
	if maxWidth <= 3 {
		return runewidth.Truncate(s, maxWidth, "")
	}
	return runewidth.Truncate(s, maxWidth, "...")
}

// LooksLikeAPIKey reports whether key has the shape of an OpenRouter key.
// It does not contact the provider.
func LooksLikeAPIKey(key string) bool {
	key = strings.TrimSpace(key)
	return strings.HasPrefix(key, APIKeyPrefix) && len(key) >= minAPIKeyLength
}

// Fingerprint returns the first 8 hex characters of the SHA-256 of secret,
// or "none" for an empty secret. Never log any other form of a key.
func Fingerprint(secret string) string {
	if secret == "" {
		return "none"
	}
	h := sha256.Sum256([]byte(secret))
	return hex.EncodeToString(h[:4])
}

// WrapWidth wraps text to maxWidth display columns. Existing line breaks
// are kept, lines break at spaces where possible, and words wider than
// maxWidth are split.
func WrapWidth(text string, maxWidth int) string {
	if maxWidth <= 0 {
		return text
	}

	var b strings.Builder
	for i, line := range strings.Split(text, "\n") {
		if i > 0 {
			b.WriteByte('\n')
		}
		col := 0
		for j, word := range strings.Split(line, " ") {
			w := runewidth.StringWidth(word)
			if j > 0 {
				if col+1+w <= maxWidth {
					b.WriteByte(' ')
					col++
				} else {
					b.WriteByte('\n')
					col = 0
				}
			}
			for col+w > maxWidth {
				if col > 0 {
					b.WriteByte('\n')
					col = 0
					continue
				}
				head := runewidth.Truncate(word, maxWidth, "")
				if head == "" {
					_, size := utf8.DecodeRuneInString(word)
					head = word[:size]
				}
				b.WriteString(head)
				b.WriteByte('\n')
				word = word[len(head):]
				w = runewidth.StringWidth(word)
			}
			b.WriteString(word)
			col += w
		}
	}
	return b.String()
}
