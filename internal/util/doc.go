// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides small helpers shared across polishit.
//
// # Key Functions
//
// String Utilities:
//   - TruncateRunes: UTF-8 safe truncation with ellipsis, used for log previews
//   - TruncateWidth: display-width truncation for the terminal status line
//   - LooksLikeAPIKey: format check for OpenRouter keys
//   - Fingerprint: short SHA-256 identifier for a secret, safe to log
//
// File Operations:
//   - AtomicWriteFile: crash-safe file writing with fsync
package util
