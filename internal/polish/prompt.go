// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package polish

// promptTemplate must stay byte-for-byte stable; the provider-side behaviour
// was tuned against it.
const promptTemplate = `Polish the following text while preserving its meaning.
Improve clarity, flow, and readability. Keep the same tone and intent.
Return only the polished text without any additional comments.

Text: `

// BuildPrompt wraps text in the polishing instruction.
func BuildPrompt(text string) string {
	return promptTemplate + text
}
