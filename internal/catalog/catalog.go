// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package catalog holds the static list of OpenRouter models polishit offers.
//
// The catalog is pure data: ordered descriptors, a designated default and
// the access key used for free-tier models. Nothing here mutates at runtime.
package catalog

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidCatalog is returned by Validate for a malformed catalog.
var ErrInvalidCatalog = errors.New("invalid model catalog")

// Model describes one selectable model.
type Model struct {
	// ID is the OpenRouter identifier in provider/model-name[:free] form.
	ID string `json:"id"`
	// DisplayName is shown in pickers and the status line.
	DisplayName string `json:"name"`
	// Free marks models served with the built-in access key.
	Free bool `json:"free"`
}

// String returns the display name.
func (m Model) String() string {
	return m.DisplayName
}

// IsZero reports whether m is the zero Model.
func (m Model) IsZero() bool {
	return m.ID == ""
}

// DefaultModelID is the catalog entry selected when nothing is stored.
const DefaultModelID = "deepseek/deepseek-chat-v3-0324:free"

// builtInFreeTierKey is a placeholder, not a provisioned OpenRouter key.
// Free models get a 401 until a real key replaces it via config.
const builtInFreeTierKey = "sk-or-v1-polishit-free-tier-access"

// freeTierAccessKey is sent in place of a user key for free models. It can be
// replaced at startup with SetFreeTierAccessKey.
var freeTierAccessKey = builtInFreeTierKey

// models is presentation ordered. Keep free models first.
var models = []Model{
	{ID: "deepseek/deepseek-chat-v3-0324:free", DisplayName: "DeepSeek Chat v3 (Free)", Free: true},
	{ID: "meta-llama/llama-3.3-70b-instruct:free", DisplayName: "Llama 3.3 70B Instruct (Free)", Free: true},
	{ID: "google/gemini-2.0-flash-exp:free", DisplayName: "Gemini 2.0 Flash (Free)", Free: true},
	{ID: "mistralai/mistral-7b-instruct:free", DisplayName: "Mistral 7B Instruct (Free)", Free: true},
	{ID: "anthropic/claude-3.5-sonnet", DisplayName: "Claude 3.5 Sonnet"},
	{ID: "anthropic/claude-3.5-haiku", DisplayName: "Claude 3.5 Haiku"},
	{ID: "openai/gpt-4o", DisplayName: "GPT-4o"},
	{ID: "openai/gpt-4o-mini", DisplayName: "GPT-4o Mini"},
	{ID: "google/gemini-pro-1.5", DisplayName: "Gemini Pro 1.5"},
}

// Models returns the catalog in presentation order. The returned slice is a
// copy; callers may not modify the catalog through it.
func Models() []Model {
	out := make([]Model, len(models))
	copy(out, models)
	return out
}

// Default returns the designated default model, or the first entry if the
// default id is missing. Validate reports the latter as an error.
func Default() Model {
	if m, ok := Lookup(DefaultModelID); ok {
		return m
	}
	return models[0]
}

// Lookup finds a model by id.
func Lookup(id string) (Model, bool) {
	for _, m := range models {
		if m.ID == id {
			return m, true
		}
	}
	return Model{}, false
}

// Resolve returns the model for id, or Default when id is empty or unknown.
func Resolve(id string) Model {
	if m, ok := Lookup(strings.TrimSpace(id)); ok {
		return m
	}
	return Default()
}

// FreeTierAccessKey returns the key used for free-tier models.
func FreeTierAccessKey() string {
	return freeTierAccessKey
}

// UsingBuiltInFreeTierKey reports whether free models still use the
// placeholder key.
func UsingBuiltInFreeTierKey() bool {
	return freeTierAccessKey == builtInFreeTierKey
}

// SetFreeTierAccessKey replaces the free-tier key. Empty keys are ignored.
// Call it once during startup, before any controller is built.
func SetFreeTierAccessKey(key string) {
	if key = strings.TrimSpace(key); key != "" {
		freeTierAccessKey = key
	}
}

// Validate checks that ids are unique and non-empty and that the default
// id is present.
func Validate() error {
	return validate(models, DefaultModelID)
}

func validate(list []Model, defaultID string) error {
	if len(list) == 0 {
		return fmt.Errorf("%w: no models", ErrInvalidCatalog)
	}
	seen := make(map[string]bool, len(list))
	for i, m := range list {
		if m.ID == "" {
			return fmt.Errorf("%w: entry %d has no id", ErrInvalidCatalog, i)
		}
		if seen[m.ID] {
			return fmt.Errorf("%w: duplicate id %q", ErrInvalidCatalog, m.ID)
		}
		seen[m.ID] = true
	}
	if !seen[defaultID] {
		return fmt.Errorf("%w: default model %q not in catalog", ErrInvalidCatalog, defaultID)
	}
	return nil
}
