// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package credentials stores the OpenRouter API key and the selected model id
// in the operating system's secret store.
//
// Every call goes straight to the backing store. Nothing is cached, so a
// failing keychain is visible on the next call.
package credentials

import "errors"

// ErrNotFound is returned when a value has never been stored or was deleted.
var ErrNotFound = errors.New("credential not found")

// Store is the capability set the controller needs from secret storage.
type Store interface {
	// APIKey returns the stored key or ErrNotFound.
	APIKey() (string, error)
	// SaveAPIKey stores or overwrites the key.
	SaveAPIKey(key string) error
	// DeleteAPIKey removes the key. Deleting an absent key succeeds.
	DeleteAPIKey() error
	// SelectedModelID returns the stored model id or ErrNotFound.
	SelectedModelID() (string, error)
	// SaveSelectedModelID stores or overwrites the model id.
	SaveSelectedModelID(id string) error
}
