// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package credentials

import (
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"
)

const (
	// DefaultService is the keychain service identifier.
	DefaultService = "Polish.It"

	// APIKeyAccount holds the OpenRouter API key.
	APIKeyAccount = "api_key"

	// SelectedModelAccount holds the id of the selected model.
	SelectedModelAccount = "selected_model"
)

// KeyringStore keeps credentials in the OS keychain (macOS Keychain,
// Secret Service on Linux, Credential Manager on Windows).
type KeyringStore struct {
	service string
}

// NewKeyringStore creates a store under service, or DefaultService if empty.
func NewKeyringStore(service string) *KeyringStore {
	if service == "" {
		service = DefaultService
	}
	return &KeyringStore{service: service}
}

// Service returns the keychain service identifier.
func (k *KeyringStore) Service() string {
	return k.service
}

func (k *KeyringStore) APIKey() (string, error) {
	return k.get(APIKeyAccount)
}

func (k *KeyringStore) SaveAPIKey(key string) error {
	return k.set(APIKeyAccount, key)
}

func (k *KeyringStore) DeleteAPIKey() error {
	if err := keyring.Delete(k.service, APIKeyAccount); err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return fmt.Errorf("delete %s: %w", APIKeyAccount, err)
	}
	return nil
}

func (k *KeyringStore) SelectedModelID() (string, error) {
	return k.get(SelectedModelAccount)
}

func (k *KeyringStore) SaveSelectedModelID(id string) error {
	return k.set(SelectedModelAccount, id)
}

func (k *KeyringStore) get(account string) (string, error) {
	value, err := keyring.Get(k.service, account)
	if errors.Is(err, keyring.ErrNotFound) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("get %s: %w", account, err)
	}
	return value, nil
}

func (k *KeyringStore) set(account, value string) error {
	if err := keyring.Set(k.service, account, value); err != nil {
		return fmt.Errorf("store %s: %w", account, err)
	}
	return nil
}
