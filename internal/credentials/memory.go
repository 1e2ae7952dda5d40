// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package credentials

import "sync"

// MemoryStore is an in-process Store. It backs tests and --ephemeral runs.
// Setting Err makes every call fail with it. The zero value is ready to use.
type MemoryStore struct {
	mu     sync.Mutex
	values map[string]string

	// Err, when non-nil, is returned from every operation.
	Err error
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]string)}
}

// SetErr makes subsequent calls fail with err (nil restores normal behaviour).
func (m *MemoryStore) SetErr(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Err = err
}

func (m *MemoryStore) APIKey() (string, error) {
	return m.get(APIKeyAccount)
}

func (m *MemoryStore) SaveAPIKey(key string) error {
	return m.set(APIKeyAccount, key)
}

func (m *MemoryStore) DeleteAPIKey() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	delete(m.values, APIKeyAccount)
	return nil
}

func (m *MemoryStore) SelectedModelID() (string, error) {
	return m.get(SelectedModelAccount)
}

func (m *MemoryStore) SaveSelectedModelID(id string) error {
	return m.set(SelectedModelAccount, id)
}

func (m *MemoryStore) get(account string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return "", m.Err
	}
	v, ok := m.values[account]
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

func (m *MemoryStore) set(account, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	if m.values == nil {
		m.values = make(map[string]string)
	}
	m.values[account] = value
	return nil
}
