// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package credentials

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"
)

// exerciseStore runs the shared contract against any Store.
func exerciseStore(t *testing.T, s Store) {
	t.Helper()

	_, err := s.APIKey()
	require.ErrorIs(t, err, ErrNotFound)
	_, err = s.SelectedModelID()
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.SaveAPIKey("sk-first"))
	require.NoError(t, s.SaveAPIKey("sk-second"))
	key, err := s.APIKey()
	require.NoError(t, err)
	assert.Equal(t, "sk-second", key)

	require.NoError(t, s.SaveSelectedModelID("openai/gpt-4o"))
	id, err := s.SelectedModelID()
	require.NoError(t, err)
	assert.Equal(t, "openai/gpt-4o", id)

	require.NoError(t, s.DeleteAPIKey())
	_, err = s.APIKey()
	require.ErrorIs(t, err, ErrNotFound)
	require.NoError(t, s.DeleteAPIKey(), "deleting an absent key succeeds")

	// Values are independent.
	id, err = s.SelectedModelID()
	require.NoError(t, err)
	assert.Equal(t, "openai/gpt-4o", id)
}

func TestKeyringStore(t *testing.T) {
	keyring.MockInit()
	exerciseStore(t, NewKeyringStore(""))
}

func TestKeyringStore_ServiceIsolation(t *testing.T) {
	keyring.MockInit()
	a := NewKeyringStore("svc-a")
	b := NewKeyringStore("svc-b")

	require.NoError(t, a.SaveAPIKey("sk-a"))
	_, err := b.APIKey()
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, DefaultService, NewKeyringStore("").Service())
}

func TestKeyringStore_BackendFailure(t *testing.T) {
	boom := errors.New("keychain locked")
	keyring.MockInitWithError(boom)
	t.Cleanup(keyring.MockInit)

	s := NewKeyringStore("")
	_, err := s.APIKey()
	require.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, s.SaveAPIKey("sk-x"), boom)
	assert.ErrorIs(t, s.SaveSelectedModelID("x"), boom)
	assert.ErrorIs(t, s.DeleteAPIKey(), boom)
}

func TestMemoryStore(t *testing.T) {
	exerciseStore(t, NewMemoryStore())
}

func TestMemoryStore_ZeroValue(t *testing.T) {
	exerciseStore(t, &MemoryStore{})
}

func TestMemoryStore_Err(t *testing.T) {
	boom := errors.New("boom")
	s := NewMemoryStore()
	s.SetErr(boom)

	_, err := s.APIKey()
	assert.ErrorIs(t, err, boom)
	assert.ErrorIs(t, s.SaveAPIKey("k"), boom)
	assert.ErrorIs(t, s.DeleteAPIKey(), boom)

	s.SetErr(nil)
	assert.NoError(t, s.SaveAPIKey("k"))
}
