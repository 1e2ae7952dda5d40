// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package catalog

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate_BuiltInCatalog(t *testing.T) {
	require.NoError(t, Validate())
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name      string
		list      []Model
		defaultID string
		wantMsg   string
	}{
		{"empty", nil, "a", "no models"},
		{"missing id", []Model{{DisplayName: "x"}}, "a", "has no id"},
		{"duplicate", []Model{{ID: "a"}, {ID: "a"}}, "a", "duplicate"},
		{"no default", []Model{{ID: "a"}}, "b", "not in catalog"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validate(tt.list, tt.defaultID)
			require.ErrorIs(t, err, ErrInvalidCatalog)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestDefault(t *testing.T) {
	m := Default()
	assert.Equal(t, DefaultModelID, m.ID)
	assert.True(t, m.Free)
}

func TestModels_ReturnsCopy(t *testing.T) {
	list := Models()
	require.NotEmpty(t, list)
	list[0].ID = "mutated"
	assert.NotEqual(t, "mutated", Models()[0].ID)
}

func TestModels_FreeIDsCarrySuffix(t *testing.T) {
	for _, m := range Models() {
		assert.Equal(t, m.Free, strings.HasSuffix(m.ID, ":free"), m.ID)
	}
}

func TestResolve(t *testing.T) {
	paid := Models()[len(Models())-1]
	require.False(t, paid.Free)

	assert.Equal(t, paid, Resolve(paid.ID))
	assert.Equal(t, Default(), Resolve(""))
	assert.Equal(t, Default(), Resolve("nope/unknown-model"))
}

func TestSetFreeTierAccessKey(t *testing.T) {
	orig := FreeTierAccessKey()
	t.Cleanup(func() { freeTierAccessKey = orig })

	freeTierAccessKey = builtInFreeTierKey
	assert.True(t, UsingBuiltInFreeTierKey())

	SetFreeTierAccessKey("   ")
	assert.Equal(t, builtInFreeTierKey, FreeTierAccessKey())
	assert.True(t, UsingBuiltInFreeTierKey())

	SetFreeTierAccessKey(" sk-or-custom ")
	assert.Equal(t, "sk-or-custom", FreeTierAccessKey())
	assert.False(t, UsingBuiltInFreeTierKey())
}
