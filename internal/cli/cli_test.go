// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/polishit/internal/catalog"
	"github.com/jeranaias/polishit/internal/controller"
	"github.com/jeranaias/polishit/internal/credentials"
)

const (
	paidModelID = "openai/gpt-4o"
	validKey    = "sk-or-v1-0123456789abcdef0123456789abcdef"
)

// =============================================================================
// TEST HARNESS
// =============================================================================

type fakeAPI struct {
	*httptest.Server
	hits    atomic.Int32
	lastKey atomic.Value
	status  int
	body    string
}

func newFakeAPI(t *testing.T) *fakeAPI {
	t.Helper()
	api := &fakeAPI{
		status: http.StatusOK,
		body:   `{"choices":[{"message":{"role":"assistant","content":"  Their going is now they're going.  "}}]}`,
	}
	api.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		api.hits.Add(1)
		api.lastKey.Store(strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer "))

		var req map[string]any
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(api.status)
		_, _ = w.Write([]byte(api.body))
	}))
	t.Cleanup(api.Close)
	return api
}

type env struct {
	home  string
	api   *fakeAPI
	store *credentials.MemoryStore
}

func newEnv(t *testing.T) *env {
	t.Helper()
	e := &env{
		home:  t.TempDir(),
		api:   newFakeAPI(t),
		store: credentials.NewMemoryStore(),
	}
	t.Setenv("HOME", e.home)
	t.Setenv("USERPROFILE", e.home)
	t.Setenv("NO_COLOR", "1")
	for _, k := range []string{
		"POLISHIT_REFERER", "POLISHIT_TIMEOUT", "POLISHIT_FREE_TIER_KEY",
		"POLISHIT_KEYRING_SERVICE", "POLISHIT_LOG_LEVEL", "POLISHIT_LOG_FILE", "POLISHIT_THEME",
	} {
		t.Setenv(k, "")
	}
	t.Setenv("POLISHIT_BASE_URL", e.api.URL)
	return e
}

type result struct {
	code   int
	stdout string
	stderr string
}

func (e *env) run(stdin string, args ...string) result {
	var out, errOut bytes.Buffer
	code := Execute(context.Background(), args, Options{
		Version: "test",
		Stdin:   strings.NewReader(stdin),
		Stdout:  &out,
		Stderr:  &errOut,
		Store:   e.store,
	})
	return result{code: code, stdout: out.String(), stderr: errOut.String()}
}

// =============================================================================
// POLISH
// =============================================================================

func TestPolish_Args(t *testing.T) {
	e := newEnv(t)

	res := e.run("", "polish", "their", "going")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Equal(t, "Their going is now they're going.\n", res.stdout)
	assert.Equal(t, int32(1), e.api.hits.Load())
	assert.Equal(t, catalog.FreeTierAccessKey(), e.api.lastKey.Load(), "default model is free")
}

func TestPolish_Stdin(t *testing.T) {
	e := newEnv(t)

	res := e.run("their going\n", "polish")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Contains(t, res.stdout, "they're going")
}

func TestPolish_NoText(t *testing.T) {
	e := newEnv(t)

	res := e.run("   \n", "polish")
	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stderr, "no text to polish")
	assert.Zero(t, e.api.hits.Load())
}

func TestPolish_PaidModelWithoutKey(t *testing.T) {
	e := newEnv(t)

	res := e.run("", "polish", "--model", paidModelID, "hello")
	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stderr, controller.MsgMissingAPIKey)
	assert.Empty(t, res.stdout)
	assert.Zero(t, e.api.hits.Load())
}

func TestPolish_PaidModelUsesStoredKey(t *testing.T) {
	e := newEnv(t)
	require.NoError(t, e.store.SaveAPIKey(validKey))

	res := e.run("", "polish", "-m", paidModelID, "hello")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Equal(t, validKey, e.api.lastKey.Load())

	// --model does not change the stored selection.
	_, err := e.store.SelectedModelID()
	assert.ErrorIs(t, err, credentials.ErrNotFound)
}

func TestPolish_UnknownModel(t *testing.T) {
	e := newEnv(t)

	res := e.run("", "polish", "--model", "nope/never", "hello")
	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stderr, `unknown model "nope/never"`)
}

func TestPolish_Unauthorized(t *testing.T) {
	e := newEnv(t)
	e.api.status = http.StatusUnauthorized
	e.api.body = `{"error":{"message":"No auth credentials found"}}`

	res := e.run("", "polish", "hello")
	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stderr, "Error: No auth credentials found")
	assert.Contains(t, res.stderr, controller.MsgAuthFailed)
	assert.Empty(t, res.stdout)
}

func TestPolish_RateLimitedStaysInline(t *testing.T) {
	e := newEnv(t)
	e.api.status = http.StatusTooManyRequests
	e.api.body = `{"error":{"message":"Rate limit exceeded"}}`

	res := e.run("", "polish", "hello")
	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stderr, "Error: Rate limit exceeded")
	assert.NotContains(t, res.stderr, "Server error")
}

func TestPolish_CancelledContext(t *testing.T) {
	e := newEnv(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out, errOut bytes.Buffer
	code := Execute(ctx, []string{"polish", "hello"}, Options{
		Stdin: strings.NewReader(""), Stdout: &out, Stderr: &errOut, Store: e.store,
	})
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut.String(), "cancelled")
	assert.Empty(t, out.String())
}

// =============================================================================
// MODELS
// =============================================================================

func TestModels_ListsCatalog(t *testing.T) {
	e := newEnv(t)

	res := e.run("", "models")
	require.Equal(t, 0, res.code, res.stderr)
	for _, m := range catalog.Models() {
		assert.Contains(t, res.stdout, m.ID)
	}
	assert.Contains(t, res.stdout, "free (default)")
}

func TestModels_NotesPlaceholderFreeTierKey(t *testing.T) {
	e := newEnv(t)

	res := e.run("", "models")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Contains(t, res.stdout, freeTierKeyNote)

	res = e.run("", "key", "status")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Contains(t, res.stdout, freeTierKeyNote)
}

func TestModels_ConfiguredFreeTierKeyHidesNote(t *testing.T) {
	e := newEnv(t)
	t.Setenv("POLISHIT_FREE_TIER_KEY", "sk-or-v1-provisioned")
	orig := catalog.FreeTierAccessKey()
	t.Cleanup(func() { catalog.SetFreeTierAccessKey(orig) })

	res := e.run("", "models")
	require.Equal(t, 0, res.code, res.stderr)
	assert.NotContains(t, res.stdout, freeTierKeyNote)

	res = e.run("", "polish", "hello")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Equal(t, "sk-or-v1-provisioned", e.api.lastKey.Load())
}

func TestModel_SelectPersists(t *testing.T) {
	e := newEnv(t)

	res := e.run("", "model", paidModelID)
	require.Equal(t, 0, res.code, res.stderr)
	assert.Contains(t, res.stdout, "GPT-4o")
	assert.Contains(t, res.stderr, "paid model")

	id, err := e.store.SelectedModelID()
	require.NoError(t, err)
	assert.Equal(t, paidModelID, id)

	res = e.run("", "polish", "hello")
	assert.Equal(t, 1, res.code, "selected paid model needs a key")
	assert.Contains(t, res.stderr, controller.MsgMissingAPIKey)
}

func TestModel_Unknown(t *testing.T) {
	e := newEnv(t)

	res := e.run("", "model", "nope/never")
	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stderr, "unknown model")
}

// =============================================================================
// KEY
// =============================================================================

func TestKey_SetStatusDelete(t *testing.T) {
	e := newEnv(t)

	res := e.run(validKey+"\n", "key", "set")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Contains(t, res.stdout, "API key saved")
	assert.NotContains(t, res.stdout, validKey)
	assert.Empty(t, res.stderr)

	key, err := e.store.APIKey()
	require.NoError(t, err)
	assert.Equal(t, validKey, key)

	res = e.run("", "key", "status")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Contains(t, res.stdout, "fingerprint")
	assert.NotContains(t, res.stdout, validKey)

	res = e.run("", "key", "delete")
	require.Equal(t, 0, res.code, res.stderr)
	_, err = e.store.APIKey()
	assert.ErrorIs(t, err, credentials.ErrNotFound)

	res = e.run("", "key", "status")
	assert.Contains(t, res.stdout, "not set")
}

func TestKey_SetWarnsOnOddFormat(t *testing.T) {
	e := newEnv(t)

	res := e.run("", "key", "set", "not-a-key")
	require.Equal(t, 0, res.code)
	assert.Contains(t, res.stderr, keyFormatWarning)
}

func TestKey_SetEmpty(t *testing.T) {
	e := newEnv(t)

	res := e.run("\n", "key", "set")
	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stderr, "no key given")
}

// =============================================================================
// CONFIG
// =============================================================================

func TestConfig_ShowsEffectiveConfig(t *testing.T) {
	e := newEnv(t)
	t.Setenv("POLISHIT_FREE_TIER_KEY", "sk-or-private")
	orig := catalog.FreeTierAccessKey()
	t.Cleanup(func() { catalog.SetFreeTierAccessKey(orig) })

	res := e.run("", "config")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Contains(t, res.stdout, "not found, using defaults")
	assert.Contains(t, res.stdout, e.api.URL)
	assert.NotContains(t, res.stdout, "sk-or-private")
}

func TestConfig_Init(t *testing.T) {
	e := newEnv(t)
	path := filepath.Join(e.home, "custom", "polishit.toml")

	res := e.run("", "--config", path, "config", "init")
	require.Equal(t, 0, res.code, res.stderr)
	_, err := os.Stat(path)
	require.NoError(t, err)

	res = e.run("", "--config", path, "config", "init")
	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stderr, "already exists")

	res = e.run("", "--config", path, "config", "init", "--force")
	assert.Equal(t, 0, res.code, res.stderr)
}

func TestInvalidConfigFails(t *testing.T) {
	e := newEnv(t)
	t.Setenv("POLISHIT_TIMEOUT", "0")

	res := e.run("", "models")
	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stderr, "cloud.timeout_secs")
}

func TestTUI_RequiresTerminal(t *testing.T) {
	e := newEnv(t)

	res := e.run("")
	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stderr, "needs a terminal")
}
