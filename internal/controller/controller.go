// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package controller owns the state a polishit front end displays and drives
// polish requests from validation to result.
//
// All methods except Task.Run must be called from one goroutine, the owner
// (the Bubble Tea update loop, or main in the CLI). The controller does no
// locking. Tasks run elsewhere and report back through Complete, which
// discards results from superseded tasks.
package controller

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jeranaias/polishit/internal/catalog"
	"github.com/jeranaias/polishit/internal/credentials"
	"github.com/jeranaias/polishit/internal/polish"
)

// User-facing messages.
const (
	MsgMissingAPIKey   = "Please enter your OpenRouter API key in Settings"
	MsgAuthFailed      = "Authentication failed: Please check your API key"
	MsgServerErrorFmt  = "Server error: %s"
	MsgSettingsSaved   = "Settings saved successfully."
	MsgPaidWithoutKey  = "Warning: You selected a paid model but didn't provide an API key."
	MsgSaveKeyFailed   = "Failed to save API key to the keychain"
	MsgDeleteKeyFailed = "Failed to remove API key from the keychain"
	errorPrefix        = "Error: "
)

// ErrNoClipboard is returned by CopyPolishedText when no clipboard is wired.
var ErrNoClipboard = errors.New("clipboard not available")

// Polisher performs one polish call. *polish.Client implements it.
type Polisher interface {
	Polish(ctx context.Context, req polish.Request) (string, error)
}

// Clipboard receives copied text.
type Clipboard interface {
	WriteAll(text string) error
}

// State is the observable record a front end renders.
type State struct {
	OriginalText  string
	PolishedText  string
	APIKeyField   string
	IsLoading     bool
	ErrorMessage  string
	SelectedModel catalog.Model
}

// Controller coordinates validation, requests, cancellation and results.
type Controller struct {
	client    Polisher
	store     credentials.Store
	clipboard Clipboard
	notifier  Notifier
	logger    zerolog.Logger

	state   State
	current *Task
	lastID  uint64

	subscribers []subscriber
	nextSubID   int
}

type subscriber struct {
	id int
	fn func(State)
}

// New creates a controller. The selected model starts at the catalog
// default until LoadCredentials runs.
func New(client Polisher, store credentials.Store) *Controller {
	return &Controller{
		client:   client,
		store:    store,
		notifier: nopNotifier{},
		logger:   zerolog.Nop(),
		state:    State{SelectedModel: catalog.Default()},
	}
}

// WithClipboard sets the clipboard used by CopyPolishedText.
func (c *Controller) WithClipboard(cb Clipboard) *Controller {
	c.clipboard = cb
	return c
}

// WithNotifier sets the receiver of blocking alerts.
func (c *Controller) WithNotifier(n Notifier) *Controller {
	if n != nil {
		c.notifier = n
	}
	return c
}

// WithLogger sets the logger.
func (c *Controller) WithLogger(logger zerolog.Logger) *Controller {
	c.logger = logger.With().Str("component", "controller").Logger()
	return c
}

// State returns a copy of the current state.
func (c *Controller) State() State {
	return c.state
}

// InFlight reports whether a request is running.
func (c *Controller) InFlight() bool {
	return c.current != nil
}

// Subscribe registers fn to receive the state after every change. The
// returned function removes the subscription.
func (c *Controller) Subscribe(fn func(State)) (unsubscribe func()) {
	c.nextSubID++
	id := c.nextSubID
	c.subscribers = append(c.subscribers, subscriber{id: id, fn: fn})
	return func() {
		for i, s := range c.subscribers {
			if s.id == id {
				c.subscribers = append(c.subscribers[:i], c.subscribers[i+1:]...)
				return
			}
		}
	}
}

func (c *Controller) publish() {
	snapshot := c.state
	for _, s := range c.subscribers {
		s.fn(snapshot)
	}
}

// =============================================================================
// CREDENTIALS
// =============================================================================

// LoadCredentials reads the key and selected model from the store. An
// unknown or missing model id falls back to the catalog default. Store
// failures are logged and leave the defaults in place.
func (c *Controller) LoadCredentials() {
	key, err := c.store.APIKey()
	switch {
	case err == nil:
		c.state.APIKeyField = key
		c.logger.Info().Msg("API key loaded from keychain")
	case errors.Is(err, credentials.ErrNotFound):
		c.logger.Warn().Msg("no API key found in keychain")
	default:
		c.logger.Error().Err(err).Msg("failed to read API key")
	}

	id, err := c.store.SelectedModelID()
	if err != nil && !errors.Is(err, credentials.ErrNotFound) {
		c.logger.Error().Err(err).Msg("failed to read selected model")
	}
	model := catalog.Resolve(id)
	if id != "" && model.ID != id {
		c.logger.Warn().Str("stored", id).Str("using", model.ID).Msg("stored model not in catalog")
	}
	c.state.SelectedModel = model
	c.logger.Info().Str("model", model.ID).Msg("model selected")

	c.publish()
}

// SelectModel updates the selection and persists it. A persistence failure
// is logged; the in-memory selection is kept.
func (c *Controller) SelectModel(m catalog.Model) {
	c.state.SelectedModel = m
	c.publish()

	if err := c.store.SaveSelectedModelID(m.ID); err != nil {
		c.logger.Warn().Err(err).Str("model", m.ID).Msg("failed to persist selected model")
		return
	}
	c.logger.Info().Str("model", m.ID).Msg("model saved")
}

// UseModel selects m for this session only; nothing is persisted.
func (c *Controller) UseModel(m catalog.Model) {
	c.state.SelectedModel = m
	c.logger.Info().Str("model", m.ID).Msg("model selected for this session")
	c.publish()
}

// SaveSettings applies the settings form: the trimmed key is saved, or
// deleted when empty, and the model is selected. The user is told the
// outcome, including the case of a paid model without a key.
func (c *Controller) SaveSettings(key string, m catalog.Model) {
	key = strings.TrimSpace(key)

	if key == "" {
		if err := c.store.DeleteAPIKey(); err != nil {
			c.logger.Error().Err(err).Msg("failed to clear API key")
			c.alert(LevelError, MsgDeleteKeyFailed)
		} else {
			c.state.APIKeyField = ""
			c.logger.Info().Msg("API key cleared from keychain")
		}
	} else {
		if err := c.store.SaveAPIKey(key); err != nil {
			// The key would be gone on the next start; say so.
			c.logger.Error().Err(err).Msg("failed to save API key")
			c.alert(LevelError, MsgSaveKeyFailed)
		} else {
			c.logger.Info().Msg("API key saved to keychain")
		}
		c.state.APIKeyField = key
	}

	c.SelectModel(m)

	if !m.Free && key == "" {
		c.alert(LevelWarning, MsgPaidWithoutKey)
	} else {
		c.alert(LevelInfo, MsgSettingsSaved)
	}
}

// =============================================================================
// TEXT EDITING
// =============================================================================

// SetOriginalText replaces the input text.
func (c *Controller) SetOriginalText(text string) {
	if c.state.OriginalText == text {
		return
	}
	c.state.OriginalText = text
	c.publish()
}

// SetAPIKeyField replaces the key typed in settings without persisting it.
func (c *Controller) SetAPIKeyField(key string) {
	if c.state.APIKeyField == key {
		return
	}
	c.state.APIKeyField = key
	c.publish()
}

// ClearText empties both texts and the error. A running request keeps running.
func (c *Controller) ClearText() {
	c.state.OriginalText = ""
	c.state.PolishedText = ""
	c.state.ErrorMessage = ""
	c.logger.Info().Msg("text cleared")
	c.publish()
}

// CopyPolishedText writes the polished text to the clipboard. It does
// nothing when there is no polished text.
func (c *Controller) CopyPolishedText() error {
	if c.state.PolishedText == "" {
		return nil
	}
	if c.clipboard == nil {
		return ErrNoClipboard
	}
	if err := c.clipboard.WriteAll(c.state.PolishedText); err != nil {
		c.logger.Error().Err(err).Msg("failed to copy polished text")
		return err
	}
	c.logger.Info().Int("len", len(c.state.PolishedText)).Msg("polished text copied to clipboard")
	return nil
}

// =============================================================================
// POLISHING
// =============================================================================

// RequestPolish validates the state and, if it passes, cancels any running
// task and returns a new one. It returns nil when there is nothing to do
// (empty text) or a required key is missing. The caller must Run the task
// off the owner goroutine and pass the Result to Complete.
func (c *Controller) RequestPolish() *Task {
	if c.state.OriginalText == "" {
		return nil
	}

	model := c.state.SelectedModel
	key := strings.TrimSpace(c.state.APIKeyField)
	if !model.Free && key == "" {
		c.state.ErrorMessage = MsgMissingAPIKey
		c.publish()
		c.alert(LevelError, MsgMissingAPIKey)
		return nil
	}

	if c.current != nil {
		c.logger.Info().Str("request_id", c.current.RequestID()).Msg("cancelling superseded request")
		c.current.Cancel()
		c.current = nil
	}

	if model.Free {
		key = catalog.FreeTierAccessKey()
	}

	ctx, cancel := context.WithCancel(context.Background())
	c.lastID++
	task := &Task{
		ID: c.lastID,
		req: polish.Request{
			ID:     uuid.NewString(),
			Text:   c.state.OriginalText,
			APIKey: key,
			Model:  model,
		},
		client: c.client,
		ctx:    ctx,
		cancel: cancel,
	}
	c.current = task

	c.state.ErrorMessage = ""
	c.state.IsLoading = true
	c.logger.Info().
		Str("request_id", task.RequestID()).
		Str("model", model.ID).
		Bool("free", model.Free).
		Msg("starting polish")
	c.publish()

	return task
}

// Cancel stops the running task, if any. Its result still arrives through
// Complete and is handled as a cancellation.
func (c *Controller) Cancel() {
	if c.current != nil {
		c.current.Cancel()
	}
}

// Complete applies a task result. Results of superseded tasks are dropped,
// and a result of a cancelled task counts as a cancellation whatever it
// carries.
func (c *Controller) Complete(res Result) {
	task := c.current
	if task == nil || res.TaskID != task.ID {
		c.logger.Debug().Uint64("task", res.TaskID).Msg("discarding result of superseded request")
		return
	}
	c.current = nil
	cancelled := task.Cancelled() || polish.IsCancelled(res.Err)
	task.Cancel()

	c.state.IsLoading = false
	log := c.logger.With().Str("request_id", task.RequestID()).Logger()

	switch {
	case cancelled:
		log.Info().Msg("request cancelled")
	case res.Err == nil:
		c.state.PolishedText = res.Text
		c.state.ErrorMessage = ""
		log.Info().Msg("text successfully polished")
	default:
		c.state.ErrorMessage = errorPrefix + res.Err.Error()
		log.Error().Err(res.Err).Str("kind", polish.KindOf(res.Err).String()).Msg("polish failed")
	}
	c.publish()

	if !cancelled && res.Err != nil {
		c.escalate(res.Err)
	}
}

// escalate raises a blocking alert for failures the user must act on:
// authentication and server errors. Everything else stays inline.
func (c *Controller) escalate(err error) {
	var pe *polish.Error
	if !errors.As(err, &pe) {
		return
	}
	switch {
	case pe.Kind == polish.KindUnauthorized:
		c.alert(LevelError, MsgAuthFailed)
	case pe.IsServerError():
		c.alert(LevelError, serverErrorMessage(pe.Message))
	}
}
