// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package controller

import (
	"context"

	"github.com/jeranaias/polishit/internal/polish"
)

// Task is one cancellable polish request. RequestPolish creates it; the
// owner runs it off its own goroutine and hands the Result to Complete.
type Task struct {
	// ID orders tasks within one controller. Later tasks have larger ids.
	ID uint64

	req    polish.Request
	client Polisher
	ctx    context.Context
	cancel context.CancelFunc
}

// Result is what a finished Task reports back to the controller.
type Result struct {
	TaskID uint64
	Text   string
	Err    error
}

// RequestID returns the id used to correlate log lines for this task.
func (t *Task) RequestID() string {
	return t.req.ID
}

// Model returns the model id the task polishes with.
func (t *Task) Model() string {
	return t.req.Model.ID
}

// Run performs the HTTP call. It blocks and must not be called on the
// goroutine that owns the controller. Run touches no controller state.
func (t *Task) Run() Result {
	text, err := t.client.Polish(t.ctx, t.req)
	return Result{TaskID: t.ID, Text: text, Err: err}
}

// Cancel stops the request. Safe to call more than once and from any goroutine.
func (t *Task) Cancel() {
	t.cancel()
}

// Cancelled reports whether Cancel was called.
func (t *Task) Cancelled() bool {
	return t.ctx.Err() != nil
}
