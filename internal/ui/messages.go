// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/polishit/internal/controller"
)

// resultMsg carries a finished task back to the update loop.
type resultMsg struct {
	res controller.Result
}

// flashExpiredMsg clears the transient status text set with the given seq.
type flashExpiredMsg struct {
	seq int
}

const flashDuration = 3 * time.Second

// runTask runs the task off the update loop.
func runTask(task *controller.Task) tea.Cmd {
	return func() tea.Msg {
		return resultMsg{res: task.Run()}
	}
}

func expireFlash(seq int) tea.Cmd {
	return tea.Tick(flashDuration, func(time.Time) tea.Msg {
		return flashExpiredMsg{seq: seq}
	})
}

// alertQueue collects controller alerts. The controller calls Notify from
// inside Update, so no locking is needed.
type alertQueue struct {
	pending []controller.Alert
}

func (q *alertQueue) Notify(a controller.Alert) {
	q.pending = append(q.pending, a)
}

func (q *alertQueue) current() (controller.Alert, bool) {
	if len(q.pending) == 0 {
		return controller.Alert{}, false
	}
	return q.pending[0], true
}

func (q *alertQueue) dismiss() {
	if len(q.pending) > 0 {
		q.pending = q.pending[1:]
	}
}
