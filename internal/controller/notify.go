// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package controller

import "fmt"

// Level grades an Alert.
type Level int

const (
	LevelInfo Level = iota
	LevelWarning
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelWarning:
		return "Warning"
	case LevelError:
		return "Error"
	default:
		return "Info"
	}
}

// Alert is a notification the front end shows modally, apart from the
// inline error text.
type Alert struct {
	Level   Level
	Title   string
	Message string
}

// Notifier displays alerts. It is called on the owner goroutine.
type Notifier interface {
	Notify(Alert)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(Alert)

func (f NotifierFunc) Notify(a Alert) { f(a) }

type nopNotifier struct{}

func (nopNotifier) Notify(Alert) {}

func (c *Controller) alert(level Level, message string) {
	c.logger.Debug().Str("level", level.String()).Str("message", message).Msg("alert")
	c.notifier.Notify(Alert{Level: level, Title: level.String(), Message: message})
}

func serverErrorMessage(msg string) string {
	return fmt.Sprintf(MsgServerErrorFmt, msg)
}
