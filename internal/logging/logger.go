// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package logging sets up polishit's zerolog logger.
//
// The TUI owns the terminal, so logs go to a JSON file. CLI commands run
// with --verbose additionally write human-readable lines to stderr.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
)

const appName = "polishit"

// Options configures New.
type Options struct {
	// File is the log path. Empty disables the file.
	File string
	// Level is the minimum level written.
	Level zerolog.Level
	// Console, when set, also receives console-formatted lines.
	Console io.Writer
}

// Logger is a zerolog logger plus the file it writes to.
type Logger struct {
	zlog zerolog.Logger
	file *os.File
	path string
}

// New opens the log file (appending) and builds the logger. With neither a
// file nor a console the logger discards everything.
func New(opts Options) (*Logger, error) {
	var writers []io.Writer
	l := &Logger{}

	if opts.File != "" {
		if err := os.MkdirAll(filepath.Dir(opts.File), 0700); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}
		file, err := os.OpenFile(opts.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file: %w", err)
		}
		l.file = file
		l.path = opts.File
		writers = append(writers, file)
	}

	if opts.Console != nil {
		writers = append(writers, zerolog.ConsoleWriter{
			Out:        opts.Console,
			TimeFormat: "15:04:05",
		})
	}

	if len(writers) == 0 {
		l.zlog = zerolog.Nop()
		return l, nil
	}

	l.zlog = zerolog.New(zerolog.MultiLevelWriter(writers...)).
		Level(opts.Level).
		With().
		Timestamp().
		Str("app", appName).
		Logger()

	l.zlog.Debug().Str("file", l.path).Str("level", opts.Level.String()).Msg("logger initialized")
	return l, nil
}

// Nop returns a logger that writes nothing.
func Nop() *Logger {
	return &Logger{zlog: zerolog.Nop()}
}

// Component returns a child logger tagged with the component name.
func (l *Logger) Component(name string) zerolog.Logger {
	return l.zlog.With().Str("component", name).Logger()
}

// Zerolog returns the underlying logger.
func (l *Logger) Zerolog() *zerolog.Logger {
	return &l.zlog
}

// Path returns the log file path, or "" when logging to a file is off.
func (l *Logger) Path() string {
	return l.path
}

// Close closes the log file.
func (l *Logger) Close() error {
	if l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	return err
}
