// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package polish

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a failed polish attempt.
type Kind int

const (
	// KindInvalidInput is a local, pre-flight rejection. No request was sent.
	KindInvalidInput Kind = iota + 1
	// KindUnauthorized is a 401, or a missing key detected before sending.
	KindUnauthorized
	// KindAPI is any other provider response with status >= 400.
	KindAPI
	// KindNetwork means no response was received (DNS, connect, TLS, timeout).
	KindNetwork
	// KindMalformedResponse means the exchange succeeded but the body could
	// not be understood.
	KindMalformedResponse
	// KindCancelled means the request was superseded or cancelled.
	KindCancelled
)

func (k Kind) String() string {
	switch k {
	case KindInvalidInput:
		return "invalid_input"
	case KindUnauthorized:
		return "unauthorized"
	case KindAPI:
		return "api_error"
	case KindNetwork:
		return "network"
	case KindMalformedResponse:
		return "malformed_response"
	case KindCancelled:
		return "cancelled"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// parseFailedMessage is reported when a 2xx/3xx body lacks the expected shape.
const parseFailedMessage = "Failed to parse response"

// Error is the only error type Polish returns.
type Error struct {
	Kind Kind
	// Status is the HTTP status when a response was received, else 0.
	Status int
	// Message is user-presentable.
	Message string
	// Err is the underlying cause, if any.
	Err error
}

// Error returns the user-presentable message.
func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsServerError reports whether the provider answered with a 5xx status.
func (e *Error) IsServerError() bool {
	return e.Kind == KindAPI && e.Status >= http.StatusInternalServerError
}

// KindOf returns the Kind of err, or 0 if err is not an *Error.
func KindOf(err error) Kind {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return 0
}

// IsKind reports whether err is an *Error of kind k.
func IsKind(err error, k Kind) bool {
	return KindOf(err) == k
}

// IsCancelled reports whether err is a cancellation.
func IsCancelled(err error) bool {
	return IsKind(err, KindCancelled)
}

func newError(kind Kind, status int, message string, cause error) *Error {
	return &Error{Kind: kind, Status: status, Message: message, Err: cause}
}

// apiError maps a >= 400 status to Unauthorized or APIError.
func apiError(status int, message string) *Error {
	kind := KindAPI
	if status == http.StatusUnauthorized {
		kind = KindUnauthorized
	}
	if message == "" {
		message = fmt.Sprintf("API error: %d", status)
	}
	return newError(kind, status, message, nil)
}
