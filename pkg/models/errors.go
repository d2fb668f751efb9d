// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package models

import (
	"errors"
)

var (
	// ErrAlreadyQueued is returned when a player enqueues while already
	// waiting in a queue or participating in an active match.
	ErrAlreadyQueued = errors.New("player is already queued or in a match")

	// ErrNotInQueue is returned when a leave targets a player not waiting
	// in any queue.
	ErrNotInQueue = errors.New("player is not in a queue")

	// ErrMatchNotFound is benign everywhere: timers and clicks racing a
	// terminal transition are expected, not exceptional.
	ErrMatchNotFound = errors.New("match not found")

	// ErrInvalidTransition means the action is not valid in the match's
	// current state; it is ignored with no state change.
	ErrInvalidTransition = errors.New("action not valid in current match state")

	// ErrBanned is returned on enqueue while an active ban stands.
	ErrBanned = errors.New("player is banned")

	// ErrSelfReport is returned when a player reports themselves.
	ErrSelfReport = errors.New("cannot report yourself")
)

var errorCodeMap = map[error]int{
	ErrAlreadyQueued:     520101,
	ErrNotInQueue:        520102,
	ErrMatchNotFound:     520103,
	ErrInvalidTransition: 520104,
	ErrBanned:            520105,
	ErrSelfReport:        520106,
}

// ErrorCode returns a code for the error.
// It returns 20002 if the error is not registered in the map.
func ErrorCode(err error) int {
	code, ok := errorCodeMap[err]
	if !ok {
		return 20002
	}
	return code
}

// IsBenign reports whether the error is an expected race outcome that
// handlers should log at debug level and otherwise swallow.
func IsBenign(err error) bool {
	return errors.Is(err, ErrMatchNotFound) || errors.Is(err, ErrInvalidTransition)
}
