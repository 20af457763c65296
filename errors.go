package debugdraw

import (
	"errors"
	"fmt"
)

// Sentinel errors reported through the diagnostic side channel.
// Draw calls never return them; see WithErrorHandler.
var (
	// ErrUnknownDrawGroup is reported when an operation names a draw group
	// that was never allocated or has been released.
	ErrUnknownDrawGroup = errors.New("debugdraw: unknown draw group")

	// ErrReleased is reported when a context is used after its last
	// reference was released.
	ErrReleased = errors.New("debugdraw: context released")

	// ErrNonFinite is reported when a coordinate, matrix or size contains
	// NaN or infinity and was replaced by a safe default.
	ErrNonFinite = errors.New("debugdraw: non-finite value")

	// ErrFormat is reported when a text format directive does not match
	// its argument or is not supported.
	ErrFormat = errors.New("debugdraw: bad format directive")

	// ErrStateUnderflow is reported by PopRenderState on an empty stack.
	ErrStateUnderflow = errors.New("debugdraw: render state stack underflow")

	// ErrGroupsExhausted is reported by BeginDrawGroup once every id of the
	// context has been handed out.
	ErrGroupsExhausted = errors.New("debugdraw: draw group ids exhausted")

	// ErrOutOfSync is returned by Replica.Apply for a delta update that does
	// not follow the last applied one. The sender must send a full update.
	ErrOutOfSync = errors.New("debugdraw: replica out of sync")
)

// GroupError describes an operation on a draw group id that does not
// refer to a live group.
type GroupError struct {
	Op string
	ID GroupID
}

func (e *GroupError) Error() string {
	return fmt.Sprintf("debugdraw: %s: unknown draw group %d", e.Op, e.ID)
}

// Unwrap returns ErrUnknownDrawGroup so errors.Is matches the sentinel.
func (e *GroupError) Unwrap() error {
	return ErrUnknownDrawGroup
}

// OpError wraps a sentinel with the name of the draw call that reported it.
type OpError struct {
	Op  string
	Err error
}

func (e *OpError) Error() string {
	return e.Op + ": " + e.Err.Error()
}

func (e *OpError) Unwrap() error {
	return e.Err
}
