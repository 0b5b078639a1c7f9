package scoring

import (
	"errors"
	"fmt"
)

// ErrorKind classifies scoring failures. None of them are transient.
type ErrorKind string

const (
	KindInvalidState  ErrorKind = "invalid_state"
	KindUnknownPlayer ErrorKind = "unknown_player"
	KindValidation    ErrorKind = "validation_error"
)

// Sentinels for errors.Is matching.
var (
	ErrInvalidState  = errors.New("invalid state")
	ErrUnknownPlayer = errors.New("unknown player")
	ErrValidation    = errors.New("validation error")
)

// Error is returned by every scoring operation that rejects its input.
type Error struct {
	Kind    ErrorKind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// Is lets errors.Is(err, ErrInvalidState) and friends match on kind.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrInvalidState:
		return e.Kind == KindInvalidState
	case ErrUnknownPlayer:
		return e.Kind == KindUnknownPlayer
	case ErrValidation:
		return e.Kind == KindValidation
	}
	return false
}

func invalidState(format string, args ...any) error {
	return &Error{Kind: KindInvalidState, Message: fmt.Sprintf(format, args...)}
}

func unknownPlayer(format string, args ...any) error {
	return &Error{Kind: KindUnknownPlayer, Message: fmt.Sprintf(format, args...)}
}

func validation(format string, args ...any) error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

// KindOf returns the kind of a scoring error, or "" for anything else.
func KindOf(err error) ErrorKind {
	var se *Error
	if errors.As(err, &se) {
		return se.Kind
	}
	return ""
}
