package chains

import (
	"errors"
	"fmt"
)

var (
	// ErrSource is wrapped by every failure to recover logic from a script.
	ErrSource = errors.New("source error")

	// ErrSourceGeneration is wrapped by every failure to generate a script from a project.
	ErrSourceGeneration = errors.New("source generation error")

	ErrInvalidID = errors.New("invalid action id")
)

type Kind int

const (
	KindParse Kind = iota + 1
	KindUnknown
	KindDuplicate
	KindMissing
	KindInvalid
)

func (k Kind) String() string {
	switch k {
	case KindParse:
		return "unparsable script"
	case KindUnknown:
		return "unknown action"
	case KindDuplicate:
		return "duplicate action"
	case KindMissing:
		return "missing action"
	case KindInvalid:
		return "invalid action"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

type SourceError struct {
	Kind     Kind
	ActionID string
	Err      error
}

var _ error = new(SourceError)

func (s *SourceError) Error() string {
	msg := ErrSource.Error() + ": " + s.Kind.String()
	if s.ActionID != "" {
		msg += " " + s.ActionID
	}
	if s.Err != nil {
		msg += ": " + s.Err.Error()
	}
	return msg
}

func (s *SourceError) Unwrap() []error {
	if s.Err == nil {
		return []error{ErrSource}
	}
	return []error{ErrSource, s.Err}
}

type GenerationError struct {
	ActionID string
	Msg      string
	Err      error
}

var _ error = new(GenerationError)

func (g *GenerationError) Error() string {
	msg := ErrSourceGeneration.Error()
	if g.ActionID != "" {
		msg += ": action " + g.ActionID
	}
	if g.Msg != "" {
		msg += ": " + g.Msg
	}
	if g.Err != nil {
		msg += ": " + g.Err.Error()
	}
	return msg
}

func (g *GenerationError) Unwrap() []error {
	if g.Err == nil {
		return []error{ErrSourceGeneration}
	}
	return []error{ErrSourceGeneration, g.Err}
}

type IDError struct {
	ActionID   string
	Duplicated bool
	Msg        string
}

var _ error = new(IDError)

func (i *IDError) Error() string {
	return fmt.Sprintf("%s %q: %s", ErrInvalidID.Error(), i.ActionID, i.Msg)
}

func (i *IDError) Unwrap() error {
	return ErrInvalidID
}
