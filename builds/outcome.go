package builds

import (
	"errors"

	"github.com/reusee/arcflow/chains"
	"github.com/reusee/arcflow/storages"
)

// Outcome classifies a build or import failure for callers.
type Outcome int

const (
	OutcomeOK Outcome = iota
	OutcomeNotFound
	OutcomeInvalidProject
	OutcomeError
)

func OutcomeOf(err error) Outcome {
	switch {
	case err == nil:
		return OutcomeOK
	case errors.Is(err, storages.ErrNotFound):
		return OutcomeNotFound
	case errors.Is(err, chains.ErrSource),
		errors.Is(err, chains.ErrSourceGeneration):
		return OutcomeInvalidProject
	}
	return OutcomeError
}

func (o Outcome) String() string {
	switch o {
	case OutcomeOK:
		return "ok"
	case OutcomeNotFound:
		return "not found"
	case OutcomeInvalidProject:
		return "invalid project"
	}
	return "error"
}

func (o Outcome) ExitCode() int {
	switch o {
	case OutcomeOK:
		return 0
	case OutcomeNotFound:
		return 3
	case OutcomeInvalidProject:
		return 4
	}
	return 1
}
