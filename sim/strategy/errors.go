package strategy

import (
	"errors"
	"fmt"
)

var (
	// ErrConfigNotFound is returned when the configuration source is missing.
	ErrConfigNotFound = errors.New("strategy config not found")
	// ErrConfigParse is returned when the configuration source is malformed.
	ErrConfigParse = errors.New("strategy config malformed")
	// ErrStrategyResolution matches every *ResolutionError.
	ErrStrategyResolution = errors.New("strategy resolution failed")
)

// ResolutionError reports why a configured strategy could not be built.
// It is fatal for the whole batch: the same identifier fails on every run.
type ResolutionError struct {
	Section    string
	Family     Family
	Identifier string // empty when no entry exists
	Err        error
}

func (e *ResolutionError) Error() string {
	if e.Identifier == "" {
		return fmt.Sprintf("resolving %s for section %q: %v", e.Family, e.Section, e.Err)
	}
	return fmt.Sprintf("resolving %s %q for section %q: %v", e.Family, e.Identifier, e.Section, e.Err)
}

func (e *ResolutionError) Unwrap() error { return e.Err }

func (e *ResolutionError) Is(target error) bool { return target == ErrStrategyResolution }
