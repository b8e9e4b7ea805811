package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// ErrNotFound covers lookups that miss, including cache misses surfaced
	// by repositories. Callers decide whether a miss is fatal.
	ErrNotFound = errors.New("resource not found")

	// ErrDataUnavailable is returned when a training window selects zero
	// completed contests. A model is never fit on an empty window.
	ErrDataUnavailable = errors.New("no training data available")

	// ErrRosterUnavailable is returned when the standings feed cannot be
	// reached, so no registry snapshot can be taken for the run.
	ErrRosterUnavailable = errors.New("league roster unavailable")

	// ErrFeedUnavailable covers the results and schedule feeds.
	ErrFeedUnavailable = errors.New("feed unavailable")

	// ErrInferenceFailure is returned on engine error, non-convergence, or a
	// malformed engine response. It is never retried.
	ErrInferenceFailure = errors.New("inference engine failure")

	// ErrTeamNotFound is returned when an abbreviation is absent from the
	// registry snapshot taken for the run.
	ErrTeamNotFound = errors.New("team not in registry snapshot")
)

// Error constructors with context
func NewTeamNotFoundError(abbrev string) error {
	return fmt.Errorf("%w: %q", ErrTeamNotFound, abbrev)
}

func NewDataUnavailableError(season string, cutoff Day) error {
	return fmt.Errorf("%w: season %s, cutoff %s", ErrDataUnavailable, season, cutoff)
}

func NewInferenceError(cause error) error {
	return fmt.Errorf("%w: %v", ErrInferenceFailure, cause)
}

// Error checking helpers
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsUnavailable(err error) bool {
	return errors.Is(err, ErrDataUnavailable) ||
		errors.Is(err, ErrRosterUnavailable) ||
		errors.Is(err, ErrFeedUnavailable)
}
