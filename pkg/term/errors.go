package term

import "errors"

var (
	// ErrInvalidInput marks empty or non-UTF-8 text and empty queries.
	ErrInvalidInput = errors.New("invalid input")

	// ErrServiceUnavailable marks an unreachable collaborator (term store,
	// preference provider). Callers may retry; the engines never do.
	ErrServiceUnavailable = errors.New("service unavailable")

	// ErrRankingDegraded reports that one or more scoring components were
	// substituted with neutral values. The ranked result is still usable.
	ErrRankingDegraded = errors.New("ranking degraded")
)
