package domain

import "errors"

var (
	// ErrMissingInput is returned when the selected extraction method requires
	// input the user did not supply; no external call is made.
	ErrMissingInput = errors.New("required input not provided for the selected extraction method")

	// ErrInvalidThreshold is returned for a non-finite or non-positive price
	// threshold; the previously displayed set is left untouched.
	ErrInvalidThreshold = errors.New("price threshold must be a positive number")

	// ErrServiceFailure is returned when an external service responds with a
	// non-2xx status or an unparseable body.
	ErrServiceFailure = errors.New("external service request failed")

	// ErrNetwork is returned when an external call could not complete at all.
	ErrNetwork = errors.New("could not reach external service")

	// ErrNoLiveResults is returned when a filter is applied before any
	// live-price search has produced products.
	ErrNoLiveResults = errors.New("no live price results to filter")

	// ErrSessionNotFound is returned when a workflow session has expired or
	// never existed.
	ErrSessionNotFound = errors.New("workflow session not found")
)
