package analyzer

import "errors"

var (
	// ErrInsufficientData is returned when a panel has fewer rows than a computation needs.
	ErrInsufficientData = errors.New("insufficient data")
	// ErrInsufficientAssets is returned when a computation needs at least two tickers.
	ErrInsufficientAssets = errors.New("insufficient assets")
	// ErrExternalFetch is returned when an upstream provider fails.
	ErrExternalFetch = errors.New("external fetch failed")
	// ErrMalformedSchema is returned when an upstream payload does not have the expected shape.
	ErrMalformedSchema error = &schemaError{}
	// ErrValidation is returned for invalid caller input.
	ErrValidation = errors.New("invalid request")
)

// schemaError is an ErrExternalFetch.
type schemaError struct{}

func (*schemaError) Error() string { return "malformed upstream schema" }

func (*schemaError) Is(target error) bool { return target == ErrExternalFetch }
