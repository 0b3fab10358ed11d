package analyzer

import (
	"errors"
	"fmt"
	"testing"
)

func TestMalformedSchemaIsExternalFetch(t *testing.T) {
	err := fmt.Errorf("chart SPY: %w", ErrMalformedSchema)
	if !errors.Is(err, ErrMalformedSchema) {
		t.Errorf("errors.Is(%v, ErrMalformedSchema) = false", err)
	}
	if !errors.Is(err, ErrExternalFetch) {
		t.Errorf("errors.Is(%v, ErrExternalFetch) = false", err)
	}
	if errors.Is(ErrExternalFetch, ErrMalformedSchema) {
		t.Errorf("errors.Is(ErrExternalFetch, ErrMalformedSchema) = true")
	}
}
