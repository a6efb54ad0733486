package voyager

import (
	"errors"
	"testing"
)

func TestVesselErrorErrorMirrorsWrappedMessage(t *testing.T) {
	ve := &VesselError{Craft: 7, DeparturePoint: [2]float64{1, 2}, Err: ErrStartIsWall}

	if ve.Error() != ErrStartIsWall.Error() {
		t.Fatalf("expected Error() to mirror the wrapped error, got %q", ve.Error())
	}
}

func TestVesselErrorUnwrapSupportsErrorsIs(t *testing.T) {
	ve := &VesselError{Craft: 1, Err: ErrNoRoute}

	if !errors.Is(ve, ErrNoRoute) {
		t.Fatalf("expected errors.Is to see through VesselError to ErrNoRoute")
	}
	if errors.Is(ve, ErrStartIsWall) {
		t.Fatalf("expected errors.Is to reject an unrelated sentinel")
	}
}
