package voyager

import "testing"

func TestRoutePopOrderDestinationFirst(t *testing.T) {
	// Stored destination-first: waypoint[0] is the final destination,
	// waypoint[len-1] is the next target to reach. Pop yields the latter.
	dest := Point{Lon: 0, Lat: 0}
	first := Point{Lon: 1, Lat: 1}
	r := NewRoute([]Point{dest, first})

	if r.Empty() {
		t.Fatalf("expected non-empty route at creation")
	}

	got := r.Pop()
	if got != first {
		t.Fatalf("expected first waypoint popped to be %v, got %v", first, got)
	}
	if r.Empty() {
		t.Fatalf("expected route to still hold the destination")
	}

	got = r.Pop()
	if got != dest {
		t.Fatalf("expected final pop to be the destination %v, got %v", dest, got)
	}
	if !r.Empty() {
		t.Fatalf("expected route to be empty after popping all waypoints")
	}
}

func TestRouteTakenDoesNotMutateUnderlyingState(t *testing.T) {
	r := NewRoute([]Point{{Lon: 0, Lat: 0}, {Lon: 1, Lat: 1}})
	taken := r.Taken()
	taken[0] = Point{Lon: 99, Lat: 99}

	if r.Pop() == (Point{Lon: 99, Lat: 99}) {
		t.Fatalf("Taken() should return a copy, not a view onto internal state")
	}
}
