package search

import (
	"testing"

	"github.com/samber/lo"
)

func TestDownsampleKeepsEndpoints(t *testing.T) {
	path := []Position{{0, 0}, {0, 1}, {0, 2}, {0, 3}, {0, 4}, {0, 5}}

	out := Downsample(path, 2)

	if out[0] != path[0] {
		t.Errorf("expected first element preserved, got %v", out[0])
	}
	if out[len(out)-1] != path[len(path)-1] {
		t.Errorf("expected last element preserved, got %v", out[len(out)-1])
	}
}

func TestDownsampleSingleCellDuplicatesPoint(t *testing.T) {
	path := []Position{{0, 0}}
	out := Downsample(path, 4)

	if len(out) != 2 {
		t.Fatalf("expected the observed single-cell duplicate-point edge case (len 2), got %d: %v", len(out), out)
	}
	if out[0] != path[0] || out[1] != path[0] {
		t.Fatalf("expected both elements to equal the sole path cell, got %v", out)
	}
}

func TestDownsampleEmptyPath(t *testing.T) {
	if out := Downsample(nil, 2); out != nil {
		t.Fatalf("expected nil for empty path, got %v", out)
	}
}

func TestReverseInvertsOrder(t *testing.T) {
	in := []Waypoint{{Lon: 0, Lat: 0}, {Lon: 1, Lat: 1}, {Lon: 2, Lat: 2}}
	out := Reverse(in)

	if out[0] != in[2] || out[2] != in[0] {
		t.Fatalf("expected reversed order, got %v", out)
	}
}

func TestBuildRouteOrientationAndDeduplication(t *testing.T) {
	grid := openGrid(5, 5)
	longitude := []float64{0, 1, 2, 3, 4}
	latitude := []float64{0, 1, 2, 3, 4}

	start := Position{Row: 0, Col: 0}
	goal := Position{Row: 0, Col: 4}

	waypoints, ok := BuildRoute(grid, start, goal, 1, longitude, latitude)
	if !ok {
		t.Fatalf("expected a route on an open grid")
	}

	// destination-first orientation: index 0 is the goal's coordinate.
	wantDest := Waypoint{Lon: longitude[goal.Col], Lat: latitude[goal.Row]}
	if waypoints[0] != wantDest {
		t.Fatalf("expected destination at index 0, got %v want %v", waypoints[0], wantDest)
	}

	uniq := lo.UniqBy(waypoints, func(w Waypoint) [2]float64 { return [2]float64{w.Lon, w.Lat} })
	if len(uniq) == 0 {
		t.Fatalf("expected at least one distinct waypoint")
	}
}

func TestBuildRouteNoRoute(t *testing.T) {
	grid := openGrid(5, 5)
	for r := 0; r < 5; r++ {
		pos := Position{Row: r, Col: 2}
		delete(grid.Weights, pos)
		grid.Walls[pos] = true
	}

	_, ok := BuildRoute(grid, Position{Row: 0, Col: 0}, Position{Row: 0, Col: 4}, 1, []float64{0, 1, 2, 3, 4}, []float64{0, 1, 2, 3, 4})
	if ok {
		t.Fatalf("expected no route across a full wall barrier")
	}
}
