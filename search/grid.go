// Package search builds a weighted navigation grid from a land/sea mask and
// runs A* over it to produce a coarse cell path between two grid cells.
package search

import "math"

// Position indexes a cell in the navigation grid. Row is the latitude-axis
// index, Col is the longitude-axis index, matching the row-major layout of
// the forcing raster the grid is derived from.
type Position struct {
	Row int
	Col int
}

// NavigationGrid is a width x height raster of cost values derived from an
// instantaneous land mask. Walls (NaN cells) are impassable; every other
// cell carries a finite, positive cost.
type NavigationGrid struct {
	Width, Height int
	Weights       map[Position]float64
	Walls         map[Position]bool
}

// InBounds reports whether p lies within the grid's extent.
func (g *NavigationGrid) InBounds(p Position) bool {
	return p.Row >= 0 && p.Row < g.Height && p.Col >= 0 && p.Col < g.Width
}

// Passable reports whether p is not a wall.
func (g *NavigationGrid) Passable(p Position) bool {
	return !g.Walls[p]
}

// Cost returns the stored weight of cell `to`, defaulting to 1 for any
// non-wall cell not explicitly weighted.
func (g *NavigationGrid) Cost(from, to Position) float64 {
	if w, ok := g.Weights[to]; ok {
		return w
	}
	return 1
}

// Neighbors enumerates the eight-connected neighborhood of p, filtered to
// in-bounds, passable cells. When (p.Row + p.Col) is even, the enumeration
// order is reversed — an observed tie-breaking quirk of the source
// implementation that is preserved here for reproducibility of path
// reconstruction under ties.
func (g *NavigationGrid) Neighbors(p Position) []Position {
	candidates := [8]Position{
		{p.Row + 1, p.Col},
		{p.Row - 1, p.Col},
		{p.Row, p.Col + 1},
		{p.Row, p.Col - 1},
		{p.Row + 1, p.Col + 1},
		{p.Row - 1, p.Col - 1},
		{p.Row + 1, p.Col - 1},
		{p.Row - 1, p.Col + 1},
	}

	if (p.Row+p.Col)%2 == 0 {
		for i, j := 0, len(candidates)-1; i < j; i, j = i+1, j-1 {
			candidates[i], candidates[j] = candidates[j], candidates[i]
		}
	}

	out := make([]Position, 0, 8)
	for _, c := range candidates {
		if g.InBounds(c) && g.Passable(c) {
			out = append(out, c)
		}
	}

	return out
}

// NewNavigationGrid builds a NavigationGrid from an instantaneous raster
// slice (NaN marking land). weights/iterations are parallel lists of
// (weight, dilation-iteration-count) pairs, applied in order — later pairs
// overwrite earlier ones in overlapping cells, matching the source's
// observed behaviour. After all bands are applied, cells where the original
// mask is land are reassigned to walls.
func NewNavigationGrid(slice [][]float64, weights []float64, iterations []int) *NavigationGrid {
	height := len(slice)
	width := 0
	if height > 0 {
		width = len(slice[0])
	}

	isLand := make([][]bool, height)
	for r := range slice {
		isLand[r] = make([]bool, width)
		for c, v := range slice[r] {
			isLand[r][c] = math.IsNaN(v)
		}
	}

	weighted := make([][]float64, height)
	for r := range weighted {
		weighted[r] = make([]float64, width)
		for c := range weighted[r] {
			weighted[r][c] = 1
		}
	}

	n := len(weights)
	if len(iterations) < n {
		n = len(iterations)
	}

	for k := 0; k < n; k++ {
		band := dilate(isLand, iterations[k])
		for r := 0; r < height; r++ {
			for c := 0; c < width; c++ {
				if band[r][c] {
					weighted[r][c] = weights[k]
				}
			}
		}
	}

	grid := &NavigationGrid{
		Width:   width,
		Height:  height,
		Weights: make(map[Position]float64, width*height),
		Walls:   make(map[Position]bool),
	}

	for r := 0; r < height; r++ {
		for c := 0; c < width; c++ {
			pos := Position{Row: r, Col: c}
			if isLand[r][c] {
				grid.Walls[pos] = true
			} else {
				grid.Weights[pos] = weighted[r][c]
			}
		}
	}

	return grid
}

// dilate performs `iterations` rounds of binary dilation with a 3x3,
// eight-connected structuring element over a boolean raster.
func dilate(mask [][]bool, iterations int) [][]bool {
	height := len(mask)
	width := 0
	if height > 0 {
		width = len(mask[0])
	}

	cur := mask
	for it := 0; it < iterations; it++ {
		next := make([][]bool, height)
		for r := 0; r < height; r++ {
			next[r] = make([]bool, width)
			for c := 0; c < width; c++ {
				if cur[r][c] {
					next[r][c] = true
					continue
				}

				hit := false
				for dr := -1; dr <= 1 && !hit; dr++ {
					for dc := -1; dc <= 1 && !hit; dc++ {
						if dr == 0 && dc == 0 {
							continue
						}
						rr, cc := r+dr, c+dc
						if rr >= 0 && rr < height && cc >= 0 && cc < width && cur[rr][cc] {
							hit = true
						}
					}
				}
				next[r][c] = hit
			}
		}
		cur = next
	}

	return cur
}
