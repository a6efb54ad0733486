package search

import (
	"container/heap"
	"math"
)

// heuristic is the Manhattan distance between two grid cells, used as the
// admissible A* heuristic.
func heuristic(a, b Position) float64 {
	return math.Abs(float64(a.Row-b.Row)) + math.Abs(float64(a.Col-b.Col))
}

// queueItem is a single entry in the priority queue, ordered by f = g + h.
type queueItem struct {
	pos      Position
	priority float64
}

// priorityQueue is a binary min-heap over queueItem.priority.
type priorityQueue []queueItem

func (q priorityQueue) Len() int            { return len(q) }
func (q priorityQueue) Less(i, j int) bool  { return q[i].priority < q[j].priority }
func (q priorityQueue) Swap(i, j int)       { q[i], q[j] = q[j], q[i] }
func (q *priorityQueue) Push(x interface{}) { *q = append(*q, x.(queueItem)) }
func (q *priorityQueue) Pop() interface{} {
	old := *q
	n := len(old)
	item := old[n-1]
	*q = old[:n-1]
	return item
}

// Astar runs best-first search over a NavigationGrid.
type Astar struct {
	Grid *NavigationGrid
}

// NewAstar constructs an Astar search bound to grid.
func NewAstar(grid *NavigationGrid) *Astar {
	return &Astar{Grid: grid}
}

// Search performs A* from start to goal, returning the predecessor map and
// the accumulated cost map. A node is relaxed when it is unseen, or when a
// cheaper path to it is found. Search terminates as soon as goal is popped
// off the frontier.
func (a *Astar) Search(start, goal Position) (cameFrom map[Position]Position, costSoFar map[Position]float64) {
	frontier := &priorityQueue{}
	heap.Init(frontier)
	heap.Push(frontier, queueItem{pos: start, priority: 0})

	cameFrom = make(map[Position]Position)
	costSoFar = make(map[Position]float64)
	costSoFar[start] = 0

	for frontier.Len() > 0 {
		current := heap.Pop(frontier).(queueItem).pos

		if current == goal {
			break
		}

		for _, next := range a.Grid.Neighbors(current) {
			newCost := costSoFar[current] + a.Grid.Cost(current, next)
			existing, seen := costSoFar[next]
			if !seen || newCost < existing {
				costSoFar[next] = newCost
				priority := newCost + heuristic(next, goal)
				heap.Push(frontier, queueItem{pos: next, priority: priority})
				cameFrom[next] = current
			}
		}
	}

	return cameFrom, costSoFar
}

// ReconstructPath walks cameFrom backward from goal to start and returns the
// cells in forward order, start exclusive, goal inclusive. It returns
// ok=false when goal was never reached (no possible route).
func ReconstructPath(cameFrom map[Position]Position, start, goal Position) (path []Position, ok bool) {
	if start == goal {
		return []Position{goal}, true
	}

	if _, reached := cameFrom[goal]; !reached {
		return nil, false
	}

	current := goal
	for current != start {
		path = append(path, current)

		prev, exists := cameFrom[current]
		if !exists {
			return nil, false
		}
		current = prev
	}

	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}

	return path, true
}
