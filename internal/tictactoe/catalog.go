package tictactoe

import (
	"sync"

	"github.com/rocketscienceinc/cubetactoe-backend/internal/entity"
)

var (
	catalogMu sync.Mutex
	catalogs  = make(map[int][]entity.Line)
)

// Lines returns every winning line of a cube with the given edge, generated on
// first use and cached. The slice is shared and must not be modified.
//
// Order: axis lines, then planar diagonals, then the four space diagonals.
func Lines(edge int) []entity.Line {
	if edge < entity.MinEdge {
		return nil
	}

	catalogMu.Lock()
	defer catalogMu.Unlock()

	lines, ok := catalogs[edge]
	if !ok {
		lines = generateLines(edge)
		catalogs[edge] = lines
	}

	return lines
}

// LineCount is 3B² + 6B + 4.
func LineCount(edge int) int {
	return 3*edge*edge + 6*edge + 4
}

type cellFunc func(k int) entity.Coord

func generateLines(edge int) []entity.Line {
	last := edge - 1
	lines := make([]entity.Line, 0, LineCount(edge))

	add := func(at cellFunc) {
		line := make(entity.Line, edge)
		for k := range edge {
			line[k] = at(k)
		}
		lines = append(lines, line)
	}

	// axis lines
	for i := range edge {
		for j := range edge {
			add(func(k int) entity.Coord { return entity.Coord{X: k, Y: i, Z: j} })
			add(func(k int) entity.Coord { return entity.Coord{X: i, Y: k, Z: j} })
			add(func(k int) entity.Coord { return entity.Coord{X: i, Y: j, Z: k} })
		}
	}

	// planar diagonals, two per layer and axis
	for i := range edge {
		add(func(k int) entity.Coord { return entity.Coord{X: k, Y: k, Z: i} })
		add(func(k int) entity.Coord { return entity.Coord{X: k, Y: last - k, Z: i} })
		add(func(k int) entity.Coord { return entity.Coord{X: k, Y: i, Z: k} })
		add(func(k int) entity.Coord { return entity.Coord{X: k, Y: i, Z: last - k} })
		add(func(k int) entity.Coord { return entity.Coord{X: i, Y: k, Z: k} })
		add(func(k int) entity.Coord { return entity.Coord{X: i, Y: k, Z: last - k} })
	}

	// space diagonals
	add(func(k int) entity.Coord { return entity.Coord{X: k, Y: k, Z: k} })
	add(func(k int) entity.Coord { return entity.Coord{X: k, Y: k, Z: last - k} })
	add(func(k int) entity.Coord { return entity.Coord{X: k, Y: last - k, Z: k} })
	add(func(k int) entity.Coord { return entity.Coord{X: last - k, Y: k, Z: k} })

	return lines
}
