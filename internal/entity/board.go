package entity

import (
	"errors"
	"fmt"
)

const MinEdge = 3

var (
	ErrInvalidSize  = errors.New("invalid board size")
	ErrOutOfRange   = errors.New("coordinate out of range")
	ErrCellOccupied = errors.New("cell is already occupied")
	ErrInvalidMark  = errors.New("invalid mark")
)

// Board is a cube of edge*edge*edge cells. Cells are write-once: the only way
// back to Empty is a new board or the scoped revert in WithHypothetical.
type Board struct {
	edge   int
	filled int
	cells  []Mark
}

func NewBoard(edge int) (*Board, error) {
	if edge < MinEdge {
		return nil, fmt.Errorf("%w: edge %d", ErrInvalidSize, edge)
	}

	cells := make([]Mark, edge*edge*edge)
	for i := range cells {
		cells[i] = Empty
	}

	return &Board{edge: edge, cells: cells}, nil
}

// BoardFromCells rebuilds a board from a flat x-major cell slice, as returned by Cells.
func BoardFromCells(edge int, cells []Mark) (*Board, error) {
	board, err := NewBoard(edge)
	if err != nil {
		return nil, err
	}

	if len(cells) != len(board.cells) {
		return nil, fmt.Errorf("%w: want %d cells, got %d", ErrInvalidSize, len(board.cells), len(cells))
	}

	for i, mark := range cells {
		if mark == Empty {
			continue
		}

		if mark < 0 || int(mark) >= MaxPlayers {
			return nil, fmt.Errorf("%w: %d at cell %d", ErrInvalidMark, mark, i)
		}

		board.cells[i] = mark
		board.filled++
	}

	return board, nil
}

func (that *Board) Edge() int {
	return that.edge
}

func (that *Board) Contains(coord Coord) bool {
	return coord.X >= 0 && coord.X < that.edge &&
		coord.Y >= 0 && coord.Y < that.edge &&
		coord.Z >= 0 && coord.Z < that.edge
}

func (that *Board) Get(coord Coord) (Mark, error) {
	if !that.Contains(coord) {
		return Empty, fmt.Errorf("%w: %s on edge %d", ErrOutOfRange, coord, that.edge)
	}

	return that.cells[that.index(coord)], nil
}

// MarkAt is Get without the range error; out-of-range coords read as Empty.
func (that *Board) MarkAt(coord Coord) Mark {
	if !that.Contains(coord) {
		return Empty
	}

	return that.cells[that.index(coord)]
}

func (that *Board) Place(coord Coord, mark Mark) error {
	if !that.Contains(coord) {
		return fmt.Errorf("%w: %s on edge %d", ErrOutOfRange, coord, that.edge)
	}

	if mark < 0 || int(mark) >= MaxPlayers {
		return fmt.Errorf("%w: %d", ErrInvalidMark, mark)
	}

	idx := that.index(coord)
	if that.cells[idx] != Empty {
		return fmt.Errorf("%w: %s", ErrCellOccupied, coord)
	}

	that.cells[idx] = mark
	that.filled++

	return nil
}

func (that *Board) IsFull() bool {
	return that.filled == len(that.cells)
}

// EmptyCells lists free cells in scan order: ascending x, then y, then z.
func (that *Board) EmptyCells() []Coord {
	free := make([]Coord, 0, len(that.cells)-that.filled)
	for x := range that.edge {
		for y := range that.edge {
			for z := range that.edge {
				coord := Coord{X: x, Y: y, Z: z}
				if that.cells[that.index(coord)] == Empty {
					free = append(free, coord)
				}
			}
		}
	}

	return free
}

// Cells returns a copy of the flat cell slice (index x*edge*edge + y*edge + z).
func (that *Board) Cells() []Mark {
	out := make([]Mark, len(that.cells))
	copy(out, that.cells)

	return out
}

// WithHypothetical places mark at an empty coord, runs eval, and restores the
// cell before returning, even if eval panics.
func (that *Board) WithHypothetical(coord Coord, mark Mark, eval func(*Board) bool) (bool, error) {
	if err := that.Place(coord, mark); err != nil {
		return false, err
	}
	defer that.revert(coord)

	return eval(that), nil
}

func (that *Board) revert(coord Coord) {
	that.cells[that.index(coord)] = Empty
	that.filled--
}

func (that *Board) index(coord Coord) int {
	return (coord.X*that.edge+coord.Y)*that.edge + coord.Z
}
