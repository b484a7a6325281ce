package entity

import "fmt"

// Mark identifies the seat that owns a cell. Empty marks a free cell.
type Mark int8

const Empty Mark = -1

// Coord addresses one cell of the cube.
type Coord struct {
	X int `json:"x"`
	Y int `json:"y"`
	Z int `json:"z"`
}

func (that Coord) String() string {
	return fmt.Sprintf("(%d,%d,%d)", that.X, that.Y, that.Z)
}

// Line is one winning sequence of cells, ordered along its traversal parameter.
type Line []Coord
