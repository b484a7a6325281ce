package tictactoe

import "github.com/rocketscienceinc/cubetactoe-backend/internal/entity"

// HasWin returns the first line, in catalog order, whose cells all hold mark.
func HasWin(board *entity.Board, mark entity.Mark) (entity.Line, bool) {
	if mark == entity.Empty {
		return nil, false
	}

	for _, line := range Lines(board.Edge()) {
		if ownsLine(board, mark, line) {
			return line, true
		}
	}

	return nil, false
}

// WouldWin reports whether placing mark at coord completes a line. Occupied or
// out-of-range coords never win. The board is left as it was.
func WouldWin(board *entity.Board, mark entity.Mark, coord entity.Coord) bool {
	won, err := board.WithHypothetical(coord, mark, func(b *entity.Board) bool {
		_, ok := HasWin(b, mark)
		return ok
	})
	if err != nil {
		return false
	}

	return won
}

// IsDraw only reports fullness; callers check for a win first.
func IsDraw(board *entity.Board) bool {
	return board.IsFull()
}

func ownsLine(board *entity.Board, mark entity.Mark, line entity.Line) bool {
	for _, coord := range line {
		if board.MarkAt(coord) != mark {
			return false
		}
	}

	return true
}
