package service

import (
	"fmt"
	"log/slog"
	"math/rand"

	"github.com/rocketscienceinc/cubetactoe-backend/internal/apperror"
	"github.com/rocketscienceinc/cubetactoe-backend/internal/entity"
	"github.com/rocketscienceinc/cubetactoe-backend/internal/tictactoe"
)

// Tier names the rule that picked the opponent's move.
type Tier string

const (
	TierWin    Tier = "win"
	TierBlock  Tier = "block"
	TierCenter Tier = "center"
	TierRandom Tier = "random"
)

// Move is the opponent's choice together with the rule that produced it.
type Move struct {
	Coord entity.Coord
	Tier  Tier
}

type BotService interface {
	ChooseMove(board *entity.Board) (Move, error)
}

type botService struct {
	logger *slog.Logger
	rnd    *rand.Rand
}

// NewBotService builds the heuristic opponent. rnd is only used for the random
// tier and is not safe for concurrent use.
func NewBotService(logger *slog.Logger, rnd *rand.Rand) BotService {
	return &botService{
		logger: logger.With("component", "bot"),
		rnd:    rnd,
	}
}

// ChooseMove applies, in order: win now, block the human, take the centre of a
// 3-cube, random empty cell. Ties go to the first cell in scan order.
func (that *botService) ChooseMove(board *entity.Board) (Move, error) {
	availableCells := board.EmptyCells()
	if len(availableCells) == 0 {
		return Move{}, apperror.ErrNoLegalMove
	}

	move := that.pick(board, availableCells)

	that.logger.Debug("bot chose move", "move", move.String())

	return move, nil
}

func (that *botService) pick(board *entity.Board, availableCells []entity.Coord) Move {
	for _, cell := range availableCells {
		if tictactoe.WouldWin(board, entity.OpponentSeat, cell) {
			return Move{Coord: cell, Tier: TierWin}
		}
	}

	for _, cell := range availableCells {
		if tictactoe.WouldWin(board, entity.HumanSeat, cell) {
			return Move{Coord: cell, Tier: TierBlock}
		}
	}

	if board.Edge() == entity.MinEdge {
		center := entity.Coord{X: 1, Y: 1, Z: 1}
		if board.MarkAt(center) == entity.Empty {
			return Move{Coord: center, Tier: TierCenter}
		}
	}

	return Move{Coord: availableCells[that.rnd.Intn(len(availableCells))], Tier: TierRandom} //nolint: gosec // gameplay randomness
}

// String is used in logs.
func (that Move) String() string {
	return fmt.Sprintf("%s via %s", that.Coord, that.Tier)
}
