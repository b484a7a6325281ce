package session

import (
	"fmt"

	"github.com/rocketscienceinc/cubetactoe-backend/internal/apperror"
	"github.com/rocketscienceinc/cubetactoe-backend/internal/entity"
)

// Config is what startGame accepts.
type Config struct {
	BoardSize       int  `json:"board_size"`
	NumPlayers      int  `json:"num_players"`
	OpponentEnabled bool `json:"opponent_enabled"`
}

func (that Config) Validate() error {
	switch {
	case that.BoardSize < entity.MinEdge:
		return fmt.Errorf("%w: board size must be at least %d, got %d", apperror.ErrInvalidConfig, entity.MinEdge, that.BoardSize)
	case that.NumPlayers < entity.MinPlayers || that.NumPlayers > entity.MaxPlayers:
		return fmt.Errorf("%w: players must be between %d and %d, got %d",
			apperror.ErrInvalidConfig, entity.MinPlayers, entity.MaxPlayers, that.NumPlayers)
	case that.OpponentEnabled && that.NumPlayers != 2:
		return fmt.Errorf("%w: opponent mode requires exactly 2 players, got %d", apperror.ErrInvalidConfig, that.NumPlayers)
	}

	return nil
}
