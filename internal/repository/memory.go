package repository

import (
	"context"
	"sync"

	"github.com/rocketscienceinc/cubetactoe-backend/internal/entity"
)

type memoryGame struct {
	mu    sync.Mutex
	games map[string]*entity.Game
}

// NewMemoryGameRepository keeps snapshots in process memory, for hosts that
// run without Redis.
func NewMemoryGameRepository() GameRepository {
	return &memoryGame{
		games: make(map[string]*entity.Game),
	}
}

func (that *memoryGame) CreateOrUpdate(_ context.Context, game *entity.Game) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.games[game.ID] = cloneGame(game)

	return nil
}

func (that *memoryGame) GetByID(_ context.Context, id string) (*entity.Game, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	game, ok := that.games[id]
	if !ok {
		return nil, ErrGameNotFound
	}

	return cloneGame(game), nil
}

func (that *memoryGame) DeleteByID(_ context.Context, id string) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	if _, ok := that.games[id]; !ok {
		return ErrGameNotFound
	}

	delete(that.games, id)

	return nil
}

func cloneGame(game *entity.Game) *entity.Game {
	out := *game
	out.Cells = append([]entity.Mark(nil), game.Cells...)

	if game.Outcome != nil {
		outcome := *game.Outcome
		outcome.Line = append(entity.Line(nil), game.Outcome.Line...)
		out.Outcome = &outcome
	}

	return &out
}
