package service

import (
	"io"
	"log/slog"
	"math/rand"
	"testing"

	"github.com/rocketscienceinc/cubetactoe-backend/internal/apperror"
	"github.com/rocketscienceinc/cubetactoe-backend/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBot(seed int64) BotService {
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	return NewBotService(logger, rand.New(rand.NewSource(seed))) //nolint: gosec // deterministic tests
}

func boardWith(t *testing.T, edge int, marks map[entity.Coord]entity.Mark) *entity.Board {
	t.Helper()

	board, err := entity.NewBoard(edge)
	require.NoError(t, err)

	for coord, mark := range marks {
		require.NoError(t, board.Place(coord, mark))
	}

	return board
}

func TestBotService_ChooseMove(t *testing.T) {
	t.Run("Takes the centre of an open 3-cube", func(t *testing.T) {
		// Given: the human opened in a corner
		board := boardWith(t, 3, map[entity.Coord]entity.Mark{
			{X: 0, Y: 0, Z: 0}: entity.HumanSeat,
		})

		// When: the bot moves
		move, err := newTestBot(1).ChooseMove(board)

		// Then: it takes the centre
		require.NoError(t, err)
		assert.Equal(t, entity.Coord{X: 1, Y: 1, Z: 1}, move.Coord)
		assert.Equal(t, TierCenter, move.Tier)
	})

	t.Run("Blocks the human", func(t *testing.T) {
		// Given: the human threatens the z-line through (0,0,*)
		board := boardWith(t, 3, map[entity.Coord]entity.Mark{
			{X: 0, Y: 0, Z: 0}: entity.HumanSeat,
			{X: 1, Y: 1, Z: 1}: entity.OpponentSeat,
			{X: 0, Y: 0, Z: 1}: entity.HumanSeat,
		})

		// When: the bot moves
		move, err := newTestBot(1).ChooseMove(board)

		// Then: it blocks the open end
		require.NoError(t, err)
		assert.Equal(t, entity.Coord{X: 0, Y: 0, Z: 2}, move.Coord)
		assert.Equal(t, TierBlock, move.Tier)
	})

	t.Run("Prefers winning over blocking", func(t *testing.T) {
		// Given: both sides threaten a line
		board := boardWith(t, 3, map[entity.Coord]entity.Mark{
			{X: 2, Y: 2, Z: 0}: entity.HumanSeat,
			{X: 2, Y: 2, Z: 1}: entity.HumanSeat,
			{X: 0, Y: 1, Z: 1}: entity.OpponentSeat,
			{X: 1, Y: 1, Z: 1}: entity.OpponentSeat,
		})

		// When: the bot moves
		move, err := newTestBot(1).ChooseMove(board)

		// Then: it completes its own line
		require.NoError(t, err)
		assert.Equal(t, entity.Coord{X: 2, Y: 1, Z: 1}, move.Coord)
		assert.Equal(t, TierWin, move.Tier)
	})

	t.Run("Picks an empty cell at random on larger cubes", func(t *testing.T) {
		// Given: a 4-cube with a few scattered marks and no threats
		marks := map[entity.Coord]entity.Mark{
			{X: 0, Y: 0, Z: 0}: entity.HumanSeat,
			{X: 3, Y: 1, Z: 2}: entity.OpponentSeat,
			{X: 1, Y: 2, Z: 3}: entity.HumanSeat,
		}

		for seed := range int64(20) {
			board := boardWith(t, 4, marks)

			// When: the bot moves
			move, err := newTestBot(seed).ChooseMove(board)

			// Then: the cell is empty and the tier is random
			require.NoError(t, err)
			assert.Equal(t, TierRandom, move.Tier)
			assert.Equal(t, entity.Empty, board.MarkAt(move.Coord))
			assert.Len(t, board.EmptyCells(), 61)
		}
	})

	t.Run("Full board has no legal move", func(t *testing.T) {
		// Given: a full board
		board := boardWith(t, 3, nil)
		for i, coord := range board.EmptyCells() {
			require.NoError(t, board.Place(coord, entity.Mark(i%3)))
		}

		// When: the bot is asked to move
		_, err := newTestBot(1).ChooseMove(board)

		// Then: ErrNoLegalMove is returned
		require.ErrorIs(t, err, apperror.ErrNoLegalMove)
	})
}

func TestMove_String(t *testing.T) {
	move := Move{Coord: entity.Coord{X: 1, Y: 2, Z: 0}, Tier: TierBlock}
	assert.Equal(t, "(1,2,0) via block", move.String())
}
