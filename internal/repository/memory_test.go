package repository

import (
	"context"
	"testing"

	"github.com/rocketscienceinc/cubetactoe-backend/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryGameRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("Stores copies", func(t *testing.T) {
		gameRepo := NewMemoryGameRepository()

		// Given: a stored snapshot
		game := newSnapshot("abc")
		require.NoError(t, gameRepo.CreateOrUpdate(ctx, game))

		// When: the caller mutates its own copy
		game.Cells[1] = 1
		game.Phase = entity.PhaseGameOver

		// Then: the stored snapshot is unaffected
		stored, err := gameRepo.GetByID(ctx, "abc")
		require.NoError(t, err)
		assert.Equal(t, entity.PhasePlaying, stored.Phase)
		assert.Equal(t, entity.Empty, stored.Cells[1])

		// And: mutating the returned copy does not leak back either
		stored.Cells[2] = 0
		again, err := gameRepo.GetByID(ctx, "abc")
		require.NoError(t, err)
		assert.Equal(t, entity.Empty, again.Cells[2])
	})

	t.Run("Missing games", func(t *testing.T) {
		gameRepo := NewMemoryGameRepository()

		_, err := gameRepo.GetByID(ctx, "nope")
		require.ErrorIs(t, err, ErrGameNotFound)
		require.ErrorIs(t, gameRepo.DeleteByID(ctx, "nope"), ErrGameNotFound)
	})

	t.Run("Delete removes the game", func(t *testing.T) {
		gameRepo := NewMemoryGameRepository()
		require.NoError(t, gameRepo.CreateOrUpdate(ctx, newSnapshot("abc")))

		require.NoError(t, gameRepo.DeleteByID(ctx, "abc"))

		_, err := gameRepo.GetByID(ctx, "abc")
		require.ErrorIs(t, err, ErrGameNotFound)
	})
}
