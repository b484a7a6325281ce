package main

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	app "github.com/rocketscienceinc/cubetactoe-backend/internal"
	"github.com/rocketscienceinc/cubetactoe-backend/internal/entity"
	"github.com/rocketscienceinc/cubetactoe-backend/internal/repository"
	"github.com/rocketscienceinc/cubetactoe-backend/internal/scheduler"
	"github.com/rocketscienceinc/cubetactoe-backend/internal/session"
	"github.com/rocketscienceinc/cubetactoe-backend/internal/usecase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCoord(t *testing.T) {
	for _, tc := range []struct {
		line string
		want entity.Coord
	}{
		{line: "1 2 0", want: entity.Coord{X: 1, Y: 2}},
		{line: "2,2,2", want: entity.Coord{X: 2, Y: 2, Z: 2}},
		{line: " 0 ,1, 2 ", want: entity.Coord{Y: 1, Z: 2}},
	} {
		got, err := parseCoord(tc.line)
		require.NoError(t, err, tc.line)
		assert.Equal(t, tc.want, got)
	}

	for _, line := range []string{"1 2", "a b c", "1 2 3 4"} {
		_, err := parseCoord(line)
		assert.Error(t, err, line)
	}
}

func TestHandleLine(t *testing.T) {
	ctx := context.Background()
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))

	sched := scheduler.New(logger)
	defer sched.Stop()

	manager := usecase.NewGameManager(logger, repository.NewMemoryGameRepository(), sched, app.NewBotFactory(logger), time.Hour)

	config := session.Config{BoardSize: 3, NumPlayers: 2}
	game, err := manager.StartGame(ctx, config)
	require.NoError(t, err)

	// When: a move is typed
	restarted, err := handleLine(ctx, manager, game.ID, config, "1 1 1")
	require.NoError(t, err)
	assert.Nil(t, restarted)

	mark, err := manager.GetCell(ctx, game.ID, entity.Coord{X: 1, Y: 1, Z: 1})
	require.NoError(t, err)
	assert.Equal(t, entity.Mark(0), mark)

	// And: the same cell is typed again
	_, err = handleLine(ctx, manager, game.ID, config, "1,1,1")
	require.Error(t, err)

	// And: the game is restarted
	restarted, err = handleLine(ctx, manager, game.ID, config, "restart")
	require.NoError(t, err)
	require.NotNil(t, restarted)
	assert.Equal(t, entity.PhasePlaying, restarted.Phase)
	assert.Len(t, restarted.Cells, 27)

	// And: quit ends the loop
	_, err = handleLine(ctx, manager, game.ID, config, "quit")
	require.ErrorIs(t, err, errQuit)
}
