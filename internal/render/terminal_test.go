package render

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rocketscienceinc/cubetactoe-backend/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func emptyCells(edge int) []entity.Mark {
	cells := make([]entity.Mark, edge*edge*edge)
	for i := range cells {
		cells[i] = entity.Empty
	}

	return cells
}

func TestTerminal_Board(t *testing.T) {
	t.Run("Prints one block per layer", func(t *testing.T) {
		// Given: a 3-board with marks on two layers
		cells := emptyCells(3)
		cells[(2*3+0)*3+0] = 0 // (2,0,0)
		cells[(0*3+1)*3+2] = 1 // (0,1,2)

		var out bytes.Buffer
		term := NewPlain(&out)

		// When: the board is printed
		require.NoError(t, term.Board(&entity.Game{BoardSize: 3, Cells: cells}))

		// Then: every layer is labelled and marks sit in their row and column
		text := out.String()
		assert.Contains(t, text, "z=0\n .  . P1 \n")
		assert.Contains(t, text, "z=1\n")
		assert.Contains(t, text, "z=2\n .  .  . \nP2  .  . \n")
		assert.Equal(t, 3*(1+3+1), strings.Count(text, "\n"))
	})

	t.Run("Missing board", func(t *testing.T) {
		var out bytes.Buffer

		require.NoError(t, NewPlain(&out).Board(&entity.Game{Phase: entity.PhaseStart}))

		assert.Equal(t, "no board\n", out.String())
	})
}

func TestTerminal_Status(t *testing.T) {
	line := entity.Line{{X: 0, Y: 0, Z: 0}, {X: 1, Y: 1, Z: 1}, {X: 2, Y: 2, Z: 2}}

	for _, tc := range []struct {
		name string
		game *entity.Game
		want string
	}{
		{
			name: "start",
			game: &entity.Game{Phase: entity.PhaseStart},
			want: "waiting for a new game\n",
		},
		{
			name: "turn",
			game: &entity.Game{Phase: entity.PhasePlaying, CurrentPlayer: 2},
			want: "P3 to move\n",
		},
		{
			name: "thinking",
			game: &entity.Game{Phase: entity.PhaseOpponentThinking, CurrentPlayer: 1},
			want: "P2 is thinking...\n",
		},
		{
			name: "won",
			game: &entity.Game{Phase: entity.PhaseGameOver, Outcome: &entity.Outcome{Winner: 0, Line: line}},
			want: "Player P1 Wins!\n",
		},
		{
			name: "draw",
			game: &entity.Game{Phase: entity.PhaseGameOver, Outcome: &entity.Outcome{Winner: entity.Empty, Draw: true}},
			want: "It's a Draw!\n",
		},
		{
			name: "aborted",
			game: &entity.Game{Phase: entity.PhaseGameOver, Outcome: &entity.Outcome{Winner: entity.Empty, Aborted: true}},
			want: "game aborted\n",
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			var out bytes.Buffer

			require.NoError(t, NewPlain(&out).Status(tc.game))

			assert.Equal(t, tc.want, out.String())
		})
	}
}
