// Package render draws a game snapshot as text, one z-layer per block, with
// each seat in its table colour.
package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/muesli/termenv"
	"github.com/rocketscienceinc/cubetactoe-backend/internal/entity"
)

type Terminal struct {
	out    io.Writer
	styler *termenv.Output
}

// NewTerminal detects the colour profile of out; plain writers get no colours.
func NewTerminal(out io.Writer) *Terminal {
	return &Terminal{
		out:    out,
		styler: termenv.NewOutput(out),
	}
}

// NewPlain never emits escape codes.
func NewPlain(out io.Writer) *Terminal {
	return &Terminal{
		out:    out,
		styler: termenv.NewOutput(out, termenv.WithProfile(termenv.Ascii)),
	}
}

// Board prints every z-layer of the snapshot, rows by y and columns by x.
// Cells on the winning line are bold.
func (that *Terminal) Board(game *entity.Game) error {
	edge := game.BoardSize
	if edge == 0 || len(game.Cells) != edge*edge*edge {
		_, err := fmt.Fprintln(that.out, "no board")
		return err
	}

	onLine := make(map[entity.Coord]bool)
	if game.Outcome != nil {
		for _, coord := range game.Outcome.Line {
			onLine[coord] = true
		}
	}

	var b strings.Builder
	for z := range edge {
		fmt.Fprintf(&b, "z=%d\n", z)
		for y := range edge {
			for x := range edge {
				coord := entity.Coord{X: x, Y: y, Z: z}
				b.WriteString(that.cell(game.Cells[(x*edge+y)*edge+z], onLine[coord]))
				b.WriteByte(' ')
			}
			b.WriteByte('\n')
		}
		b.WriteByte('\n')
	}

	_, err := io.WriteString(that.out, b.String())
	return err
}

// Status prints a one-line summary of whose turn it is or how the game ended.
func (that *Terminal) Status(game *entity.Game) error {
	var line string

	switch {
	case game.Phase == entity.PhaseStart:
		line = "waiting for a new game"
	case game.Outcome != nil && game.Outcome.Draw:
		line = "It's a Draw!"
	case game.Outcome != nil && game.Outcome.Aborted:
		line = "game aborted"
	case game.Outcome != nil:
		line = fmt.Sprintf("Player %s Wins!", that.seat(game.Outcome.Winner, true))
	case game.Phase == entity.PhaseOpponentThinking:
		line = fmt.Sprintf("%s is thinking...", that.seat(game.CurrentPlayer, false))
	default:
		line = fmt.Sprintf("%s to move", that.seat(game.CurrentPlayer, false))
	}

	_, err := fmt.Fprintln(that.out, line)
	return err
}

func (that *Terminal) cell(mark entity.Mark, highlight bool) string {
	if mark == entity.Empty {
		return that.styler.String(" .").Foreground(that.styler.Color("8")).String()
	}

	return that.seat(mark, highlight)
}

func (that *Terminal) seat(mark entity.Mark, bold bool) string {
	seat := entity.SeatOf(mark)

	style := that.styler.String(seat.Symbol).Foreground(that.styler.Color(seat.Color))
	if bold {
		style = style.Bold()
	}

	return style.String()
}
