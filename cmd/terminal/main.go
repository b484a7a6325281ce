// Command terminal plays a local game on stdin/stdout. Moves are typed as
// "x y z"; "restart" starts over with the same settings and "quit" exits.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"sync"
	"syscall"
	"time"

	app "github.com/rocketscienceinc/cubetactoe-backend/internal"
	"github.com/rocketscienceinc/cubetactoe-backend/internal/entity"
	"github.com/rocketscienceinc/cubetactoe-backend/internal/logger"
	"github.com/rocketscienceinc/cubetactoe-backend/internal/render"
	"github.com/rocketscienceinc/cubetactoe-backend/internal/repository"
	"github.com/rocketscienceinc/cubetactoe-backend/internal/scheduler"
	"github.com/rocketscienceinc/cubetactoe-backend/internal/session"
	"github.com/rocketscienceinc/cubetactoe-backend/internal/usecase"
)

var errQuit = errors.New("quit")

func main() {
	size := flag.Int("size", 3, "board edge length")
	players := flag.Int("players", 2, "number of players (2-4)")
	bot := flag.Bool("bot", true, "let seat P2 be played by the computer (2 players only)")
	delay := flag.Duration("delay", 500*time.Millisecond, "computer think time")
	logLevel := flag.String("log-level", "error", "log level written to stderr")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	config := session.Config{BoardSize: *size, NumPlayers: *players, OpponentEnabled: *bot}
	if err := run(ctx, os.Stdin, os.Stdout, config, *delay, *logLevel); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, in io.Reader, out io.Writer, config session.Config, delay time.Duration, logLevel string) error {
	log := logger.New(os.Stderr, logLevel)

	taskScheduler := scheduler.New(log)
	defer taskScheduler.Stop()

	manager := usecase.NewGameManager(log, repository.NewMemoryGameRepository(), taskScheduler, app.NewBotFactory(log), delay)

	game, err := manager.StartGame(ctx, config)
	if err != nil {
		return fmt.Errorf("could not start game: %w", err)
	}

	events, unsubscribe, err := manager.Subscribe(ctx, game.ID)
	if err != nil {
		return fmt.Errorf("could not subscribe to game: %w", err)
	}
	defer unsubscribe()

	view := &console{out: out, term: render.NewTerminal(out)}
	view.show(game)

	go view.follow(ctx, manager, game.ID, events)

	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		restarted, err := handleLine(ctx, manager, game.ID, config, strings.TrimSpace(scanner.Text()))
		if errors.Is(err, errQuit) {
			return nil
		}

		if err != nil {
			view.printf("%v\n", err)
			continue
		}

		if restarted != nil {
			view.show(restarted)
		}
	}

	if err = scanner.Err(); err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}

	return nil
}

// handleLine returns the new game after a restart, nil otherwise.
func handleLine(ctx context.Context, manager *usecase.GameManager, id string, config session.Config, line string) (*entity.Game, error) {
	switch line {
	case "":
		return nil, nil
	case "quit", "exit":
		return nil, errQuit
	case "restart":
		game, err := manager.Restart(ctx, id, &config)
		if err != nil {
			return nil, fmt.Errorf("restart failed: %w", err)
		}
		return game, nil
	}

	coord, err := parseCoord(line)
	if err != nil {
		return nil, err
	}

	if _, err = manager.AttemptMove(ctx, id, coord); err != nil {
		return nil, fmt.Errorf("move rejected: %w", err)
	}

	return nil, nil
}

func parseCoord(line string) (entity.Coord, error) {
	fields := strings.Fields(strings.NewReplacer(",", " ").Replace(line))
	if len(fields) != 3 {
		return entity.Coord{}, fmt.Errorf("expected \"x y z\", got %q", line)
	}

	var values [3]int
	for i, field := range fields {
		v, err := strconv.Atoi(field)
		if err != nil {
			return entity.Coord{}, fmt.Errorf("invalid coordinate %q", field)
		}
		values[i] = v
	}

	return entity.Coord{X: values[0], Y: values[1], Z: values[2]}, nil
}

type console struct {
	mu   sync.Mutex
	out  io.Writer
	term *render.Terminal
}

// follow redraws the board whenever the turn passes or the game ends.
func (that *console) follow(ctx context.Context, manager *usecase.GameManager, id string, events <-chan session.Event) {
	for event := range events {
		switch e := event.(type) {
		case session.MovePlaced:
			that.printf("%s -> %s\n", entity.SeatOf(e.Player).Symbol, e.Coord)
			continue
		case session.ConfigRejected:
			that.printf("config rejected: %s\n", e.Reason)
			continue
		case session.OpponentThinking:
			continue
		}

		game, err := manager.GetGame(ctx, id)
		if err != nil {
			that.printf("%v\n", err)
			continue
		}

		that.show(game)
	}
}

func (that *console) show(game *entity.Game) {
	that.mu.Lock()
	defer that.mu.Unlock()

	_ = that.term.Board(game)
	_ = that.term.Status(game)
}

func (that *console) printf(format string, args ...any) {
	that.mu.Lock()
	defer that.mu.Unlock()

	fmt.Fprintf(that.out, format, args...)
}
