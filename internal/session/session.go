// Package session holds the turn-taking state machine. A Session is the only
// writer of its board; callers must serialize access to it.
package session

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/rocketscienceinc/cubetactoe-backend/internal/apperror"
	"github.com/rocketscienceinc/cubetactoe-backend/internal/entity"
	"github.com/rocketscienceinc/cubetactoe-backend/internal/service"
	"github.com/rocketscienceinc/cubetactoe-backend/internal/tictactoe"
)

var (
	ErrWrongPhase     = errors.New("move not allowed in this phase")
	ErrGameNotStarted = errors.New("game is not started")
)

type opponent interface {
	ChooseMove(board *entity.Board) (service.Move, error)
}

type Session struct {
	logger   *slog.Logger
	opponent opponent
	listener Listener

	phase      string
	config     Config
	board      *entity.Board
	current    entity.Mark
	generation uint64
	outcome    *entity.Outcome
}

// New returns a session in the start phase. listener may be nil.
func New(logger *slog.Logger, opponent opponent, listener Listener) *Session {
	if listener == nil {
		listener = nopListener{}
	}

	return &Session{
		logger:   logger.With("component", "session"),
		opponent: opponent,
		listener: listener,
		phase:    entity.PhaseStart,
	}
}

// StartGame moves the session from start to playing with a fresh board.
func (that *Session) StartGame(config Config) error {
	if that.phase != entity.PhaseStart {
		return fmt.Errorf("%w: %w: %s", apperror.ErrIllegalMove, ErrWrongPhase, that.phase)
	}

	if err := config.Validate(); err != nil {
		that.emit(ConfigRejected{Reason: err.Error()})
		return err
	}

	board, err := entity.NewBoard(config.BoardSize)
	if err != nil {
		return fmt.Errorf("%w: %w", apperror.ErrInvalidConfig, err)
	}

	that.config = config
	that.board = board
	that.current = 0
	that.outcome = nil
	that.generation++
	that.phase = entity.PhasePlaying

	that.logger.Info("game started",
		"board_size", config.BoardSize,
		"players", config.NumPlayers,
		"opponent", config.OpponentEnabled,
		"generation", that.generation,
	)

	return nil
}

// AttemptMove places the current seat's mark. Any failure leaves the session untouched.
func (that *Session) AttemptMove(coord entity.Coord) error {
	if that.phase != entity.PhasePlaying {
		return fmt.Errorf("%w: %w: %s", apperror.ErrIllegalMove, ErrWrongPhase, that.phase)
	}

	return that.apply(coord)
}

// PlayOpponent applies the scripted opponent's move for the game identified by
// generation. Moves scheduled for an earlier game are rejected as stale.
func (that *Session) PlayOpponent(generation uint64) (service.Move, error) {
	if generation != that.generation || that.phase != entity.PhaseOpponentThinking {
		return service.Move{}, fmt.Errorf("%w: generation %d, current %d in phase %s",
			apperror.ErrStaleMove, generation, that.generation, that.phase)
	}

	move, err := that.opponent.ChooseMove(that.board)
	if err != nil {
		if errors.Is(err, apperror.ErrNoLegalMove) {
			that.abort(err)
		}

		return service.Move{}, fmt.Errorf("opponent failed to choose move: %w", err)
	}

	if err = that.apply(move.Coord); err != nil {
		that.abort(err)
		return service.Move{}, fmt.Errorf("opponent move rejected: %w", err)
	}

	return move, nil
}

// Restart discards the board and returns to the start phase. Any delayed
// opponent move issued before the restart becomes stale.
func (that *Session) Restart() {
	that.board = nil
	that.config = Config{}
	that.current = 0
	that.outcome = nil
	that.generation++
	that.phase = entity.PhaseStart

	that.logger.Info("game restarted", "generation", that.generation)
}

func (that *Session) Cell(coord entity.Coord) (entity.Mark, error) {
	if that.board == nil {
		return entity.Empty, ErrGameNotStarted
	}

	mark, err := that.board.Get(coord)
	if err != nil {
		return entity.Empty, fmt.Errorf("failed to read cell: %w", err)
	}

	return mark, nil
}

func (that *Session) Phase() string {
	return that.phase
}

func (that *Session) CurrentPlayer() entity.Mark {
	return that.current
}

func (that *Session) Generation() uint64 {
	return that.generation
}

func (that *Session) Config() Config {
	return that.config
}

// Outcome is nil until the game is over.
func (that *Session) Outcome() *entity.Outcome {
	if that.outcome == nil {
		return nil
	}

	out := *that.outcome
	return &out
}

// Snapshot copies the session state under the given game id.
func (that *Session) Snapshot(id string) *entity.Game {
	game := &entity.Game{
		ID:              id,
		Phase:           that.phase,
		BoardSize:       that.config.BoardSize,
		NumPlayers:      that.config.NumPlayers,
		OpponentEnabled: that.config.OpponentEnabled,
		CurrentPlayer:   that.current,
		Generation:      that.generation,
		Outcome:         that.Outcome(),
	}

	if that.board != nil {
		game.Cells = that.board.Cells()
	}

	return game
}

// Restore replaces the session state with a stored snapshot. No events are emitted.
func (that *Session) Restore(game *entity.Game) error {
	if game.Phase == entity.PhaseStart {
		that.Restart()
		that.generation = game.Generation
		return nil
	}

	config := Config{
		BoardSize:       game.BoardSize,
		NumPlayers:      game.NumPlayers,
		OpponentEnabled: game.OpponentEnabled,
	}
	if err := config.Validate(); err != nil {
		return fmt.Errorf("invalid snapshot: %w", err)
	}

	switch game.Phase {
	case entity.PhasePlaying, entity.PhaseOpponentThinking, entity.PhaseGameOver:
	default:
		return fmt.Errorf("%w: unknown phase %q", apperror.ErrInvalidConfig, game.Phase)
	}

	if game.CurrentPlayer < 0 || int(game.CurrentPlayer) >= config.NumPlayers {
		return fmt.Errorf("%w: current player %d", apperror.ErrInvalidConfig, game.CurrentPlayer)
	}

	if game.Phase == entity.PhaseOpponentThinking && (!config.OpponentEnabled || game.CurrentPlayer != entity.OpponentSeat) {
		return fmt.Errorf("%w: opponent is not to move", apperror.ErrInvalidConfig)
	}

	board, err := entity.BoardFromCells(config.BoardSize, game.Cells)
	if err != nil {
		return fmt.Errorf("invalid snapshot board: %w", err)
	}

	that.config = config
	that.board = board
	that.current = game.CurrentPlayer
	that.generation = game.Generation
	that.phase = game.Phase
	that.outcome = nil

	if game.Outcome != nil {
		outcome := *game.Outcome
		that.outcome = &outcome
	}

	return nil
}

// apply places the mark for the current seat and resolves win, draw or hand-off, in that order.
func (that *Session) apply(coord entity.Coord) error {
	mover := that.current

	if err := that.board.Place(coord, mover); err != nil {
		return fmt.Errorf("%w: %w", apperror.ErrIllegalMove, err)
	}

	that.emit(MovePlaced{Coord: coord, Player: mover})

	if line, ok := tictactoe.HasWin(that.board, mover); ok {
		that.phase = entity.PhaseGameOver
		that.outcome = &entity.Outcome{Winner: mover, Line: line}
		that.logger.Info("game won", "player", entity.SeatOf(mover).Symbol, "generation", that.generation)
		that.emit(GameWon{Line: line, Player: mover})

		return nil
	}

	if tictactoe.IsDraw(that.board) {
		that.phase = entity.PhaseGameOver
		that.outcome = &entity.Outcome{Winner: entity.Empty, Draw: true}
		that.logger.Info("game drawn", "generation", that.generation)
		that.emit(GameDrawn{})

		return nil
	}

	that.current = (that.current + 1) % entity.Mark(that.config.NumPlayers)
	that.emit(TurnChanged{Player: that.current})

	if that.config.OpponentEnabled && that.current == entity.OpponentSeat {
		that.phase = entity.PhaseOpponentThinking
		that.emit(OpponentThinking{Generation: that.generation})

		return nil
	}

	that.phase = entity.PhasePlaying

	return nil
}

func (that *Session) abort(cause error) {
	that.phase = entity.PhaseGameOver
	that.outcome = &entity.Outcome{Winner: entity.Empty, Aborted: true}
	that.logger.Error("game aborted", "error", cause, "generation", that.generation)
	that.emit(GameAborted{Reason: cause.Error()})
}

func (that *Session) emit(event Event) {
	that.listener.Notify(event)
}
