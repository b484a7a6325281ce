package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/rocketscienceinc/cubetactoe-backend/internal/apperror"
	"github.com/rocketscienceinc/cubetactoe-backend/internal/entity"
	"github.com/rocketscienceinc/cubetactoe-backend/internal/pkg"
	"github.com/rocketscienceinc/cubetactoe-backend/internal/scheduler"
	"github.com/rocketscienceinc/cubetactoe-backend/internal/service"
	"github.com/rocketscienceinc/cubetactoe-backend/internal/session"
)

const subscriberBuffer = 16

type gameRepo interface {
	CreateOrUpdate(ctx context.Context, game *entity.Game) error
	GetByID(ctx context.Context, id string) (*entity.Game, error)
	DeleteByID(ctx context.Context, id string) error
}

type taskScheduler interface {
	Schedule(key string, generation uint64, delay time.Duration, fn func(ctx context.Context, generation uint64)) *scheduler.Task
	Cancel(key string)
}

// BotFactory builds one opponent per game; opponents are not shared between games.
type BotFactory func() service.BotService

// GameManager hosts sessions by id. It serializes every call on a session,
// schedules the opponent's delayed move and fans engine events out to subscribers.
type GameManager struct {
	logger        *slog.Logger
	gameRepo      gameRepo
	scheduler     taskScheduler
	newBot        BotFactory
	opponentDelay time.Duration

	mu    sync.Mutex
	games map[string]*liveGame
}

type liveGame struct {
	id      string
	mu      sync.Mutex
	session *session.Session

	subsMu sync.Mutex
	subs   map[*subscriber]struct{}
}

type subscriber struct {
	ch        chan session.Event
	closeOnce sync.Once
}

func (that *subscriber) close() {
	that.closeOnce.Do(func() { close(that.ch) })
}

func NewGameManager(logger *slog.Logger, gameRepo gameRepo, scheduler taskScheduler, newBot BotFactory, opponentDelay time.Duration) *GameManager {
	return &GameManager{
		logger:        logger.With("component", "game_manager"),
		gameRepo:      gameRepo,
		scheduler:     scheduler,
		newBot:        newBot,
		opponentDelay: opponentDelay,
		games:         make(map[string]*liveGame),
	}
}

// StartGame creates a new game under a fresh id and starts it with config.
func (that *GameManager) StartGame(ctx context.Context, config session.Config) (*entity.Game, error) {
	id := pkg.GenerateGameID()
	game := that.newLiveGame(id)

	if err := game.session.StartGame(config); err != nil {
		return nil, fmt.Errorf("failed to start game: %w", err)
	}

	that.mu.Lock()
	that.games[id] = game
	that.mu.Unlock()

	snapshot := game.session.Snapshot(id)
	that.saveGame(ctx, snapshot)

	return snapshot, nil
}

// AttemptMove applies a human move to game id.
func (that *GameManager) AttemptMove(ctx context.Context, id string, coord entity.Coord) (*entity.Game, error) {
	game, err := that.getLiveGame(ctx, id)
	if err != nil {
		return nil, err
	}

	game.mu.Lock()
	defer game.mu.Unlock()

	if err = game.session.AttemptMove(coord); err != nil {
		that.logger.Debug("move rejected", "gameID", id, "coord", coord.String(), "error", err)
		return game.session.Snapshot(id), fmt.Errorf("failed to make move: %w", err)
	}

	snapshot := game.session.Snapshot(id)
	that.saveGame(ctx, snapshot)
	that.scheduleOpponent(game)

	return snapshot, nil
}

// Restart discards the board of game id. With a non-nil config a new game is
// started right away under the same id.
func (that *GameManager) Restart(ctx context.Context, id string, config *session.Config) (*entity.Game, error) {
	game, err := that.getLiveGame(ctx, id)
	if err != nil {
		return nil, err
	}

	game.mu.Lock()
	defer game.mu.Unlock()

	that.scheduler.Cancel(id)
	game.session.Restart()

	if config != nil {
		if err = game.session.StartGame(*config); err != nil {
			snapshot := game.session.Snapshot(id)
			that.saveGame(ctx, snapshot)

			return snapshot, fmt.Errorf("failed to start game: %w", err)
		}
	}

	snapshot := game.session.Snapshot(id)
	that.saveGame(ctx, snapshot)

	return snapshot, nil
}

func (that *GameManager) GetGame(ctx context.Context, id string) (*entity.Game, error) {
	game, err := that.getLiveGame(ctx, id)
	if err != nil {
		return nil, err
	}

	game.mu.Lock()
	defer game.mu.Unlock()

	return game.session.Snapshot(id), nil
}

func (that *GameManager) GetCell(ctx context.Context, id string, coord entity.Coord) (entity.Mark, error) {
	game, err := that.getLiveGame(ctx, id)
	if err != nil {
		return entity.Empty, err
	}

	game.mu.Lock()
	defer game.mu.Unlock()

	mark, err := game.session.Cell(coord)
	if err != nil {
		return entity.Empty, fmt.Errorf("failed to get cell: %w", err)
	}

	return mark, nil
}

// Subscribe streams the events of game id until ctx is done or unsubscribe is
// called. Slow subscribers are dropped.
func (that *GameManager) Subscribe(ctx context.Context, id string) (<-chan session.Event, func(), error) {
	game, err := that.getLiveGame(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	sub := &subscriber{ch: make(chan session.Event, subscriberBuffer)}

	game.subsMu.Lock()
	game.subs[sub] = struct{}{}
	game.subsMu.Unlock()

	var once sync.Once
	unsubscribe := func() {
		once.Do(func() {
			game.subsMu.Lock()
			delete(game.subs, sub)
			game.subsMu.Unlock()
			sub.close()
		})
	}

	go func() {
		<-ctx.Done()
		unsubscribe()
	}()

	return sub.ch, unsubscribe, nil
}

// DeleteGame forgets game id, both in memory and in the store.
func (that *GameManager) DeleteGame(ctx context.Context, id string) error {
	that.scheduler.Cancel(id)

	that.mu.Lock()
	game, ok := that.games[id]
	delete(that.games, id)
	that.mu.Unlock()

	if ok {
		game.closeSubscribers()
	}

	if err := that.gameRepo.DeleteByID(ctx, id); err != nil {
		if errors.Is(err, apperror.ErrGameNotFound) && ok {
			return nil
		}

		return fmt.Errorf("failed to delete game: %w", err)
	}

	return nil
}

func (that *GameManager) newLiveGame(id string) *liveGame {
	game := &liveGame{
		id:   id,
		subs: make(map[*subscriber]struct{}),
	}
	game.session = session.New(that.logger.With("gameID", id), that.newBot(), session.ListenerFunc(game.publish))

	return game
}

// getLiveGame returns the in-memory game, restoring it from the store if needed.
// The store is read without holding the manager lock.
func (that *GameManager) getLiveGame(ctx context.Context, id string) (*liveGame, error) {
	that.mu.Lock()
	game, ok := that.games[id]
	that.mu.Unlock()

	if ok {
		return game, nil
	}

	snapshot, err := that.gameRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, apperror.ErrGameNotFound) {
			return nil, fmt.Errorf("%w: %s", apperror.ErrGameNotFound, id)
		}

		return nil, fmt.Errorf("failed to get game by id: %w", err)
	}

	restored := that.newLiveGame(id)
	if err = restored.session.Restore(snapshot); err != nil {
		return nil, fmt.Errorf("failed to restore game %s: %w", id, err)
	}

	that.mu.Lock()
	if game, ok = that.games[id]; ok {
		that.mu.Unlock()
		return game, nil
	}
	that.games[id] = restored
	that.mu.Unlock()

	that.logger.Info("game restored", "gameID", id, "phase", snapshot.Phase)

	restored.mu.Lock()
	that.scheduleOpponent(restored)
	restored.mu.Unlock()

	return restored, nil
}

// scheduleOpponent queues the delayed opponent move if the session is waiting
// for it.
func (that *GameManager) scheduleOpponent(game *liveGame) {
	if game.session.Phase() != entity.PhaseOpponentThinking {
		return
	}

	that.scheduler.Schedule(game.id, game.session.Generation(), that.opponentDelay, func(ctx context.Context, generation uint64) {
		that.playOpponent(ctx, game, generation)
	})
}

func (that *GameManager) playOpponent(ctx context.Context, game *liveGame, generation uint64) {
	log := that.logger.With("method", "playOpponent", "gameID", game.id, "generation", generation)

	game.mu.Lock()
	defer game.mu.Unlock()

	move, err := game.session.PlayOpponent(generation)
	if err != nil {
		if errors.Is(err, apperror.ErrStaleMove) {
			log.Info("discarded stale opponent move")
			return
		}

		log.Error("opponent move failed", "error", err)
	} else {
		log.Info("opponent moved", "move", move.String())
	}

	that.saveGame(ctx, game.session.Snapshot(game.id))
	that.scheduleOpponent(game)
}

func (that *GameManager) saveGame(ctx context.Context, game *entity.Game) {
	if err := that.gameRepo.CreateOrUpdate(ctx, game); err != nil {
		that.logger.Error("failed to save game", "gameID", game.ID, "error", err)
	}
}

func (that *liveGame) publish(event session.Event) {
	that.subsMu.Lock()
	defer that.subsMu.Unlock()

	for sub := range that.subs {
		select {
		case sub.ch <- event:
		default:
			delete(that.subs, sub)
			sub.close()
		}
	}
}

func (that *liveGame) closeSubscribers() {
	that.subsMu.Lock()
	defer that.subsMu.Unlock()

	for sub := range that.subs {
		delete(that.subs, sub)
		sub.close()
	}
}
