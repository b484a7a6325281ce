package rest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rocketscienceinc/cubetactoe-backend/internal/apperror"
	"github.com/rocketscienceinc/cubetactoe-backend/internal/entity"
	"github.com/rocketscienceinc/cubetactoe-backend/internal/session"
)

const maxBodyBytes = 1 << 12

var heartbeatInterval = 15 * time.Second

type gameManager interface {
	StartGame(ctx context.Context, config session.Config) (*entity.Game, error)
	AttemptMove(ctx context.Context, id string, coord entity.Coord) (*entity.Game, error)
	Restart(ctx context.Context, id string, config *session.Config) (*entity.Game, error)
	GetGame(ctx context.Context, id string) (*entity.Game, error)
	GetCell(ctx context.Context, id string, coord entity.Coord) (entity.Mark, error)
	Subscribe(ctx context.Context, id string) (<-chan session.Event, func(), error)
	DeleteGame(ctx context.Context, id string) error
}

// GameDefaults fill the fields a start request leaves out.
type GameDefaults struct {
	BoardSize       int
	NumPlayers      int
	OpponentEnabled bool
}

type handlers struct {
	logger      *slog.Logger
	gameManager gameManager
	defaults    GameDefaults
}

type startRequest struct {
	BoardSize       *int  `json:"board_size"`
	NumPlayers      *int  `json:"num_players"`
	OpponentEnabled *bool `json:"opponent_enabled"`
}

type cellResponse struct {
	Coord entity.Coord `json:"coord"`
	Mark  entity.Mark  `json:"mark"`
	Seat  entity.Seat  `json:"seat"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type eventEnvelope struct {
	Event   string        `json:"event"`
	Payload session.Event `json:"payload"`
}

func (that *handlers) startGame(w http.ResponseWriter, r *http.Request) {
	config, err := that.readConfig(r)
	if err != nil {
		that.writeError(w, fmt.Errorf("%w: %w", apperror.ErrInvalidConfig, err))
		return
	}

	if config == nil {
		config = that.defaultConfig()
	}

	game, err := that.gameManager.StartGame(r.Context(), *config)
	if err != nil {
		that.writeError(w, err)
		return
	}

	that.writeJSON(w, http.StatusCreated, game)
}

func (that *handlers) getGame(w http.ResponseWriter, r *http.Request) {
	game, err := that.gameManager.GetGame(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		that.writeError(w, err)
		return
	}

	that.writeJSON(w, http.StatusOK, game)
}

func (that *handlers) getCell(w http.ResponseWriter, r *http.Request) {
	coord, err := coordFromPath(r)
	if err != nil {
		that.writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	mark, err := that.gameManager.GetCell(r.Context(), chi.URLParam(r, "id"), coord)
	if err != nil {
		that.writeError(w, err)
		return
	}

	that.writeJSON(w, http.StatusOK, cellResponse{Coord: coord, Mark: mark, Seat: entity.SeatOf(mark)})
}

func (that *handlers) attemptMove(w http.ResponseWriter, r *http.Request) {
	var coord entity.Coord
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(&coord); err != nil {
		that.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid move body"})
		return
	}

	game, err := that.gameManager.AttemptMove(r.Context(), chi.URLParam(r, "id"), coord)
	if err != nil {
		that.writeError(w, err)
		return
	}

	that.writeJSON(w, http.StatusOK, game)
}

// restart without a body leaves the game in start; with one it starts a new game.
func (that *handlers) restart(w http.ResponseWriter, r *http.Request) {
	config, err := that.readConfig(r)
	if err != nil {
		that.writeError(w, fmt.Errorf("%w: %w", apperror.ErrInvalidConfig, err))
		return
	}

	game, err := that.gameManager.Restart(r.Context(), chi.URLParam(r, "id"), config)
	if err != nil {
		that.writeError(w, err)
		return
	}

	that.writeJSON(w, http.StatusOK, game)
}

func (that *handlers) deleteGame(w http.ResponseWriter, r *http.Request) {
	if err := that.gameManager.DeleteGame(r.Context(), chi.URLParam(r, "id")); err != nil {
		that.writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (that *handlers) events(w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "events")

	flusher, ok := w.(http.Flusher)
	if !ok {
		that.writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "streaming unsupported"})
		return
	}

	ctx := r.Context()
	ch, unsubscribe, err := that.gameManager.Subscribe(ctx, chi.URLParam(r, "id"))
	if err != nil {
		that.writeError(w, err)
		return
	}
	defer unsubscribe()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	ticker := time.NewTicker(heartbeatInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			_, _ = io.WriteString(w, ": ping\n\n")
			flusher.Flush()
		case event, ok := <-ch:
			if !ok {
				return
			}

			data, err := json.Marshal(eventEnvelope{Event: event.Name(), Payload: event})
			if err != nil {
				log.Error("failed to marshal event", "event", event.Name(), "error", err)
				continue
			}

			_, _ = fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Name(), data)
			flusher.Flush()
		}
	}
}

func (that *handlers) defaultConfig() *session.Config {
	return &session.Config{
		BoardSize:       that.defaults.BoardSize,
		NumPlayers:      that.defaults.NumPlayers,
		OpponentEnabled: that.defaults.OpponentEnabled,
	}
}

// readConfig returns nil for an empty body, whatever its Content-Length says.
// Fields missing from a body fall back to the defaults.
func (that *handlers) readConfig(r *http.Request) (*session.Config, error) {
	var req startRequest
	err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(&req)
	if errors.Is(err, io.EOF) {
		return nil, nil //nolint: nilnil // no body
	}
	if err != nil {
		return nil, fmt.Errorf("invalid config body: %w", err)
	}

	config := that.defaultConfig()

	if req.BoardSize != nil {
		config.BoardSize = *req.BoardSize
	}
	if req.NumPlayers != nil {
		config.NumPlayers = *req.NumPlayers
	}
	if req.OpponentEnabled != nil {
		config.OpponentEnabled = *req.OpponentEnabled
	}

	return config, nil
}

func (that *handlers) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError

	switch {
	case errors.Is(err, apperror.ErrInvalidConfig):
		status = http.StatusBadRequest
	case errors.Is(err, apperror.ErrIllegalMove), errors.Is(err, session.ErrGameNotStarted):
		status = http.StatusConflict
	case errors.Is(err, apperror.ErrGameNotFound):
		status = http.StatusNotFound
	case errors.Is(err, entity.ErrOutOfRange):
		status = http.StatusBadRequest
	}

	if status == http.StatusInternalServerError {
		that.logger.Error("request failed", "error", err)
	}

	that.writeJSON(w, status, errorResponse{Error: err.Error()})
}

func (that *handlers) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		that.logger.Error("failed to write response", "error", err)
	}
}

func coordFromPath(r *http.Request) (entity.Coord, error) {
	var values [3]int
	for i, name := range []string{"x", "y", "z"} {
		v, err := strconv.Atoi(chi.URLParam(r, name))
		if err != nil {
			return entity.Coord{}, fmt.Errorf("invalid %s coordinate", name)
		}
		values[i] = v
	}

	return entity.Coord{X: values[0], Y: values[1], Z: values[2]}, nil
}
