package session

import "github.com/rocketscienceinc/cubetactoe-backend/internal/entity"

const (
	EventMovePlaced       = "move_placed"
	EventTurnChanged      = "turn_changed"
	EventGameWon          = "game_won"
	EventGameDrawn        = "game_drawn"
	EventGameAborted      = "game_aborted"
	EventOpponentThinking = "opponent_thinking"
	EventConfigRejected   = "config_rejected"
)

// Event is anything the session reports to the view layer.
type Event interface {
	Name() string
}

type MovePlaced struct {
	Coord  entity.Coord `json:"coord"`
	Player entity.Mark  `json:"player"`
}

type TurnChanged struct {
	Player entity.Mark `json:"player"`
}

type GameWon struct {
	Line   entity.Line `json:"line"`
	Player entity.Mark `json:"player"`
}

type GameDrawn struct{}

// GameAborted ends a game whose opponent found no legal move.
type GameAborted struct {
	Reason string `json:"reason"`
}

// OpponentThinking is advisory; the host delays the opponent's move.
type OpponentThinking struct {
	Generation uint64 `json:"generation"`
}

type ConfigRejected struct {
	Reason string `json:"reason"`
}

func (MovePlaced) Name() string       { return EventMovePlaced }
func (TurnChanged) Name() string      { return EventTurnChanged }
func (GameWon) Name() string          { return EventGameWon }
func (GameDrawn) Name() string        { return EventGameDrawn }
func (GameAborted) Name() string      { return EventGameAborted }
func (OpponentThinking) Name() string { return EventOpponentThinking }
func (ConfigRejected) Name() string   { return EventConfigRejected }

// Listener receives events synchronously, in emission order.
type Listener interface {
	Notify(event Event)
}

type ListenerFunc func(event Event)

func (f ListenerFunc) Notify(event Event) {
	f(event)
}

type nopListener struct{}

func (nopListener) Notify(Event) {}
