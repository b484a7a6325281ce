package entity

const (
	PhaseStart            = "start"
	PhasePlaying          = "playing"
	PhaseOpponentThinking = "opponent_thinking"
	PhaseGameOver         = "game_over"
)

// Outcome is set once a game reaches PhaseGameOver.
type Outcome struct {
	Winner  Mark `json:"winner"`
	Line    Line `json:"line,omitempty"`
	Draw    bool `json:"draw,omitempty"`
	Aborted bool `json:"aborted,omitempty"`
}

// Game is a point-in-time copy of a session, safe to hand to the view layer
// or to store.
type Game struct {
	ID              string   `json:"id"`
	Phase           string   `json:"phase"`
	BoardSize       int      `json:"board_size,omitempty"`
	NumPlayers      int      `json:"num_players,omitempty"`
	OpponentEnabled bool     `json:"opponent_enabled"`
	CurrentPlayer   Mark     `json:"current_player"`
	Generation      uint64   `json:"generation"`
	Cells           []Mark   `json:"cells,omitempty"`
	Outcome         *Outcome `json:"outcome,omitempty"`
}

func (that *Game) IsFinished() bool {
	return that.Phase == PhaseGameOver
}

func (that *Game) IsStarted() bool {
	return that.Phase != PhaseStart
}

func (that *Game) IsOpponentTurn() bool {
	return that.Phase == PhaseOpponentThinking
}
