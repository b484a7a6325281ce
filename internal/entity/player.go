package entity

const (
	MinPlayers = 2
	MaxPlayers = 4

	// OpponentSeat is the seat played by the scripted opponent.
	OpponentSeat Mark = 1
	HumanSeat    Mark = 0
)

// Seat describes how a player slot is presented to the view layer.
type Seat struct {
	Symbol string `json:"symbol"`
	Color  string `json:"color"`
}

// Seats is the fixed four-seat table, indexed by Mark.
var Seats = [MaxPlayers]Seat{
	{Symbol: "P1", Color: "#ff4136"},
	{Symbol: "P2", Color: "#0074d9"},
	{Symbol: "P3", Color: "#2ecc40"},
	{Symbol: "P4", Color: "#ffdc00"},
}

// SeatOf returns the table entry for mark, or a blank seat for Empty.
func SeatOf(mark Mark) Seat {
	if mark < 0 || int(mark) >= MaxPlayers {
		return Seat{Symbol: "--"}
	}

	return Seats[mark]
}
