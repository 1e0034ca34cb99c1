package model

import "fmt"

// ActionKind is the interaction to perform on a cell
type ActionKind string

const (
	ActionReveal ActionKind = "reveal"
	ActionFlag   ActionKind = "flag"
)

// Action is a single move for the move executor
type Action struct {
	Position
	Kind ActionKind
}

// Reveal returns a reveal action for pos
func Reveal(pos Position) Action {
	return Action{Position: pos, Kind: ActionReveal}
}

// Flag returns a flag action for pos
func Flag(pos Position) Action {
	return Action{Position: pos, Kind: ActionFlag}
}

func (a Action) String() string {
	return fmt.Sprintf("%s%s", a.Kind, a.Position)
}

// GameStatus is the terminal classification of a game
type GameStatus string

const (
	StatusOngoing GameStatus = "ongoing"
	StatusWon     GameStatus = "won"
	StatusLost    GameStatus = "lost"
)

// IsTerminal returns true for won and lost games
func (s GameStatus) IsTerminal() bool {
	return s == StatusWon || s == StatusLost
}
