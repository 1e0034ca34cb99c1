package model

import "fmt"

// ValueKind distinguishes adjacency counts from the two mine sentinels
type ValueKind int

const (
	ValueNumber         ValueKind = iota // Adjacent-mine count 0..8
	ValueUnexplodedMine                  // Mine shown after a loss, not the one clicked
	ValueExplodedMine                    // The mine that was clicked
)

// Value is what a revealed cell shows
type Value struct {
	Kind  ValueKind
	Count int // Only meaningful for ValueNumber
}

// Sentinel values for revealed mines
var (
	UnexplodedMine = Value{Kind: ValueUnexplodedMine}
	ExplodedMine   = Value{Kind: ValueExplodedMine}
)

// Number returns a Value holding an adjacent-mine count
func Number(n int) Value {
	return Value{Kind: ValueNumber, Count: n}
}

// IsMine returns true for either mine sentinel
func (v Value) IsMine() bool {
	return v.Kind == ValueUnexplodedMine || v.Kind == ValueExplodedMine
}

// AsNumber returns the adjacency count and whether the value is a number
func (v Value) AsNumber() (int, bool) {
	if v.Kind != ValueNumber {
		return 0, false
	}
	return v.Count, true
}

// IsValid reports whether the value is a known sentinel or a count in 0..8
func (v Value) IsValid() bool {
	switch v.Kind {
	case ValueNumber:
		return v.Count >= 0 && v.Count <= 8
	case ValueUnexplodedMine, ValueExplodedMine:
		return true
	default:
		return false
	}
}

func (v Value) String() string {
	switch v.Kind {
	case ValueNumber:
		return fmt.Sprintf("%d", v.Count)
	case ValueUnexplodedMine:
		return "mine"
	case ValueExplodedMine:
		return "exploded"
	default:
		return "invalid"
	}
}

// Cell is one grid position as seen by the player
type Cell struct {
	Revealed bool
	Flagged  bool
	Value    Value // Only meaningful when Revealed
}

// Hidden returns an unrevealed, unflagged cell
func Hidden() Cell {
	return Cell{}
}

// Flagged returns an unrevealed cell carrying a flag
func Flagged() Cell {
	return Cell{Flagged: true}
}

// Revealed returns a revealed cell showing v
func Revealed(v Value) Cell {
	return Cell{Revealed: true, Value: v}
}

// IsUnopened returns true if the cell is neither revealed nor flagged
func (c Cell) IsUnopened() bool {
	return !c.Revealed && !c.Flagged
}

// IsMine returns true if the cell is revealed and shows a mine sentinel
func (c Cell) IsMine() bool {
	return c.Revealed && c.Value.IsMine()
}

// validate checks the value-iff-revealed and flagged/revealed exclusivity invariants
func (c Cell) validate() error {
	if c.Revealed && c.Flagged {
		return fmt.Errorf("%w: cell is both revealed and flagged", ErrInvalidCell)
	}
	if c.Revealed && !c.Value.IsValid() {
		return fmt.Errorf("%w: revealed value %s out of range", ErrInvalidCell, c.Value)
	}
	if !c.Revealed && c.Value != (Value{}) {
		return fmt.Errorf("%w: hidden cell carries a value", ErrInvalidCell)
	}
	return nil
}
