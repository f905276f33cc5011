// Package grid implements the Yam Master board: a fixed 5x5 layout of
// combination cells that both players claim over the course of a match.
// Claims are immutable, the selectable flags are transient view state,
// and scoring is a pure function of the board, so the bot can evaluate
// placements speculatively.
package grid

import (
	"encoding/json"
	"errors"

	"github.com/jmorel/yam-master-server/game/combo"
)

// Size is the number of rows and columns on the board.
const Size = 5

// Draw is the winner sentinel reported when the board is exhausted with
// equal totals. The client renders the string as-is.
const Draw = "égalité"

// LineBonus is awarded for each fully-owned row or column.
const LineBonus = 5

var (
	ErrInvalidCell   = errors.New("invalid cell reference")
	ErrNotSelectable = errors.New("cell is not selectable")
)

// Cell is one claimable slot on the board. Owner is empty until a player
// claims the cell and is immutable afterwards. CanBeChecked is a
// transient highlight recomputed each turn, not game truth.
type Cell struct {
	ID           combo.ID
	Label        string
	Owner        string
	CanBeChecked bool
}

// MarshalJSON emits the wire shape the board renderer expects, with a
// null owner for unclaimed cells.
func (c Cell) MarshalJSON() ([]byte, error) {
	var owner *string
	if c.Owner != "" {
		owner = &c.Owner
	}
	return json.Marshal(struct {
		ID           combo.ID `json:"id"`
		ViewContent  string   `json:"viewContent"`
		Owner        *string  `json:"owner"`
		CanBeChecked bool     `json:"canBeChecked"`
	}{c.ID, c.Label, owner, c.CanBeChecked})
}

// Grid is the board, indexed [row][col].
type Grid [][]Cell

// Position identifies a cell by coordinates.
type Position struct {
	Row int
	Col int
}

// Result is the outcome of a score computation. Winner is empty unless
// Victory is true; a tie reports the Draw sentinel.
type Result struct {
	Score   int
	Victory bool
	Winner  string
}

// layout fixes the board. No combination id repeats within a row or a
// column, so a player can claim each combination at most once per line.
var layout = [Size][Size]combo.ID{
	{combo.Sec(1), combo.Sec(3), combo.Defi, combo.Sec(4), combo.Sec(6)},
	{combo.Sec(2), combo.Carre, combo.Full, combo.Yam, combo.Sec(5)},
	{combo.Brelan, combo.Suite, combo.Moinshuit, combo.Carre, combo.Full},
	{combo.Sec(6), combo.Sec(4), combo.Suite, combo.Sec(3), combo.Sec(1)},
	{combo.Sec(5), combo.Yam, combo.Brelan, combo.Defi, combo.Sec(2)},
}

// cellValues fixes the base points of each combination cell.
var cellValues = map[combo.ID]int{
	combo.Brelan:    5,
	combo.Moinshuit: 8,
	combo.Full:      10,
	combo.Defi:      10,
	combo.Suite:     12,
	combo.Carre:     15,
	combo.Yam:       20,
}

// CellValue returns the base points a claimed cell contributes.
func CellValue(id combo.ID) int {
	if n := id.Discriminant(); n > 0 {
		return n
	}
	return cellValues[id]
}

// New returns a fresh unclaimed board.
func New() Grid {
	g := make(Grid, Size)
	for row := range g {
		g[row] = make([]Cell, Size)
		for col := range g[row] {
			id := layout[row][col]
			g[row][col] = Cell{ID: id, Label: id.Label()}
		}
	}
	return g
}

// Cell returns the cell at the given coordinates.
func (g Grid) Cell(row, col int) (*Cell, error) {
	if row < 0 || row >= len(g) || col < 0 || col >= len(g[row]) {
		return nil, ErrInvalidCell
	}
	return &g[row][col], nil
}

// ResetSelectable clears every transient highlight. Called at turn start
// and before recomputing highlights for a newly selected choice.
func (g Grid) ResetSelectable() {
	for row := range g {
		for col := range g[row] {
			g[row][col].CanBeChecked = false
		}
	}
}

// MarkSelectable highlights every unclaimed cell matching the selected
// combination.
func (g Grid) MarkSelectable(id combo.ID) {
	for row := range g {
		for col := range g[row] {
			if g[row][col].ID == id && g[row][col].Owner == "" {
				g[row][col].CanBeChecked = true
			}
		}
	}
}

// SelectCell assigns owner to the identified cell. The claim fails with
// ErrInvalidCell when the reference does not match the board and with
// ErrNotSelectable when the cell is already owned. An owner, once set,
// is never overwritten.
func (g Grid) SelectCell(id combo.ID, row, col int, owner string) error {
	cell, err := g.Cell(row, col)
	if err != nil {
		return err
	}
	if cell.ID != id {
		return ErrInvalidCell
	}
	if cell.Owner != "" {
		return ErrNotSelectable
	}
	cell.Owner = owner
	cell.CanBeChecked = false
	return nil
}

// UnownedCells returns the positions of every unclaimed cell matching id.
func (g Grid) UnownedCells(id combo.ID) []Position {
	var positions []Position
	for row := range g {
		for col := range g[row] {
			if g[row][col].ID == id && g[row][col].Owner == "" {
				positions = append(positions, Position{Row: row, Col: col})
			}
		}
	}
	return positions
}

// Full reports whether every claimable cell has an owner.
func (g Grid) Full() bool {
	for row := range g {
		for col := range g[row] {
			if g[row][col].Owner == "" {
				return false
			}
		}
	}
	return true
}

// Score sums the base points of every cell owned by owner, plus the line
// bonus for each fully-owned row and column.
func (g Grid) Score(owner string) int {
	score := 0
	for row := range g {
		for col := range g[row] {
			if g[row][col].Owner == owner {
				score += CellValue(g[row][col].ID)
			}
		}
	}
	for row := range g {
		ownsLine := true
		for col := range g[row] {
			if g[row][col].Owner != owner {
				ownsLine = false
				break
			}
		}
		if ownsLine {
			score += LineBonus
		}
	}
	for col := 0; col < Size; col++ {
		ownsLine := true
		for row := range g {
			if g[row][col].Owner != owner {
				ownsLine = false
				break
			}
		}
		if ownsLine {
			score += LineBonus
		}
	}
	return score
}

// ComputeScore evaluates the board for owner. Victory is reported once
// the board is exhausted; the winner is then whichever of owner and
// opponent holds the higher total, or the Draw sentinel on a tie.
func (g Grid) ComputeScore(owner, opponent string) Result {
	result := Result{Score: g.Score(owner)}
	if !g.Full() {
		return result
	}

	result.Victory = true
	opponentScore := g.Score(opponent)
	switch {
	case result.Score > opponentScore:
		result.Winner = owner
	case result.Score < opponentScore:
		result.Winner = opponent
	default:
		result.Winner = Draw
	}
	return result
}
