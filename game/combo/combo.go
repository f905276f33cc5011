// Package combo detects the scoring combinations satisfied by a hand of
// five dice and defines the fixed priority order the bot uses to rank
// them. Detection is pure: it looks only at face values and never at the
// grid, so the same hand always yields the same set regardless of die
// order.
package combo

import (
	"fmt"
	"strconv"
	"strings"
)

// ID identifies a scoring combination. Sec combinations carry their face
// value as a suffix ("sec-3"); all other ids are bare.
type ID string

const (
	Brelan    ID = "brelan"
	Carre     ID = "carre"
	Full      ID = "full"
	Suite     ID = "suite"
	Yam       ID = "yam"
	Moinshuit ID = "moinshuit"
	Defi      ID = "defi"
)

// MoinshuitThreshold is the exclusive upper bound on the hand sum for the
// minus-eight combination.
const MoinshuitThreshold = 8

// Sec returns the single-value combination id for face n.
func Sec(n int) ID {
	return ID(fmt.Sprintf("sec-%d", n))
}

// Base strips the numeric discriminant: "sec-3" -> "sec", "yam" -> "yam".
func (id ID) Base() string {
	base, _, _ := strings.Cut(string(id), "-")
	return base
}

// Discriminant returns the numeric suffix of a sec id, or 0.
func (id ID) Discriminant() int {
	_, suffix, found := strings.Cut(string(id), "-")
	if !found {
		return 0
	}
	n, err := strconv.Atoi(suffix)
	if err != nil {
		return 0
	}
	return n
}

// Label returns the display name rendered on the board and in the choice
// list. Sec combinations display their face value.
func (id ID) Label() string {
	switch id {
	case Brelan:
		return "Brelan"
	case Carre:
		return "Carré"
	case Full:
		return "Full"
	case Suite:
		return "Suite"
	case Yam:
		return "Yam"
	case Moinshuit:
		return "<8"
	case Defi:
		return "Défi"
	}
	if n := id.Discriminant(); n > 0 {
		return strconv.Itoa(n)
	}
	return string(id)
}

// Combination pairs an id with its display label for the choice list.
type Combination struct {
	ID    ID     `json:"id"`
	Label string `json:"label"`
}

// Counts is a frequency table keyed by face value; index 0 is unused.
type Counts [7]int

// Count builds the frequency table for a hand.
func Count(values []int) Counts {
	var c Counts
	for _, v := range values {
		if v >= 1 && v <= 6 {
			c[v]++
		}
	}
	return c
}

// Sum returns the total of all dice in the table.
func (c Counts) Sum() int {
	sum := 0
	for face := 1; face <= 6; face++ {
		sum += face * c[face]
	}
	return sum
}

func (c Counts) IsYam() bool {
	for face := 1; face <= 6; face++ {
		if c[face] == 5 {
			return true
		}
	}
	return false
}

func (c Counts) IsCarre() bool {
	for face := 1; face <= 6; face++ {
		if c[face] == 4 {
			return true
		}
	}
	return false
}

func (c Counts) IsBrelan() bool {
	for face := 1; face <= 6; face++ {
		if c[face] == 3 {
			return true
		}
	}
	return false
}

func (c Counts) IsFull() bool {
	hasThree, hasTwo := false, false
	for face := 1; face <= 6; face++ {
		switch c[face] {
		case 3:
			hasThree = true
		case 2:
			hasTwo = true
		}
	}
	return hasThree && hasTwo
}

func (c Counts) IsSuite() bool {
	low, high := true, true
	for face := 1; face <= 5; face++ {
		if c[face] == 0 {
			low = false
		}
	}
	for face := 2; face <= 6; face++ {
		if c[face] == 0 {
			high = false
		}
	}
	return low || high
}

// IsMade reports whether the hand is already one of the big made hands
// the bot stops rolling for.
func (c Counts) IsMade() bool {
	return c.IsYam() || c.IsCarre() || c.IsFull() || c.IsSuite()
}

// Find returns every combination the hand currently satisfies. Defi is a
// wildcard and is always offered. Availability against the grid is the
// caller's concern.
func Find(values []int) []Combination {
	c := Count(values)

	combos := []Combination{{ID: Defi, Label: Defi.Label()}}

	for face := 1; face <= 6; face++ {
		if c[face] >= 1 {
			id := Sec(face)
			combos = append(combos, Combination{ID: id, Label: id.Label()})
		}
	}
	if c.IsBrelan() {
		combos = append(combos, Combination{ID: Brelan, Label: Brelan.Label()})
	}
	if c.IsCarre() {
		combos = append(combos, Combination{ID: Carre, Label: Carre.Label()})
	}
	if c.IsFull() {
		combos = append(combos, Combination{ID: Full, Label: Full.Label()})
	}
	if c.IsSuite() {
		combos = append(combos, Combination{ID: Suite, Label: Suite.Label()})
	}
	if c.IsYam() {
		combos = append(combos, Combination{ID: Yam, Label: Yam.Label()})
	}
	if c.Sum() < MoinshuitThreshold {
		combos = append(combos, Combination{ID: Moinshuit, Label: Moinshuit.Label()})
	}

	return combos
}

// priorityRank orders combination bases for the bot: lower rank wins.
var priorityRank = map[string]int{
	"defi":      0,
	"yam":       1,
	"sec":       2,
	"moinshuit": 3,
	"carre":     4,
	"full":      5,
	"suite":     6,
	"brelan":    7,
}

// Rank returns the bot priority of an id; unknown ids sort last.
func Rank(id ID) int {
	if rank, ok := priorityRank[id.Base()]; ok {
		return rank
	}
	return len(priorityRank)
}

// Less orders two ids by bot priority, breaking ties on the numeric
// discriminant (lower face first).
func Less(a, b ID) bool {
	ra, rb := Rank(a), Rank(b)
	if ra != rb {
		return ra < rb
	}
	return a.Discriminant() < b.Discriminant()
}
