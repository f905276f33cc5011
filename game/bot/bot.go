// Package bot implements the server-side opponent. The policy plays a
// complete turn with a simple lock heuristic and a fixed placement
// priority; it has no lookahead beyond the current turn.
package bot

import (
	"math/rand"
	"sort"

	"github.com/jmorel/yam-master-server/game/combo"
	"github.com/jmorel/yam-master-server/game/dice"
	"github.com/jmorel/yam-master-server/game/engine"
)

// PlayTurn plays the bot seat's whole turn against the given game: up to
// three rolls, then the highest-priority satisfied combination still
// open on the board. It returns the placement outcome, or nil when no
// combination could be placed and the turn is forfeited (the caller
// still rotates the turn).
//
// PlayTurn must run inside the session's serialized context; it takes no
// locks of its own.
func PlayTurn(g *engine.Game, rng *rand.Rand) *engine.TurnOutcome {
	return PlayTurnAs(g, engine.RolePlayer2, rng)
}

// PlayTurnAs runs the same policy for an arbitrary seat. Simulation
// tooling uses it to drive both sides of a match.
func PlayTurnAs(g *engine.Game, role engine.Role, rng *rand.Rand) *engine.TurnOutcome {
	st := g.State()

	if err := g.Roll(role); err != nil {
		return nil
	}

	// hold pairs and triples, reroll the rest; after the second roll also
	// hold quads for the final throw
	counts := combo.Count(st.Deck.Values())
	if !counts.IsMade() {
		lockGroups(&st.Deck, counts, 3)
		if err := g.Roll(role); err != nil {
			return nil
		}
		counts = combo.Count(st.Deck.Values())
		if !counts.IsMade() {
			lockGroups(&st.Deck, counts, 4)
			if err := g.Roll(role); err != nil {
				return nil
			}
		}
	}

	var candidates []combo.Combination
	for _, c := range st.Choices.Available {
		if len(st.Grid.UnownedCells(c.ID)) > 0 {
			candidates = append(candidates, c)
		}
	}
	if len(candidates) == 0 {
		return nil
	}

	sort.Slice(candidates, func(i, j int) bool {
		return combo.Less(candidates[i].ID, candidates[j].ID)
	})
	pick := candidates[0]

	st.Deck.LockAll()
	if err := g.SelectChoice(role, pick.ID); err != nil {
		return nil
	}

	cells := st.Grid.UnownedCells(pick.ID)
	cell := cells[rng.Intn(len(cells))]

	outcome, err := g.PlaceCell(role, pick.ID, cell.Row, cell.Col)
	if err != nil {
		return nil
	}
	return outcome
}

// lockGroups holds every die that belongs to a group of matching faces
// with a size between two and maxGroup.
func lockGroups(d *dice.Deck, counts combo.Counts, maxGroup int) {
	for face := 1; face <= 6; face++ {
		if counts[face] >= 2 && counts[face] <= maxGroup {
			d.LockValue(face)
		}
	}
}
