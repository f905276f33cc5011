// Package dice implements the five-die hand used by a Yam Master turn.
//
// A Deck tracks the dice values, the per-die lock flags, and the roll
// budget for the current turn. Rolling re-samples unlocked dice only;
// locked dice keep their value. The deck is a plain value owned by the
// game state and performs no I/O.
package dice

import (
	"errors"
	"math/rand"
)

// HandSize is the number of dice in a deck. Every deck has exactly five
// dice at all times.
const HandSize = 5

// Faces is the number of faces on a die.
const Faces = 6

var ErrUnknownDie = errors.New("unknown die id")

// Die is a single die. An unrolled die has Value 0.
type Die struct {
	ID     int  `json:"id"`
	Value  int  `json:"value"`
	Locked bool `json:"locked"`
}

// Deck is the hand of dice for one turn.
type Deck struct {
	Dice      []Die `json:"dices"`
	RollsUsed int   `json:"rollsCounter"`
	RollsMax  int   `json:"rollsMaximum"`
}

// New returns a fresh unrolled deck with all dice unlocked. A new deck
// is created at the start of every turn.
func New(rollsMax int) Deck {
	d := Deck{
		Dice:     make([]Die, HandSize),
		RollsMax: rollsMax,
	}
	for i := range d.Dice {
		d.Dice[i] = Die{ID: i + 1}
	}
	return d
}

// Roll re-samples every unlocked die to a uniform value in [1,6].
// Locked dice retain their value.
func (d *Deck) Roll(rng *rand.Rand) {
	for i := range d.Dice {
		if d.Dice[i].Locked {
			continue
		}
		d.Dice[i].Value = rng.Intn(Faces) + 1
	}
}

// ToggleLock flips the lock flag of the die identified by id.
func (d *Deck) ToggleLock(id int) error {
	for i := range d.Dice {
		if d.Dice[i].ID == id {
			d.Dice[i].Locked = !d.Dice[i].Locked
			return nil
		}
	}
	return ErrUnknownDie
}

// LockAll freezes the whole hand. Used after the final allowed roll and
// when the bot commits to a combination.
func (d *Deck) LockAll() {
	for i := range d.Dice {
		d.Dice[i].Locked = true
	}
}

// LockValue locks every die currently showing the given face value.
func (d *Deck) LockValue(value int) {
	for i := range d.Dice {
		if d.Dice[i].Value == value {
			d.Dice[i].Locked = true
		}
	}
}

// Values returns the five face values in die order.
func (d *Deck) Values() []int {
	values := make([]int, len(d.Dice))
	for i, die := range d.Dice {
		values[i] = die.Value
	}
	return values
}
