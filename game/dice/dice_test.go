package dice

import (
	"math/rand"
	"testing"
)

func TestNewDeck(t *testing.T) {
	d := New(3)

	if len(d.Dice) != HandSize {
		t.Fatalf("expected %d dice, got %d", HandSize, len(d.Dice))
	}
	if d.RollsUsed != 0 {
		t.Errorf("fresh deck should have 0 rolls used, got %d", d.RollsUsed)
	}
	if d.RollsMax != 3 {
		t.Errorf("expected rolls max 3, got %d", d.RollsMax)
	}
	for _, die := range d.Dice {
		if die.Locked {
			t.Errorf("die %d should start unlocked", die.ID)
		}
		if die.Value != 0 {
			t.Errorf("die %d should start unrolled, got value %d", die.ID, die.Value)
		}
	}
}

func TestRollValuesInRange(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	d := New(3)

	for i := 0; i < 100; i++ {
		d.Roll(rng)
		for _, die := range d.Dice {
			if die.Value < 1 || die.Value > 6 {
				t.Fatalf("die %d rolled out of range value %d", die.ID, die.Value)
			}
		}
	}
}

func TestRollKeepsLockedDice(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	d := New(3)
	d.Roll(rng)

	if err := d.ToggleLock(2); err != nil {
		t.Fatalf("ToggleLock: %v", err)
	}
	if err := d.ToggleLock(5); err != nil {
		t.Fatalf("ToggleLock: %v", err)
	}

	before := d.Values()
	for i := 0; i < 50; i++ {
		d.Roll(rng)
		if d.Dice[1].Value != before[1] {
			t.Fatalf("locked die 2 changed value from %d to %d", before[1], d.Dice[1].Value)
		}
		if d.Dice[4].Value != before[4] {
			t.Fatalf("locked die 5 changed value from %d to %d", before[4], d.Dice[4].Value)
		}
	}
}

func TestToggleLockUnknownDie(t *testing.T) {
	d := New(3)

	if err := d.ToggleLock(42); err != ErrUnknownDie {
		t.Errorf("expected ErrUnknownDie, got %v", err)
	}
	for _, die := range d.Dice {
		if die.Locked {
			t.Errorf("no die should be locked after a failed toggle")
		}
	}
}

func TestToggleLockFlips(t *testing.T) {
	d := New(3)

	d.ToggleLock(3)
	if !d.Dice[2].Locked {
		t.Fatal("die 3 should be locked")
	}
	d.ToggleLock(3)
	if d.Dice[2].Locked {
		t.Fatal("die 3 should be unlocked after second toggle")
	}
}

func TestLockAll(t *testing.T) {
	d := New(3)
	d.LockAll()

	for _, die := range d.Dice {
		if !die.Locked {
			t.Errorf("die %d should be locked", die.ID)
		}
	}
}

func TestLockValue(t *testing.T) {
	d := New(3)
	values := []int{3, 5, 3, 1, 3}
	for i := range d.Dice {
		d.Dice[i].Value = values[i]
	}

	d.LockValue(3)

	for i, die := range d.Dice {
		wantLocked := values[i] == 3
		if die.Locked != wantLocked {
			t.Errorf("die %d locked=%v, want %v", die.ID, die.Locked, wantLocked)
		}
	}
}
