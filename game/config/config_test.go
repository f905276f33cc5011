package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultSettings(t *testing.T) {
	s := Default()

	if err := s.Validate(); err != nil {
		t.Fatalf("default settings should validate: %v", err)
	}
	if s.RollsPerTurn != 3 {
		t.Errorf("rolls per turn = %d, want 3", s.RollsPerTurn)
	}
	if s.Debounce() != 200*time.Millisecond {
		t.Errorf("debounce = %v, want 200ms", s.Debounce())
	}
}

func TestValidateRejectsBadDurations(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Settings)
	}{
		{"zero turn duration", func(s *Settings) { s.TurnDurationSeconds = 0 }},
		{"zero bot duration", func(s *Settings) { s.BotTurnDurationSeconds = 0 }},
		{"zero grace", func(s *Settings) { s.FinalRollGraceSeconds = 0 }},
		{"negative debounce", func(s *Settings) { s.BroadcastDebounceMS = -1 }},
		{"zero rolls", func(s *Settings) { s.RollsPerTurn = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Default()
			tt.mutate(s)
			if err := s.Validate(); err == nil {
				t.Error("expected a validation error")
			}
		})
	}
}

func TestManagerLoadsFile(t *testing.T) {
	dir := t.TempDir()
	data := `{"name":"fast","turn_duration_seconds":10,"bot_turn_duration_seconds":2,"final_roll_grace_seconds":3,"broadcast_debounce_ms":50,"rolls_per_turn":3}`
	if err := os.WriteFile(filepath.Join(dir, "fast.json"), []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	m := NewManager(dir)
	s, err := m.Load("fast")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if s.TurnDurationSeconds != 10 {
		t.Errorf("turn duration = %d, want 10", s.TurnDurationSeconds)
	}

	// second load hits the cache and returns the same instance
	again, err := m.Load("fast")
	if err != nil {
		t.Fatalf("Load (cached): %v", err)
	}
	if again != s {
		t.Error("expected the cached settings instance")
	}
}

func TestManagerDefaultFallback(t *testing.T) {
	m := NewManager(t.TempDir())

	s, err := m.Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if s.TurnDurationSeconds != Default().TurnDurationSeconds {
		t.Error("expected stock defaults when no file exists")
	}
}

func TestManagerUnknownSettings(t *testing.T) {
	m := NewManager(t.TempDir())

	if _, err := m.Load("nope"); err != ErrSettingsNotFound {
		t.Errorf("expected ErrSettingsNotFound, got %v", err)
	}
}

func TestManagerRejectsInvalidFile(t *testing.T) {
	dir := t.TempDir()
	data := `{"name":"broken","turn_duration_seconds":0}`
	if err := os.WriteFile(filepath.Join(dir, "broken.json"), []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := NewManager(dir).Load("broken"); err == nil {
		t.Error("expected an error for invalid settings")
	}
}
