// Package config holds the tunable game settings and the server
// environment configuration. Game settings live in JSON files under a
// config directory and are cached after first load; the server
// configuration is read from the environment.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/caarlos0/env/v11"
)

var (
	ErrSettingsNotFound = errors.New("settings not found")
	ErrInvalidSettings  = errors.New("invalid settings")
)

// Settings are the pacing and budget constants of a match. None of them
// change game rules; they tune durations and the view debounce.
type Settings struct {
	Name                   string `json:"name"`
	TurnDurationSeconds    int    `json:"turn_duration_seconds"`
	BotTurnDurationSeconds int    `json:"bot_turn_duration_seconds"`
	FinalRollGraceSeconds  int    `json:"final_roll_grace_seconds"`
	BroadcastDebounceMS    int    `json:"broadcast_debounce_ms"`
	RollsPerTurn           int    `json:"rolls_per_turn"`
}

// Default returns the stock settings, matching the original game pacing.
func Default() *Settings {
	return &Settings{
		Name:                   "default",
		TurnDurationSeconds:    60,
		BotTurnDurationSeconds: 4,
		FinalRollGraceSeconds:  5,
		BroadcastDebounceMS:    200,
		RollsPerTurn:           3,
	}
}

// Validate checks that every duration and budget is positive.
func (s *Settings) Validate() error {
	if s.TurnDurationSeconds <= 0 {
		return fmt.Errorf("%w: turn_duration_seconds must be positive", ErrInvalidSettings)
	}
	if s.BotTurnDurationSeconds <= 0 {
		return fmt.Errorf("%w: bot_turn_duration_seconds must be positive", ErrInvalidSettings)
	}
	if s.FinalRollGraceSeconds <= 0 {
		return fmt.Errorf("%w: final_roll_grace_seconds must be positive", ErrInvalidSettings)
	}
	if s.BroadcastDebounceMS < 0 {
		return fmt.Errorf("%w: broadcast_debounce_ms must not be negative", ErrInvalidSettings)
	}
	if s.RollsPerTurn <= 0 {
		return fmt.Errorf("%w: rolls_per_turn must be positive", ErrInvalidSettings)
	}
	return nil
}

// Debounce returns the view push debounce as a duration.
func (s *Settings) Debounce() time.Duration {
	return time.Duration(s.BroadcastDebounceMS) * time.Millisecond
}

// Manager loads and caches settings files from a directory.
type Manager struct {
	dir   string
	cache map[string]*Settings
	mu    sync.RWMutex
}

// NewManager creates a settings manager rooted at dir. The directory is
// optional; a missing directory simply means every lookup falls back to
// the defaults.
func NewManager(dir string) *Manager {
	return &Manager{
		dir:   dir,
		cache: make(map[string]*Settings),
	}
}

// Load returns the named settings, reading <dir>/<name>.json on first
// use. An empty name or a missing default file returns the stock
// defaults.
func (m *Manager) Load(name string) (*Settings, error) {
	if name == "" {
		name = "default"
	}

	m.mu.RLock()
	if s, ok := m.cache[name]; ok {
		m.mu.RUnlock()
		return s, nil
	}
	m.mu.RUnlock()

	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.cache[name]; ok {
		return s, nil
	}

	filename := name
	if !strings.HasSuffix(filename, ".json") {
		filename += ".json"
	}

	data, err := os.ReadFile(filepath.Join(m.dir, filename))
	if err != nil {
		if os.IsNotExist(err) {
			if name == "default" {
				s := Default()
				m.cache[name] = s
				return s, nil
			}
			return nil, ErrSettingsNotFound
		}
		return nil, fmt.Errorf("failed to read settings file: %w", err)
	}

	s := Default()
	if err := json.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSettings, err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}

	m.cache[name] = s
	return s, nil
}

// Server is the process-level configuration, read from the environment
// (a .env file is honored when present).
type Server struct {
	Host       string `env:"HOST" envDefault:"localhost"`
	Port       int    `env:"PORT" envDefault:"3000"`
	ConfigDir  string `env:"CONFIG_DIR" envDefault:"configs"`
	Debug      bool   `env:"DEBUG"`
	NgrokOn    bool   `env:"NGROK_ENABLED"`
	NgrokAuth  string `env:"NGROK_AUTHTOKEN"`
	NgrokHost  string `env:"NGROK_DOMAIN"`
}

// LoadServer parses the server configuration from the environment.
func LoadServer() (*Server, error) {
	cfg := &Server{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse server environment: %w", err)
	}
	return cfg, nil
}
