// Command validate provides a small CLI that validates game settings JSON
// files in the ../configs directory. It checks:
//   - JSON structure and field types
//   - Positive durations and roll budget
//   - That the bot turn and the final-roll grace fit inside a turn
//   - That the file name matches the settings name
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Settings mirrors the JSON schema for a game settings file.
type Settings struct {
	Name                   string `json:"name"`
	TurnDurationSeconds    int    `json:"turn_duration_seconds"`
	BotTurnDurationSeconds int    `json:"bot_turn_duration_seconds"`
	FinalRollGraceSeconds  int    `json:"final_roll_grace_seconds"`
	BroadcastDebounceMS    int    `json:"broadcast_debounce_ms"`
	RollsPerTurn           int    `json:"rolls_per_turn"`
}

// ValidationResult captures the outcome of validating a single file.
// If Valid is true, Errors contains informational messages; otherwise it
// accumulates the validation errors that were found.
type ValidationResult struct {
	File   string
	Valid  bool
	Errors []string
}

// validateSettings loads and validates a single settings JSON file.
func validateSettings(filePath string) ValidationResult {
	result := ValidationResult{
		File:   filepath.Base(filePath),
		Valid:  true,
		Errors: []string{},
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf("Failed to read file: %v", err))
		return result
	}

	var settings Settings
	decoder := json.NewDecoder(strings.NewReader(string(data)))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&settings); err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf("Invalid JSON: %v", err))
		return result
	}

	if settings.Name == "" {
		result.Valid = false
		result.Errors = append(result.Errors, "name must not be empty")
	} else {
		expected := settings.Name + ".json"
		if result.File != expected {
			result.Valid = false
			result.Errors = append(result.Errors, fmt.Sprintf("File name %s does not match settings name %q", result.File, settings.Name))
		}
	}

	if settings.TurnDurationSeconds <= 0 {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf("turn_duration_seconds must be positive, got %d", settings.TurnDurationSeconds))
	}

	if settings.BotTurnDurationSeconds <= 0 {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf("bot_turn_duration_seconds must be positive, got %d", settings.BotTurnDurationSeconds))
	} else if settings.BotTurnDurationSeconds > settings.TurnDurationSeconds {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf("bot_turn_duration_seconds (%d) cannot exceed turn_duration_seconds (%d)", settings.BotTurnDurationSeconds, settings.TurnDurationSeconds))
	}

	if settings.FinalRollGraceSeconds <= 0 {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf("final_roll_grace_seconds must be positive, got %d", settings.FinalRollGraceSeconds))
	} else if settings.FinalRollGraceSeconds > settings.TurnDurationSeconds {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf("final_roll_grace_seconds (%d) cannot exceed turn_duration_seconds (%d)", settings.FinalRollGraceSeconds, settings.TurnDurationSeconds))
	}

	if settings.BroadcastDebounceMS < 0 {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf("broadcast_debounce_ms must not be negative, got %d", settings.BroadcastDebounceMS))
	} else if settings.BroadcastDebounceMS >= 1000 {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf("broadcast_debounce_ms (%d) must stay under the one second timer tick", settings.BroadcastDebounceMS))
	}

	if settings.RollsPerTurn <= 0 {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf("rolls_per_turn must be positive, got %d", settings.RollsPerTurn))
	}

	// Add informational data
	if result.Valid {
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Name: %s", settings.Name))
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Turn: %ds (bot %ds, grace %ds)", settings.TurnDurationSeconds, settings.BotTurnDurationSeconds, settings.FinalRollGraceSeconds))
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Debounce: %dms", settings.BroadcastDebounceMS))
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Rolls per turn: %d", settings.RollsPerTurn))
	}

	return result
}

// main scans ../configs for *.json files and validates each one, printing a
// concise report and exiting with non-zero status if any are invalid.
func main() {
	configDir := "../configs"
	files, err := filepath.Glob(filepath.Join(configDir, "*.json"))
	if err != nil {
		fmt.Printf("Error finding settings files: %v\n", err)
		os.Exit(1)
	}

	allValid := true
	for _, file := range files {
		result := validateSettings(file)

		fmt.Printf("\n%s %s\n", strings.Repeat("=", 20), result.File)

		if result.Valid {
			fmt.Println("✅ VALID")
			for _, info := range result.Errors {
				fmt.Println("  " + info)
			}
		} else {
			fmt.Println("❌ INVALID")
			allValid = false
			for _, err := range result.Errors {
				if !strings.HasPrefix(err, "✓") {
					fmt.Println("  ❌ " + err)
				}
			}
		}
	}

	fmt.Printf("\n%s\n", strings.Repeat("=", 40))
	if allValid {
		fmt.Println("✅ All settings files are valid!")
	} else {
		fmt.Println("❌ Some settings files have errors")
		os.Exit(1)
	}
}
