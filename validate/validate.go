// Command validate provides a small CLI that validates rule preset JSON
// files in the ../configs directory. It checks:
//   - JSON structure and the roster rules the engine enforces
//   - Message templates carry the placeholders the engine fills in
//   - Every team starts on its own tile with a path to its goal line
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/wricardo/quoridor/game/engine"
)

// ValidationResult captures the outcome of validating a single file.
// If Valid is true, Errors contains informational messages; otherwise it
// accumulates the validation errors that were found.
type ValidationResult struct {
	File   string
	Valid  bool
	Errors []string
}

// placeholders lists the verbs each message template must contain, in order.
var placeholders = map[string][]string{
	"first_team":   {"%s"},
	"turn":         {"%s", "%s"},
	"out_of_walls": {"%s"},
	"pawn_moved":   {"%d"},
	"victory":      {"%s"},
}

// validateConfig loads and validates a single preset file.
func validateConfig(filePath string) ValidationResult {
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

	var config engine.GameConfig
	if err := json.Unmarshal(data, &config); err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf("Invalid JSON: %v", err))
		return result
	}

	if err := engine.ValidateGameConfig(&config); err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, strings.TrimPrefix(err.Error(), "config validation: "))
		return result
	}

	for _, msg := range validateMessages(config.Messages) {
		result.Valid = false
		result.Errors = append(result.Errors, msg)
	}

	// Connectivity validation - every team must reach its goal from its start
	if result.Valid {
		reachability := validateStarts(&config)
		if !reachability.Valid {
			result.Valid = false
		}
		result.Errors = append(result.Errors, reachability.Errors...)
	}

	// Add informational data
	if result.Valid {
		perTeam := len(config.Teams[0].Players)
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Name: %s", config.Name))
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Board: %dx%d", config.Height, config.Width))
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Teams: %d of %d players", len(config.Teams), perTeam))
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Walls per team: %d", config.WallsFor()))
	}

	return result
}

// validateMessages checks the placeholders of every non-empty template.
// Empty templates fall back to the built-in texts and are always fine.
func validateMessages(m engine.Messages) []string {
	templates := map[string]string{
		"first_team":   m.FirstTeam,
		"turn":         m.Turn,
		"out_of_walls": m.OutOfWalls,
		"pawn_moved":   m.PawnMoved,
		"victory":      m.Victory,
	}

	var errs []string
	for _, key := range []string{"first_team", "turn", "out_of_walls", "pawn_moved", "victory"} {
		text := templates[key]
		if text == "" {
			continue
		}
		if got := verbs(text); strings.Join(got, "") != strings.Join(placeholders[key], "") {
			errs = append(errs, fmt.Sprintf("Message %s must contain %v, got %v", key, placeholders[key], got))
		}
	}
	return errs
}

// verbs returns the formatting verbs of a template, ignoring %%.
func verbs(text string) []string {
	var out []string
	for i := 0; i < len(text)-1; i++ {
		if text[i] != '%' {
			continue
		}
		if text[i+1] != '%' {
			out = append(out, text[i:i+2])
		}
		i++
	}
	return out
}

// validateStarts places every team on its start tile and ensures the tiles
// are distinct and each one has a path to the team's goal line on an empty
// board.
func validateStarts(config *engine.GameConfig) ValidationResult {
	result := ValidationResult{
		Valid:  true,
		Errors: []string{},
	}

	board := engine.NewBoard(config.Height, config.Width)
	taken := make(map[int]string)
	for i, team := range config.Teams {
		start := engine.StartCell(i, config.Height, config.Width)
		if other, ok := taken[start]; ok {
			result.Valid = false
			result.Errors = append(result.Errors, fmt.Sprintf("Teams %s and %s share start tile %d", other, team.Name, start))
		}
		taken[start] = team.Name

		if !board.CanReach(start, engine.GoalFor(i, config.Height, config.Width)) {
			result.Valid = false
			result.Errors = append(result.Errors, fmt.Sprintf("Team %s cannot reach its goal from tile %d", team.Name, start))
		}
	}

	if result.Valid {
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Connectivity: All %d teams can reach their goal", len(config.Teams)))
	}
	return result
}

// main scans ../configs for *.json files and validates each one, printing a
// concise report and exiting with non-zero status if any are invalid.
func main() {
	configDir := "../configs"
	files, err := filepath.Glob(filepath.Join(configDir, "*.json"))
	if err != nil {
		fmt.Printf("Error finding config files: %v\n", err)
		os.Exit(1)
	}

	allValid := true
	for _, file := range files {
		result := validateConfig(file)

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
		fmt.Println("✅ All configurations are valid!")
	} else {
		fmt.Println("❌ Some configurations have errors")
		os.Exit(1)
	}
}
