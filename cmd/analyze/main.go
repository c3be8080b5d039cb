// Command analyze prints quick, human-readable facts about the rule presets
// in the project's configs directory: board size, roster, walls per team and,
// for every team, its start tile, goal line and shortest path on an empty
// board. It flags presets where two pawns share a start tile or where the
// walls in play could not all fit on the board.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/wricardo/quoridor/game/engine"
)

// TeamAnalysis describes one team's starting position.
type TeamAnalysis struct {
	Name       string
	Players    int
	Start      int
	Goal       engine.Goal
	PathLength int
}

// Analysis is the result for a single preset.
type Analysis struct {
	Name         string
	Width        int
	Height       int
	WallsPerTeam int
	Teams        []TeamAnalysis
	Warnings     []string
}

func main() {
	dir := "configs"
	if len(os.Args) > 1 {
		dir = os.Args[1]
	}

	files, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		fmt.Printf("Error finding config files: %v\n", err)
		os.Exit(1)
	}
	sort.Strings(files)

	for _, file := range files {
		fmt.Printf("\n=== Analyzing %s ===\n", filepath.Base(file))
		a, err := analyzeConfig(file)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			continue
		}
		printAnalysis(a)
	}
}

func analyzeConfig(path string) (*Analysis, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading file: %w", err)
	}

	var config engine.GameConfig
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("parsing JSON: %w", err)
	}
	if err := engine.ValidateGameConfig(&config); err != nil {
		return nil, err
	}
	return analyze(&config), nil
}

// analyze computes the per-team facts of a valid config.
func analyze(config *engine.GameConfig) *Analysis {
	a := &Analysis{
		Name:         config.Name,
		Width:        config.Width,
		Height:       config.Height,
		WallsPerTeam: config.WallsFor(),
	}

	board := engine.NewBoard(config.Height, config.Width)
	starts := make(map[int]string)
	for i, team := range config.Teams {
		start := engine.StartCell(i, config.Height, config.Width)
		goal := engine.GoalFor(i, config.Height, config.Width)
		length, ok := board.PathLength(start, goal)
		if !ok {
			a.Warnings = append(a.Warnings, fmt.Sprintf("team %s cannot reach its goal", team.Name))
		}
		if other, taken := starts[start]; taken {
			a.Warnings = append(a.Warnings, fmt.Sprintf("teams %s and %s share start tile %d", other, team.Name, start))
		}
		starts[start] = team.Name

		a.Teams = append(a.Teams, TeamAnalysis{
			Name:       team.Name,
			Players:    len(team.Players),
			Start:      start,
			Goal:       goal,
			PathLength: length,
		})
	}

	// Each wall covers two edges; only interior edges can hold one.
	interior := board.EdgeCount() - 2*(config.Width+config.Height)
	if walls := a.WallsPerTeam * len(config.Teams) * 2; walls > interior {
		a.Warnings = append(a.Warnings, fmt.Sprintf("%d walls need %d edges but the board has only %d interior edges",
			a.WallsPerTeam*len(config.Teams), walls, interior))
	}
	return a
}

func printAnalysis(a *Analysis) {
	fmt.Printf("Name: %s\n", a.Name)
	fmt.Printf("Board: %d x %d\n", a.Width, a.Height)
	fmt.Printf("Walls per team: %d\n", a.WallsPerTeam)
	for _, t := range a.Teams {
		fmt.Printf("Team %s (%d players): start %d, goal %s, %d steps\n", t.Name, t.Players, t.Start, t.Goal, t.PathLength)
	}

	if len(a.Warnings) == 0 {
		fmt.Printf("✅ Every team has a distinct start and a path to its goal\n")
		return
	}
	for _, w := range a.Warnings {
		fmt.Printf("⚠️  WARNING: %s\n", w)
	}
}
