package engine

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"
)

// TeamConfig names a team and its players in turn order.
type TeamConfig struct {
	Name    string   `json:"name"`
	Players []string `json:"players"`
}

// GameConfig represents the rules and roster of a game, loaded from JSON
type GameConfig struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Width       int    `json:"width"`
	Height      int    `json:"height"`

	// WallsPerTeam overrides the even split of TotalWalls when positive.
	WallsPerTeam int          `json:"walls_per_team,omitempty"`
	Teams        []TeamConfig `json:"teams"`
	Messages     Messages     `json:"messages"`
}

// Messages are the texts reported to players through the renderer.
type Messages struct {
	Welcome     string `json:"welcome"`
	FirstTeam   string `json:"first_team"`   // %s team name
	Turn        string `json:"turn"`         // %s player, %s team
	OutOfWalls  string `json:"out_of_walls"` // %s player
	WallPlaced  string `json:"wall_placed"`
	WallBlocked string `json:"wall_blocked"`
	PawnMoved   string `json:"pawn_moved"` // %d cell
	Victory     string `json:"victory"`    // %s team name
}

// DefaultMessages returns the texts used when a preset leaves them empty.
func DefaultMessages() Messages {
	return Messages{
		Welcome:     "Welcome to Quoridor! Reach the opposite side of the board before your opponents do.",
		FirstTeam:   "Team %s has won the draw and goes first!",
		Turn:        "Player %s of team %s, it is your turn!",
		OutOfWalls:  "Player %s, your team is out of walls, your only option is to move the pawn.",
		WallPlaced:  "Wall has been placed!",
		WallBlocked: "You cannot place a wall that blocks a pawn's path to its goal, please try again.",
		PawnMoved:   "Your pawn has successfully moved to tile: %d",
		Victory:     "Congratulations team %s, you have won!",
	}
}

// WithDefaults fills empty messages from DefaultMessages.
func (m Messages) WithDefaults() Messages {
	d := DefaultMessages()
	fill := func(v *string, def string) {
		if *v == "" {
			*v = def
		}
	}
	fill(&m.Welcome, d.Welcome)
	fill(&m.FirstTeam, d.FirstTeam)
	fill(&m.Turn, d.Turn)
	fill(&m.OutOfWalls, d.OutOfWalls)
	fill(&m.WallPlaced, d.WallPlaced)
	fill(&m.WallBlocked, d.WallBlocked)
	fill(&m.PawnMoved, d.PawnMoved)
	fill(&m.Victory, d.Victory)
	return m
}

// WallsFor returns the number of walls each team starts with.
func (c *GameConfig) WallsFor() int {
	if c.WallsPerTeam > 0 {
		return c.WallsPerTeam
	}
	if len(c.Teams) == 3 {
		return 7
	}
	if len(c.Teams) == 0 {
		return 0
	}
	return TotalWalls / len(c.Teams)
}

// ValidPlayerName reports whether name can identify a player. A name must
// not start with a digit so it is never confused with a cell number.
func ValidPlayerName(name string) bool {
	name = strings.TrimSpace(name)
	if name == "" {
		return false
	}
	return !unicode.IsDigit([]rune(name)[0])
}

// ValidateGameConfig validates a game configuration for correctness and playability
func ValidateGameConfig(config *GameConfig) error {
	if config == nil {
		return fmt.Errorf("config validation: config is nil")
	}
	if config.Name == "" {
		return fmt.Errorf("config validation: name is required")
	}

	if config.Width < MinBoardSize || config.Width > MaxBoardSize {
		return fmt.Errorf("config validation: width must be between %d and %d, got %d", MinBoardSize, MaxBoardSize, config.Width)
	}
	if config.Height < MinBoardSize || config.Height > MaxBoardSize {
		return fmt.Errorf("config validation: height must be between %d and %d, got %d", MinBoardSize, MaxBoardSize, config.Height)
	}

	if len(config.Teams) < MinTeams || len(config.Teams) > MaxTeams {
		return fmt.Errorf("config validation: teams must be between %d and %d, got %d", MinTeams, MaxTeams, len(config.Teams))
	}
	if config.WallsPerTeam < 0 {
		return fmt.Errorf("config validation: walls_per_team must not be negative, got %d", config.WallsPerTeam)
	}

	perTeam := len(config.Teams[0].Players)
	if perTeam < MinPlayersPerTeam || perTeam > MaxPlayersPerTeam {
		return fmt.Errorf("config validation: players per team must be between %d and %d, got %d", MinPlayersPerTeam, MaxPlayersPerTeam, perTeam)
	}

	names := make(map[string]bool)
	for i, team := range config.Teams {
		if team.Name == "" {
			return fmt.Errorf("config validation: team %d name is required", i+1)
		}
		if len([]rune(team.Name)) > MaxTeamNameLength {
			return fmt.Errorf("config validation: team %d name must be at most %d characters, got %q", i+1, MaxTeamNameLength, team.Name)
		}
		if names[team.Name] {
			return fmt.Errorf("config validation: duplicate team name %q", team.Name)
		}
		names[team.Name] = true
		if len(team.Players) != perTeam {
			return fmt.Errorf("config validation: every team must have %d players, team %q has %d", perTeam, team.Name, len(team.Players))
		}
		for _, p := range team.Players {
			if !ValidPlayerName(p) {
				return fmt.Errorf("config validation: invalid player name %q in team %q", p, team.Name)
			}
		}
	}

	return nil
}

// LoadGameConfig loads a game configuration from a JSON file
func LoadGameConfig(filename string) (*GameConfig, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}

	var config GameConfig
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file '%s': %w", filepath.Base(filename), err)
	}

	if err := ValidateGameConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid config '%s': %w", filepath.Base(filename), err)
	}

	return &config, nil
}

// DefaultGameConfig returns the classic two-player 9x9 game.
func DefaultGameConfig() *GameConfig {
	return &GameConfig{
		Name:        "classic",
		Description: "Two players on a 9x9 board with ten walls each",
		Width:       9,
		Height:      9,
		Teams: []TeamConfig{
			{Name: "Red", Players: []string{"Player1"}},
			{Name: "Green", Players: []string{"Player2"}},
		},
		Messages: DefaultMessages(),
	}
}

// Clone returns a deep copy of the configuration.
func (c *GameConfig) Clone() *GameConfig {
	out := *c
	out.Teams = make([]TeamConfig, len(c.Teams))
	for i, t := range c.Teams {
		out.Teams[i] = TeamConfig{Name: t.Name, Players: append([]string(nil), t.Players...)}
	}
	return &out
}
