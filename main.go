// Command quoridor plays Quoridor on the console.
//
// Commands:
//  1. "play" (default) runs a game over stdin/stdout with the chosen preset
//  2. "presets" lists the rule presets found in the configs directory and
//     "presets copy" saves one under a new name
//  3. "show" prints a preset's board with start tiles, goals and path lengths
//  4. "replay" applies a file of moves and walls and prints the final board
//
// Settings come from an optional settings file, QUORIDOR_* environment
// variables (a .env file is loaded first) and the global flags.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"github.com/wricardo/quoridor/game/config"
	"github.com/wricardo/quoridor/game/engine"
	"github.com/wricardo/quoridor/game/service"
	"github.com/wricardo/quoridor/game/session"
	"github.com/wricardo/quoridor/internal/logs"
	"github.com/wricardo/quoridor/internal/settings"
	"github.com/wricardo/quoridor/transport/console"
)

// Version information
const (
	Version = "1.0.0"
	AppName = "quoridor"
)

// app holds everything the commands share. It is filled by setup before any
// command runs.
type app struct {
	settings settings.Settings
	loader   *settings.Loader
	logger   *zap.Logger
	presets  *config.Manager
	sessions *session.Manager
	registry *prometheus.Registry
	service  service.GameService

	in  io.Reader
	out io.Writer
}

// main loads .env, then runs the CLI.
func main() {
	// Load .env file if it exists (ignore error if not found)
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "Warning: Error loading .env file: %v\n", err)
	}

	a := &app{in: os.Stdin, out: os.Stdout}
	if err := a.command().Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func (a *app) command() *cli.Command {
	return &cli.Command{
		Name:    AppName,
		Usage:   "play Quoridor on an edge grid with 2 to 4 teams",
		Version: Version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "settings",
				Aliases: []string{"s"},
				Usage:   "settings file (yaml, json or toml)",
				Sources: cli.EnvVars("QUORIDOR_SETTINGS"),
			},
			&cli.StringFlag{
				Name:  "configs-dir",
				Usage: "directory containing rule presets",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "debug, info, warn or error",
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			return ctx, a.setup(cmd)
		},
		After: func(ctx context.Context, cmd *cli.Command) error {
			_ = logs.Sync()
			return nil
		},
		DefaultCommand: "play",
		Commands: []*cli.Command{
			{
				Name:      "play",
				Usage:     "play a game in the terminal",
				ArgsUsage: "[preset]",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "stats", Usage: "print team statistics after each game"},
				},
				Action: a.play,
			},
			{
				Name:   "presets",
				Usage:  "list the available rule presets",
				Action: a.listPresets,
				Commands: []*cli.Command{
					{
						Name:      "copy",
						Usage:     "save a copy of a preset under a new name",
						ArgsUsage: "<source> <name>",
						Action:    a.copyPreset,
					},
				},
			},
			{
				Name:      "replay",
				Usage:     "apply a file of moves and walls to a new game and print the result",
				ArgsUsage: "<preset> <file|->",
				Action:    a.replay,
			},
			{
				Name:      "show",
				Usage:     "print a preset's starting board",
				ArgsUsage: "[preset]",
				Action:    a.show,
			},
		},
	}
}

// setup wires settings, logging, presets, sessions and the game service.
func (a *app) setup(cmd *cli.Command) error {
	loader, err := settings.Load(cmd.String("settings"))
	if err != nil {
		return err
	}
	a.loader = loader
	a.settings = loader.Settings()
	if dir := cmd.String("configs-dir"); dir != "" {
		a.settings.ConfigsDir = dir
	}
	if level := cmd.String("log-level"); level != "" {
		a.settings.Log.Level = level
	}

	a.logger = logs.Init(AppName, a.settings.Log)
	a.logger.Debug("starting", zap.String("version", Version), zap.String("configs_dir", a.settings.ConfigsDir))

	a.presets, err = config.NewManager(a.settings.ConfigsDir, a.logger.Named("presets"))
	if err != nil {
		return fmt.Errorf("failed to create config manager: %w", err)
	}
	if a.settings.DefaultPreset != "" {
		if err := a.presets.SetDefault(a.settings.DefaultPreset); err != nil {
			a.logger.Warn("default preset unavailable", zap.String("preset", a.settings.DefaultPreset), zap.Error(err))
		}
	}

	a.sessions = session.NewManager(a.logger.Named("sessions"))
	a.registry = prometheus.NewRegistry()
	a.service = service.NewGameService(a.sessions, a.presets, a.logger.Named("service"), service.NewMetrics(a.registry),
		engine.WithFirstTeam(a.settings.FirstTeam))

	loader.Watch(func(s settings.Settings, err error) {
		if err != nil {
			a.logger.Warn("settings reload rejected", zap.Error(err))
			return
		}
		if err := logs.SetLevel(s.Log.Level); err != nil {
			a.logger.Warn("settings reload", zap.Error(err))
			return
		}
		a.logger.Info("settings reloaded", zap.String("log_level", s.Log.Level))
	})
	return nil
}

// play runs games on one session until the players stop. Each new game
// resets the session; the session is deleted on the way out.
func (a *app) play(ctx context.Context, cmd *cli.Command) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if a.settings.WatchPresets {
		go func() {
			if err := a.presets.Watch(ctx, nil); err != nil {
				a.logger.Warn("preset watcher stopped", zap.Error(err))
			}
		}()
	}
	if a.settings.SessionTTL > 0 {
		if _, err := a.service.CleanupExpiredSessions(ctx, a.settings.SessionTTL); err != nil {
			return err
		}
	}

	info, err := a.service.CreateSession(ctx, cmd.Args().First())
	if err != nil {
		return err
	}
	defer func() {
		if err := a.service.DeleteSession(context.Background(), info.ID); err != nil {
			a.logger.Warn("failed to delete session", zap.String("session", info.ID), zap.Error(err))
		}
	}()

	prompter := console.NewPrompter(a.in, a.out)
	renderer := console.NewRenderer(a.out, teamNames(info.GameConfig))
	stats := cmd.Bool("stats") || a.settings.ShowStats
	for {
		_, err := a.service.Play(ctx, info.ID, prompter, renderer)
		if errors.Is(err, console.ErrQuit) {
			fmt.Fprintln(a.out, "You've decided to quit, goodbye!")
			return a.writeMetrics()
		}
		if err != nil {
			return err
		}
		if stats {
			if err := a.printStats(ctx, info.ID); err != nil {
				return err
			}
		}

		again, err := prompter.Confirm("Would you like to play another game?")
		if err != nil && !errors.Is(err, console.ErrQuit) && !errors.Is(err, io.EOF) {
			return err
		}
		if !again {
			fmt.Fprintln(a.out, "Closing Quoridor. Goodbye!")
			return a.writeMetrics()
		}
		if _, err := a.service.Reset(ctx, info.ID); err != nil {
			return err
		}
	}
}

func teamNames(cfg *engine.GameConfig) []string {
	names := make([]string, len(cfg.Teams))
	for i, t := range cfg.Teams {
		names[i] = t.Name
	}
	return names
}

// printStats shows the end-of-game counters per team and the closing moves.
func (a *app) printStats(ctx context.Context, sessionID string) error {
	info, err := a.service.GetSession(ctx, sessionID)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Before you go, here are some interesting statistics for each team:")
	for _, team := range info.GameState.Teams {
		fmt.Fprintf(a.out, "Team: %s\n -Pawn moves: %d\n -Walls placed: %d\n -Walls left: %d\n",
			team.Name, team.OffensiveMoves, team.DefensiveMoves, team.WallsRemaining)
	}

	history, err := a.service.GetMoveHistory(ctx, sessionID, service.HistoryOptions{Limit: 5})
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Last %d of %d moves:\n", len(history.Moves), history.TotalMoves)
	for _, entry := range history.Moves {
		fmt.Fprintln(a.out, " "+describeEntry(entry, info.GameState))
	}
	return nil
}

// writeMetrics dumps the counters in the Prometheus text format when a
// metrics file is configured.
func (a *app) writeMetrics() error {
	if a.settings.MetricsFile == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(a.settings.MetricsFile, a.registry); err != nil {
		return fmt.Errorf("failed to write metrics: %w", err)
	}
	a.logger.Info("metrics written", zap.String("file", a.settings.MetricsFile))
	return nil
}

func (a *app) listPresets(ctx context.Context, cmd *cli.Command) error {
	presets, err := a.service.ListConfigs(ctx)
	if err != nil {
		return err
	}
	if len(presets) == 0 {
		fmt.Fprintf(a.out, "No presets in %s\n", a.settings.ConfigsDir)
		return nil
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("PRESET", "NAME", "BOARD", "TEAMS", "PLAYERS", "WALLS")
	for _, p := range presets {
		t.Row(p.ConfigID, p.Name,
			fmt.Sprintf("%dx%d", p.Width, p.Height),
			strconv.Itoa(p.Teams),
			strconv.Itoa(p.PlayersPerTeam),
			strconv.Itoa(p.WallsPerTeam))
	}
	fmt.Fprintln(a.out, t.Render())
	return nil
}

func (a *app) copyPreset(ctx context.Context, cmd *cli.Command) error {
	src, name := cmd.Args().Get(0), cmd.Args().Get(1)
	if src == "" || name == "" {
		return errors.New("usage: presets copy <source> <name>")
	}
	cfg, err := a.service.LoadConfig(ctx, src)
	if err != nil {
		return err
	}
	cfg.Name = name
	cfg.Description = fmt.Sprintf("Copy of %s", src)
	if err := a.service.SaveConfig(ctx, name, cfg); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Saved %s as %s\n", src, name)
	return nil
}

func (a *app) show(ctx context.Context, cmd *cli.Command) error {
	var cfg *engine.GameConfig
	if name := cmd.Args().First(); name != "" {
		c, err := a.service.LoadConfig(ctx, name)
		if err != nil {
			return err
		}
		cfg = c
	} else {
		cfg = a.presets.GetDefault()
	}

	game, err := engine.NewGame(cfg, engine.WithFirstTeam(0), engine.WithLogger(a.logger.Named("engine")))
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "%s (%dx%d): %s\n", cfg.Name, cfg.Width, cfg.Height, cfg.Description)
	console.NewRenderer(a.out, teamNames(cfg)).Render(game.View(), nil)
	for _, team := range game.State().Teams {
		fmt.Fprintf(a.out, "%s: start %d, goal %s, %d steps, %d walls\n",
			team.Name, team.Pawn, team.Goal, team.PathLength, team.WallsRemaining)
	}
	return nil
}
