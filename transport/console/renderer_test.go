package console

import (
	"bytes"
	"regexp"
	"strings"
	"testing"

	"github.com/wricardo/quoridor/game/engine"
)

var ansi = regexp.MustCompile(`\x1b\[[0-9;]*m`)

func plain(s string) []string {
	return strings.Split(ansi.ReplaceAllString(s, ""), "\n")
}

func newTestGame(t *testing.T) *engine.Game {
	t.Helper()
	config := &engine.GameConfig{
		Name:   "Render Test",
		Width:  5,
		Height: 5,
		Teams: []engine.TeamConfig{
			{Name: "Red", Players: []string{"alice"}},
			{Name: "Green", Players: []string{"bob"}},
		},
	}
	g, err := engine.NewGame(config, engine.WithFirstTeam(0))
	if err != nil {
		t.Fatalf("Failed to create game: %v", err)
	}
	return g
}

func TestRenderer_EmptyBoard(t *testing.T) {
	g := newTestGame(t)
	r := NewRenderer(&bytes.Buffer{}, []string{"Red", "Green"})

	lines := plain(r.Board(g.View(), nil))
	want := []string{
		"+---+---+---+---+---+",
		"| 1   2   3   4   5 |",
		"+   +   +   +   +   +",
		"| 6   7   8   9  10 |",
	}
	for i, line := range want {
		if lines[i] != line {
			t.Errorf("Line %d: expected %q, got %q", i, line, lines[i])
		}
	}
	if lines[10] != "+---+---+---+---+---+" {
		t.Errorf("Expected the bottom border, got %q", lines[10])
	}
}

func TestRenderer_Walls(t *testing.T) {
	g := newTestGame(t)
	b := g.Board()
	b.Draw(b.Edge(2, 2, engine.North))
	b.Draw(b.Edge(2, 3, engine.North))
	b.Draw(b.Edge(0, 0, engine.East))
	b.Draw(b.Edge(1, 0, engine.East))

	r := NewRenderer(&bytes.Buffer{}, []string{"Red", "Green"})
	lines := plain(r.Board(g.View(), []int{18, 22, 24}))

	if lines[1] != "| 1 | 2   3   4   5 |" {
		t.Errorf("Expected a vertical wall after tile 1, got %q", lines[1])
	}
	if lines[3] != "| 6 | 7   8   9  10 |" {
		t.Errorf("Expected a vertical wall after tile 6, got %q", lines[3])
	}
	if lines[4] != "+   +   +---+---+   +" {
		t.Errorf("Expected a horizontal wall above tiles 13 and 14, got %q", lines[4])
	}
}

func TestRenderer_LegendAndMessages(t *testing.T) {
	g := newTestGame(t)
	var out bytes.Buffer
	r := NewRenderer(&out, []string{"Red", "Green"})

	r.Render(g.View(), nil)
	r.Message("Wall has been placed!")

	text := ansi.ReplaceAllString(out.String(), "")
	if !strings.Contains(text, "Red  on tile 23") || !strings.Contains(text, "Green  on tile 3") {
		t.Errorf("Expected a legend with both pawns, got %q", text)
	}
	if !strings.Contains(text, "Wall has been placed!") {
		t.Errorf("Expected the message, got %q", text)
	}
}

func TestRenderer_WithPlay(t *testing.T) {
	g := newTestGame(t)
	var out bytes.Buffer
	input := strings.NewReader("move\n18\nmove\n4\nmove\n13\nmove\n5\nmove\n8\nmove\n4\nmove\n3\n")

	winner, err := engine.Play(g, NewPrompter(input, &out), NewRenderer(&out, []string{"Red", "Green"}))
	if err != nil {
		t.Fatalf("Play failed: %v", err)
	}
	if winner.Name != "Red" {
		t.Errorf("Expected Red to win, got %s", winner.Name)
	}
	if !strings.Contains(out.String(), "Congratulations team Red, you have won!") {
		t.Error("Expected the victory message in the output")
	}
}
