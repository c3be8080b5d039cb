package console

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/wricardo/quoridor/game/engine"
)

// Team colours follow the team index: red, green, blue, yellow. Highlighted
// tiles are magenta.
var teamColors = [engine.MaxTeams]lipgloss.Color{"1", "2", "4", "3"}

const highlightColor = lipgloss.Color("5")

// Renderer implements engine.Renderer by drawing the board as text. Colours
// are only emitted when the writer is a terminal that supports them.
type Renderer struct {
	out       io.Writer
	teams     []string
	pawn      []lipgloss.Style
	highlight lipgloss.Style
	wall      lipgloss.Style
	message   lipgloss.Style
}

// NewRenderer writes to w. teams names the teams by index for the legend.
func NewRenderer(w io.Writer, teams []string) *Renderer {
	r := lipgloss.NewRenderer(w)
	out := &Renderer{
		out:       w,
		teams:     teams,
		highlight: r.NewStyle().Foreground(highlightColor).Bold(true),
		wall:      r.NewStyle().Foreground(lipgloss.Color("8")),
		message:   r.NewStyle().MarginLeft(1),
	}
	for _, c := range teamColors {
		out.pawn = append(out.pawn, r.NewStyle().Foreground(c).Bold(true).Reverse(true))
	}
	return out
}

// Render draws every cell with its number. Pawns are shown in their team's
// colour and highlight cells in magenta.
func (r *Renderer) Render(view engine.BoardView, highlight []int) {
	fmt.Fprint(r.out, r.Board(view, highlight))
}

// Board returns the text Render would print.
func (r *Renderer) Board(view engine.BoardView, highlight []int) string {
	h, w := view.Height(), view.Width()
	cellWidth := max(3, len(strconv.Itoa(h*w))+1)

	pawnAt := make(map[int]int)
	for team, cell := range view.PawnPositions() {
		pawnAt[cell] = team
	}
	marked := make(map[int]bool, len(highlight))
	for _, cell := range highlight {
		marked[cell] = true
	}

	horizontal := r.wall.Render(strings.Repeat("-", cellWidth))
	open := strings.Repeat(" ", cellWidth)
	vertical := r.wall.Render("|")

	var b strings.Builder
	for row := 0; row < h; row++ {
		// Top edges of the row.
		for col := 0; col < w; col++ {
			b.WriteString("+")
			if view.IsDrawn(view.BoxEdges(row, col)[engine.North]) {
				b.WriteString(horizontal)
			} else {
				b.WriteString(open)
			}
		}
		b.WriteString("+\n")

		// Cells with their west edges, then the last east edge.
		for col := 0; col < w; col++ {
			edges := view.BoxEdges(row, col)
			if view.IsDrawn(edges[engine.West]) {
				b.WriteString(vertical)
			} else {
				b.WriteString(" ")
			}
			id := row*w + col + 1
			b.WriteString(r.cell(id, cellWidth, pawnAt, marked))
		}
		if view.IsDrawn(view.BoxEdges(row, w-1)[engine.East]) {
			b.WriteString(vertical)
		} else {
			b.WriteString(" ")
		}
		b.WriteString("\n")
	}

	for col := 0; col < w; col++ {
		b.WriteString("+")
		if view.IsDrawn(view.BoxEdges(h-1, col)[engine.South]) {
			b.WriteString(horizontal)
		} else {
			b.WriteString(open)
		}
	}
	b.WriteString("+\n")

	b.WriteString(r.legend(view.PawnPositions()))
	return b.String()
}

func (r *Renderer) cell(id, width int, pawnAt map[int]int, marked map[int]bool) string {
	text := fmt.Sprintf("%*d ", width-1, id)
	if team, ok := pawnAt[id]; ok {
		return r.pawn[team%len(r.pawn)].Render(text)
	}
	if marked[id] {
		return r.highlight.Render(text)
	}
	return text
}

func (r *Renderer) legend(pawns []int) string {
	var b strings.Builder
	for team, cell := range pawns {
		name := fmt.Sprintf("Team %d", team+1)
		if team < len(r.teams) {
			name = r.teams[team]
		}
		fmt.Fprintf(&b, "%s on tile %d\n", r.pawn[team%len(r.pawn)].Render(" "+name+" "), cell)
	}
	return b.String()
}

// Message prints one status line.
func (r *Renderer) Message(text string) {
	fmt.Fprintln(r.out, r.message.Render(text))
}

var _ engine.Renderer = (*Renderer)(nil)
