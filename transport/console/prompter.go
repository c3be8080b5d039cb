package console

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/wricardo/quoridor/game/engine"
)

// ErrQuit is returned by every prompt when the player types q, quit or exit.
var ErrQuit = errors.New("player quit")

// Prompter implements engine.Input with line-based prompts. Invalid answers
// are explained and asked again; only end of input and quitting are errors.
type Prompter struct {
	scanner *bufio.Scanner
	out     io.Writer
}

// NewPrompter reads answers from r and writes prompts to w.
func NewPrompter(r io.Reader, w io.Writer) *Prompter {
	return &Prompter{scanner: bufio.NewScanner(r), out: w}
}

func isQuit(answer string) bool {
	switch strings.ToLower(answer) {
	case "q", "quit", "exit":
		return true
	}
	return false
}

// ask prints prompt and returns the next non-empty answer.
func (p *Prompter) ask(prompt string) (string, error) {
	fmt.Fprintln(p.out, prompt)
	for p.scanner.Scan() {
		answer := strings.TrimSpace(p.scanner.Text())
		if answer == "" {
			continue
		}
		if isQuit(answer) {
			return "", ErrQuit
		}
		return answer, nil
	}
	if err := p.scanner.Err(); err != nil {
		return "", fmt.Errorf("failed to read answer: %w", err)
	}
	return "", io.EOF
}

// askInt repeats prompt until the answer is a number accepted by valid.
func (p *Prompter) askInt(prompt string, valid func(int) bool, invalid string) (int, error) {
	for {
		answer, err := p.ask(prompt)
		if err != nil {
			return 0, err
		}
		n, err := strconv.Atoi(answer)
		if err != nil {
			fmt.Fprintln(p.out, "Input is invalid. Please enter a number.")
			continue
		}
		if !valid(n) {
			fmt.Fprintln(p.out, invalid)
			continue
		}
		return n, nil
	}
}

// ChooseAction accepts the action's number or its name.
func (p *Prompter) ChooseAction(actions []engine.Action) (engine.Action, error) {
	var b strings.Builder
	b.WriteString("Choose an action:")
	for i, a := range actions {
		fmt.Fprintf(&b, " %d) %s", i+1, a)
	}

	for {
		answer, err := p.ask(b.String())
		if err != nil {
			return "", err
		}
		for i, a := range actions {
			if answer == strconv.Itoa(i+1) || strings.EqualFold(answer, string(a)) {
				return a, nil
			}
		}
		fmt.Fprintf(p.out, "Invalid choice. Please enter a number between 1 and %d.\n", len(actions))
	}
}

func (p *Prompter) ChooseCell(max int) (int, error) {
	return p.askInt(
		fmt.Sprintf("Enter the tile (1-%d) next to which you want to place a wall, or 0 to move your pawn instead:", max),
		func(n int) bool { return n >= 0 && n <= max },
		fmt.Sprintf("Invalid number. Please enter a number between 0 and %d.", max),
	)
}

// ChooseDirection returns the 0-based index of the chosen option.
func (p *Prompter) ChooseDirection(options []string) (int, error) {
	var b strings.Builder
	b.WriteString("Choose a direction:")
	for i, o := range options {
		fmt.Fprintf(&b, " %d) %s", i+1, o)
	}

	n, err := p.askInt(
		b.String(),
		func(n int) bool { return n >= 1 && n <= len(options) },
		fmt.Sprintf("Invalid number. Please enter a number between 1 and %d.", len(options)),
	)
	if err != nil {
		return 0, err
	}
	return n - 1, nil
}

func (p *Prompter) ChooseFromSet(set []int) (int, error) {
	return p.askInt(
		fmt.Sprintf("Choose a tile to move your pawn to: %v", set),
		func(n int) bool { return slices.Contains(set, n) },
		fmt.Sprintf("Invalid number. Please enter a number from the following: %v.", set),
	)
}

// Confirm asks a yes/no question until it gets one of the two.
func (p *Prompter) Confirm(prompt string) (bool, error) {
	for {
		answer, err := p.ask(prompt + " (yes/no)")
		if err != nil {
			return false, err
		}
		switch strings.ToLower(answer) {
		case "y", "yes":
			return true, nil
		case "n", "no":
			return false, nil
		}
		fmt.Fprintln(p.out, "Invalid input! Please enter 'yes' or 'no'.")
	}
}

var _ engine.Input = (*Prompter)(nil)
