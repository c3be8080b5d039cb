// Package console lets people play Quoridor in a terminal.
//
// Prompter implements engine.Input over any reader and writer and Renderer
// implements engine.Renderer, drawing the edge grid with tile numbers and
// team-coloured pawns through lipgloss:
//
//	in := console.NewPrompter(os.Stdin, os.Stdout)
//	out := console.NewRenderer(os.Stdout, []string{"Red", "Green"})
//	winner, err := engine.Play(game, in, out)
//
// Typing q, quit or exit at any prompt aborts the game with ErrQuit.
package console
