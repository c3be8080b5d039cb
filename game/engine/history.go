package engine

import "time"

// record appends an accepted action to the history
func (g *Game) record(action Action, player *Player, from, to int, wall *Wall) {
	g.totalMoves++
	g.history = append(g.history, HistoryEntry{
		Number:    g.totalMoves,
		Action:    action,
		Player:    player.Name,
		Team:      player.Team,
		From:      from,
		To:        to,
		Wall:      wall,
		Timestamp: time.Now(),
	})
}

// History returns every accepted action since the game started
func (g *Game) History() []HistoryEntry {
	return append([]HistoryEntry(nil), g.history...)
}

// LastMove returns the most recent action, or nil if none
func (g *Game) LastMove() *HistoryEntry {
	if len(g.history) == 0 {
		return nil
	}
	entry := g.history[len(g.history)-1]
	return &entry
}
