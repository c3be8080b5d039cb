package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/wricardo/quoridor/game/engine"
)

// Metrics counts game activity across all sessions.
type Metrics struct {
	GamesStarted   prometheus.Counter
	Actions        *prometheus.CounterVec
	WallsRejected  prometheus.Counter
	GamesWon       *prometheus.CounterVec
	ActiveSessions prometheus.Gauge
}

// NewMetrics creates the counters and registers them with reg. A nil reg
// leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		GamesStarted: f.NewCounter(prometheus.CounterOpts{
			Namespace: "quoridor",
			Name:      "games_started_total",
			Help:      "Games started, including resets.",
		}),
		Actions: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "quoridor",
			Name:      "actions_total",
			Help:      "Accepted player actions by kind.",
		}, []string{"action"}),
		WallsRejected: f.NewCounter(prometheus.CounterOpts{
			Namespace: "quoridor",
			Name:      "walls_rejected_total",
			Help:      "Walls refused because they cut a team off from its goal.",
		}),
		GamesWon: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "quoridor",
			Name:      "games_won_total",
			Help:      "Finished games by winning team name.",
		}, []string{"team"}),
		ActiveSessions: f.NewGauge(prometheus.GaugeOpts{
			Namespace: "quoridor",
			Name:      "active_sessions",
			Help:      "Sessions currently held in memory.",
		}),
	}
}

// observe updates the counters for one engine event.
func (m *Metrics) observe(e engine.Event, teamName string) {
	switch e.Kind {
	case engine.EventMove:
		m.Actions.WithLabelValues(string(engine.ActionMove)).Inc()
	case engine.EventWall:
		m.Actions.WithLabelValues(string(engine.ActionWall)).Inc()
	case engine.EventWallRejected:
		m.WallsRejected.Inc()
	case engine.EventWin:
		m.GamesWon.WithLabelValues(teamName).Inc()
	case engine.EventReset:
		m.GamesStarted.Inc()
	}
}
