package game

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	gamesStarted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "pittrivia_games_started_total",
			Help: "Total number of games started",
		},
	)

	gamesFinished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pittrivia_games_finished_total",
			Help: "Total number of games that ended, by final status",
		},
		[]string{"status"},
	)

	gamesActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "pittrivia_games_active",
			Help: "Current number of live games",
		},
	)

	questionsResolved = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pittrivia_questions_resolved_total",
			Help: "Total number of resolved questions, by outcome",
		},
		[]string{"outcome"},
	)

	perksUsed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pittrivia_perks_used_total",
			Help: "Total number of perks spent, by perk",
		},
		[]string{"perk"},
	)
)
