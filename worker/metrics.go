package worker

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	ticks = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "gridsnake",
			Subsystem: "worker",
			Name:      "ticks_total",
			Help:      "Ticks processed, by outcome.",
		},
		[]string{"outcome"},
	)
	tickDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "gridsnake",
			Subsystem: "worker",
			Name:      "tick_seconds",
			Help:      "Time spent computing a tick and publishing its frame.",
			Buckets:   prometheus.ExponentialBuckets(0.00001, 4, 8),
		},
	)
	finalScores = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "gridsnake",
			Subsystem: "worker",
			Name:      "final_score",
			Help:      "Snake length when a game ends.",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 12),
		},
	)
	runningGames = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "gridsnake",
			Subsystem: "worker",
			Name:      "running_games",
			Help:      "Games currently being run by workers.",
		},
	)
)

func init() {
	prometheus.MustRegister(ticks, tickDuration, finalScores, runningGames)
}

const (
	outcomeMove = "move"
	outcomeGrow = "grow"
	outcomeHalt = "halt"
)
