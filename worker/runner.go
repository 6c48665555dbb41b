package worker

import (
	"context"

	"github.com/battlesnakeio/gridsnake/controller/pb"
	"github.com/battlesnakeio/gridsnake/rules"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// HaltCauseTurnLimit is reported when a game is stopped after MaxTurns.
const HaltCauseTurnLimit = "turn-limit"

// Input decides the direction code for the next tick. A nil code keeps the
// current heading.
type Input interface {
	Next(rules.View) *uint32
}

// InputFunc adapts a function to Input.
type InputFunc func(rules.View) *uint32

// Next calls f.
func (f InputFunc) Next(v rules.View) *uint32 { return f(v) }

// FrameSink receives every frame a runner produces, in order.
type FrameSink interface {
	PushFrame(ctx context.Context, f *pb.Frame) error
}

// FrameSinkFunc adapts a function to FrameSink.
type FrameSinkFunc func(context.Context, *pb.Frame) error

// PushFrame calls f.
func (f FrameSinkFunc) PushFrame(ctx context.Context, frame *pb.Frame) error { return f(ctx, frame) }

// Runner will run an individual simulation to completion. The first frame it
// publishes is a snapshot of the board, then one frame per tick, then a
// halt frame.
type Runner struct {
	GameID     string
	Simulation *rules.Simulation
	Input      Input
	Sink       FrameSink
	// Limiter paces ticks, nil runs as fast as possible.
	Limiter *rate.Limiter
	// MaxTurns stops a game that never halts, zero means no limit.
	MaxTurns uint64
}

// Result summarises a finished game.
type Result struct {
	Turns     uint64
	Score     uint32
	HaltCause string
}

// Run ticks the simulation until it halts, MaxTurns is reached or ctx is
// done. The simulation is only touched from the calling goroutine.
func (r *Runner) Run(ctx context.Context) (*Result, error) {
	sim := r.Simulation
	entry := log.WithField("GameID", r.GameID)

	if err := r.Sink.PushFrame(ctx, sim.Snapshot().Frame()); err != nil {
		return nil, errors.Wrap(err, "push snapshot")
	}

	for {
		if r.Limiter != nil {
			if err := r.Limiter.Wait(ctx); err != nil {
				return nil, err
			}
		} else if err := ctx.Err(); err != nil {
			return nil, err
		}

		if r.MaxTurns > 0 && sim.Turn() >= r.MaxTurns {
			return r.finish(ctx, entry, HaltCauseTurnLimit)
		}

		timer := prometheus.NewTimer(tickDuration)
		var input *uint32
		if r.Input != nil {
			input = r.Input.Next(sim)
		}
		prevScore := sim.Score()
		diff := sim.Tick(input)
		if diff == nil {
			ticks.WithLabelValues(outcomeHalt).Inc()
			timer.ObserveDuration()
			return r.finish(ctx, entry, sim.HaltCause())
		}
		if diff.Score > prevScore {
			ticks.WithLabelValues(outcomeGrow).Inc()
		} else {
			ticks.WithLabelValues(outcomeMove).Inc()
		}

		err := r.Sink.PushFrame(ctx, diff.Frame())
		timer.ObserveDuration()
		if err != nil {
			return nil, errors.Wrapf(err, "push frame %d", diff.Turn)
		}
	}
}

func (r *Runner) finish(ctx context.Context, entry *log.Entry, cause string) (*Result, error) {
	sim := r.Simulation
	res := &Result{
		Turns:     sim.Turn(),
		Score:     sim.Score(),
		HaltCause: cause,
	}
	finalScores.Observe(float64(res.Score))
	entry.WithFields(log.Fields{
		"Turn":  res.Turns,
		"Score": res.Score,
		"Cause": res.HaltCause,
	}).Info("game over")

	if err := r.Sink.PushFrame(ctx, pb.HaltFrame(res.Turns, res.Score, res.HaltCause)); err != nil {
		return nil, errors.Wrap(err, "push halt frame")
	}
	return res, nil
}
