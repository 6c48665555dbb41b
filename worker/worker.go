// Package worker runs hosted games. Each worker pops a running game from the
// controller, holds its lock while ticking the simulation and pushes every
// frame back to the controller for renderers to pick up.
package worker

import (
	"context"
	"math/rand"
	"time"

	"github.com/battlesnakeio/gridsnake/agent"
	"github.com/battlesnakeio/gridsnake/config"
	"github.com/battlesnakeio/gridsnake/controller/pb"
	"github.com/battlesnakeio/gridsnake/rules"
	log "github.com/sirupsen/logrus"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Worker is the worker loop. RunGame is where the game is actually played; it
// defaults to running the game with the greedy autopilot.
type Worker struct {
	ControllerClient  pb.ControllerClient
	PollInterval      time.Duration
	HeartbeatInterval time.Duration
	TickInterval      time.Duration
	TickBurst         int
	MaxTurns          uint64

	RunGame func(ctx context.Context, w *Worker, game *pb.Game) error
}

// Run will run the worker in a loop until ctx is done.
func (w *Worker) Run(ctx context.Context, workerID int) {
	for {
		if err := w.run(ctx, workerID); err != nil {
			if s, ok := status.FromError(err); !ok || s.Code() != codes.NotFound {
				log.WithError(err).WithField("Worker", workerID).Warn("run failed")
			}

			select {
			case <-time.After(w.PollInterval):
			case <-ctx.Done():
				return
			}
		}
		if ctx.Err() != nil {
			return
		}
	}
}

func (w *Worker) run(ctx context.Context, workerID int) error {
	// Pop an item of work.
	resp, err := w.ControllerClient.Pop(ctx, &pb.PopRequest{})
	if err != nil {
		return err
	}
	id := resp.ID

	// Attempt to get the lock initially.
	lr, err := w.ControllerClient.Lock(ctx, &pb.LockRequest{ID: id})
	if err != nil {
		return err
	}
	entry := log.WithFields(log.Fields{"Worker": workerID, "GameID": id})
	entry.Info("acquired lock")

	// Get a context with the lock token.
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	ctx = pb.ContextWithLockToken(ctx, lr.Token)
	background := pb.ContextWithLockToken(context.Background(), lr.Token)

	defer func() {
		if _, err := w.ControllerClient.Unlock(background, &pb.UnlockRequest{ID: id}); err != nil {
			entry.WithError(err).Warn("unlock failed")
		}
	}()

	// Hold the lock, heartbeating every HeartbeatInterval.
	go func() {
		t := time.NewTicker(w.HeartbeatInterval)
		defer t.Stop()
		for {
			select {
			case <-t.C:
				if _, err := w.ControllerClient.Lock(ctx, &pb.LockRequest{ID: id}); err != nil {
					entry.WithError(err).Warn("lock expired during heartbeat")
					cancel()
					return
				}
			case <-ctx.Done():
				return
			}
		}
	}()

	gr, err := w.ControllerClient.Get(ctx, &pb.GetRequest{ID: id})
	if err != nil {
		return err
	}
	game := gr.Game

	runGame := w.RunGame
	if runGame == nil {
		runGame = Perform
	}

	runningGames.Inc()
	defer runningGames.Dec()
	if err := runGame(ctx, w, game); err != nil {
		if ctx.Err() == nil {
			req := &pb.EndGameRequest{ID: id, Status: string(rules.GameStatusError)}
			if _, serr := w.ControllerClient.EndGame(background, req); serr != nil {
				entry.WithError(serr).Error("unable to mark game as failed")
			}
		}
		return err
	}
	return nil
}

// Perform plays a game with the greedy autopilot and marks it complete.
func Perform(ctx context.Context, w *Worker, game *pb.Game) error {
	opts := append(rules.LayoutOptions(game.Width, game.Height),
		rules.WithRandom(rand.New(rand.NewSource(game.Seed))),
		rules.WithLogger(log.WithField("GameID", game.ID)),
	)
	sim, err := rules.New(opts...)
	if err != nil {
		return err
	}

	interval := w.TickInterval
	if game.TickMS > 0 {
		interval = time.Duration(game.TickMS) * time.Millisecond
	}

	r := &Runner{
		GameID:     game.ID,
		Simulation: sim,
		Input:      agent.Greedy{},
		Sink:       ControllerSink(w.ControllerClient, game.ID),
		Limiter:    config.TickLimiter(interval, w.TickBurst),
		MaxTurns:   w.MaxTurns,
	}
	if _, err := r.Run(ctx); err != nil {
		return err
	}
	_, err = w.ControllerClient.EndGame(ctx, &pb.EndGameRequest{
		ID:     game.ID,
		Status: string(rules.GameStatusComplete),
	})
	return err
}

// ControllerSink pushes frames to the controller under the game id. ctx must
// carry the game's lock token.
func ControllerSink(client pb.ControllerClient, id string) FrameSink {
	return FrameSinkFunc(func(ctx context.Context, f *pb.Frame) error {
		_, err := client.PushFrame(ctx, &pb.PushFrameRequest{ID: id, Frame: f})
		return err
	})
}
