package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"os"
	"time"

	"github.com/battlesnakeio/gridsnake/agent"
	"github.com/battlesnakeio/gridsnake/config"
	"github.com/battlesnakeio/gridsnake/controller/pb"
	"github.com/battlesnakeio/gridsnake/rules"
	"github.com/battlesnakeio/gridsnake/worker"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	simWidth    = int(rules.DefaultWidth)
	simHeight   = int(rules.DefaultHeight)
	simSeed     int64
	simMaxTurns = config.MaxTurns
	simFrames   bool
)

func init() {
	simulateCmd.Flags().IntVar(&simWidth, "width", simWidth, "grid width")
	simulateCmd.Flags().IntVar(&simHeight, "height", simHeight, "grid height")
	simulateCmd.Flags().Int64Var(&simSeed, "seed", simSeed, "food placement seed, 0 picks one")
	simulateCmd.Flags().IntVar(&simMaxTurns, "max-turns", simMaxTurns, "stop after this many turns, 0 means no limit")
	simulateCmd.Flags().BoolVar(&simFrames, "json", simFrames, "write every frame to stdout as a json line")
}

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "runs a headless game with the greedy autopilot",
	Run: func(*cobra.Command, []string) {
		res, err := simulate(context.Background(), os.Stdout)
		if err != nil {
			log.WithError(err).Fatal("simulation failed")
		}
		if !simFrames {
			fmt.Printf("turns=%d score=%d cause=%s\n", res.Turns, res.Score, res.HaltCause)
		}
	},
}

func simulate(ctx context.Context, out io.Writer) (*worker.Result, error) {
	seed := simSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	opts := append(rules.LayoutOptions(uint32(simWidth), uint32(simHeight)),
		rules.WithRandom(rand.New(rand.NewSource(seed))),
		rules.WithLogger(log.WithField("Seed", seed)),
	)
	sim, err := rules.New(opts...)
	if err != nil {
		return nil, err
	}

	enc := json.NewEncoder(out)
	sink := worker.FrameSinkFunc(func(_ context.Context, f *pb.Frame) error {
		if !simFrames {
			return nil
		}
		return enc.Encode(f)
	})

	maxTurns := simMaxTurns
	if maxTurns < 0 {
		maxTurns = 0
	}
	r := &worker.Runner{
		GameID:     fmt.Sprintf("simulate-%d", seed),
		Simulation: sim,
		Input:      agent.Greedy{},
		Sink:       sink,
		MaxTurns:   uint64(maxTurns),
	}
	return r.Run(ctx)
}
