package commands

import (
	"context"
	"fmt"
	"io/ioutil"
	"math/rand"
	"os"
	"time"

	"github.com/battlesnakeio/gridsnake/config"
	"github.com/battlesnakeio/gridsnake/controller/pb"
	"github.com/battlesnakeio/gridsnake/rules"
	termbox "github.com/nsf/termbox-go"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/time/rate"
)

var (
	playWidth    = int(rules.DefaultWidth)
	playHeight   = int(rules.DefaultHeight)
	playSeed     int64
	playInterval = config.TickInterval
	playLogFile  string
)

func init() {
	playCmd.Flags().IntVar(&playWidth, "width", playWidth, "grid width")
	playCmd.Flags().IntVar(&playHeight, "height", playHeight, "grid height")
	playCmd.Flags().Int64Var(&playSeed, "seed", playSeed, "food placement seed, 0 picks one")
	playCmd.Flags().DurationVar(&playInterval, "tick", playInterval, "time between ticks")
	playCmd.Flags().StringVar(&playLogFile, "log-file", playLogFile, "write simulation logs to this file")
}

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "plays a game in the terminal, steer with the arrow keys",
	Run: func(*cobra.Command, []string) {
		if err := playGame(); err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func playGame() error {
	if playWidth <= 0 || playHeight <= 0 {
		return errors.Errorf("invalid grid %dx%d", playWidth, playHeight)
	}
	entry, closeLog, err := playLogger(playLogFile)
	if err != nil {
		return err
	}
	defer closeLog()

	seed := playSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	opts := append(rules.LayoutOptions(uint32(playWidth), uint32(playHeight)),
		rules.WithRandom(rand.New(rand.NewSource(seed))),
		rules.WithLogger(entry.WithField("Seed", seed)),
	)
	sim, err := rules.New(opts...)
	if err != nil {
		return err
	}

	if err = termbox.Init(); err != nil {
		return err
	}
	defer termbox.Close()

	scr := newScreen("Gridsnake", sim.Width(), sim.Height())
	if !scr.fits() {
		return errors.Errorf("terminal too small for a %dx%d grid", sim.Width(), sim.Height())
	}
	if err = scr.drawBoard(); err != nil {
		return err
	}
	scr.message("arrows steer, space pauses, esc quits")
	if err = scr.apply(sim.Snapshot().Frame()); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ticks := tickQueue(ctx, config.TickLimiter(playInterval, 1))
	events := setupEventQueue()

	var input *uint32
	paused := false
	for {
		select {
		case ev := <-events:
			if ev.Type != termbox.EventKey {
				continue
			}
			switch {
			case ev.Key == termbox.KeyEsc || ev.Ch == 'q':
				return nil
			case ev.Key == termbox.KeySpace:
				paused = !paused
				if paused {
					scr.message("paused")
				} else {
					scr.message("")
				}
				if err = termbox.Flush(); err != nil {
					return err
				}
			default:
				if d, ok := keyDirection(ev); ok {
					code := d.Code()
					input = &code
				}
			}
		case <-ticks:
			if paused {
				continue
			}
			diff := sim.Tick(input)
			input = nil
			if diff == nil {
				if err = scr.apply(pb.HaltFrame(sim.Turn(), sim.Score(), sim.HaltCause())); err != nil {
					return err
				}
				scr.message(fmt.Sprintf("Game over: %s, score %d. Press esc to exit...", sim.HaltCause(), sim.Score()))
				if err = termbox.Flush(); err != nil {
					return err
				}
				waitForExit(events)
				return nil
			}
			if err = scr.apply(diff.Frame()); err != nil {
				return err
			}
		}
	}
}

// keyDirection maps arrow keys, wasd and hjkl onto a direction.
func keyDirection(ev termbox.Event) (rules.Direction, bool) {
	switch ev.Key {
	case termbox.KeyArrowUp:
		return rules.DirectionUp, true
	case termbox.KeyArrowDown:
		return rules.DirectionDown, true
	case termbox.KeyArrowLeft:
		return rules.DirectionLeft, true
	case termbox.KeyArrowRight:
		return rules.DirectionRight, true
	}
	switch ev.Ch {
	case 'w', 'k':
		return rules.DirectionUp, true
	case 's', 'j':
		return rules.DirectionDown, true
	case 'a', 'h':
		return rules.DirectionLeft, true
	case 'd', 'l':
		return rules.DirectionRight, true
	}
	return rules.DirectionUp, false
}

// tickQueue emits one value per limiter release until ctx is done.
func tickQueue(ctx context.Context, limiter *rate.Limiter) <-chan struct{} {
	ticks := make(chan struct{})
	go func() {
		for {
			if err := limiter.Wait(ctx); err != nil {
				return
			}
			select {
			case ticks <- struct{}{}:
			case <-ctx.Done():
				return
			}
		}
	}()
	return ticks
}

func waitForExit(events <-chan termbox.Event) {
	for ev := range events {
		if ev.Type == termbox.EventKey && (ev.Key == termbox.KeyEsc || ev.Key == termbox.KeyEnter || ev.Ch == 'q') {
			return
		}
	}
}

// playLogger keeps logs off the terminal while termbox owns it.
func playLogger(path string) (*log.Entry, func(), error) {
	l := log.New()
	l.Level = log.GetLevel()
	if path == "" {
		l.Out = ioutil.Discard
		return log.NewEntry(l), func() {}, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, nil, errors.Wrap(err, "open log file")
	}
	l.Out = f
	return log.NewEntry(l), func() { _ = f.Close() }, nil
}
