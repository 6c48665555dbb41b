// Package controller keeps track of hosted games. Workers pop and lock games
// from it and push the frames they produce; the API reads games and frames
// back out for renderers.
package controller

import (
	"context"
	"math/rand"
	"time"

	"github.com/battlesnakeio/gridsnake/controller/pb"
	"github.com/battlesnakeio/gridsnake/rules"
	"github.com/pkg/errors"
	uuid "github.com/satori/go.uuid"
	log "github.com/sirupsen/logrus"
)

// ErrInvalidRequest is returned for create requests that cannot be hosted.
var ErrInvalidRequest = errors.New("controller: invalid request")

// MinGridSize is the smallest grid side a hosted game may use.
const MinGridSize = 4

// New will initialize a new Controller.
func New(store Store, maxGridSize uint32) *Controller {
	return &Controller{
		Store:       store,
		MaxGridSize: maxGridSize,
	}
}

// Controller validates requests and fronts the store.
type Controller struct {
	Store       Store
	MaxGridSize uint32
}

// Create inserts a new running game to be picked up by a worker. Zero
// dimensions fall back to the default grid and a zero seed is replaced by a
// random one.
func (c *Controller) Create(ctx context.Context, req *pb.CreateRequest) (*pb.Game, error) {
	width, height := req.Width, req.Height
	if width == 0 {
		width = rules.DefaultWidth
	}
	if height == 0 {
		height = rules.DefaultHeight
	}
	if width < MinGridSize || height < MinGridSize {
		return nil, errors.Wrapf(ErrInvalidRequest, "grid %dx%d smaller than %d", width, height, MinGridSize)
	}
	if c.MaxGridSize > 0 && (width > c.MaxGridSize || height > c.MaxGridSize) {
		return nil, errors.Wrapf(ErrInvalidRequest, "grid %dx%d larger than %d", width, height, c.MaxGridSize)
	}

	seed := req.Seed
	if seed == 0 {
		seed = rand.New(rand.NewSource(time.Now().UnixNano())).Int63()
	}

	game := &pb.Game{
		ID:     uuid.NewV4().String(),
		Status: string(rules.GameStatusRunning),
		Width:  width,
		Height: height,
		Seed:   seed,
		Score:  1,
		TickMS: req.TickMS,
	}
	if err := c.Store.CreateGame(ctx, game); err != nil {
		return nil, errors.Wrap(err, "create game")
	}

	log.WithFields(log.Fields{
		"GameID": game.ID,
		"Width":  game.Width,
		"Height": game.Height,
		"Seed":   game.Seed,
	}).Info("game created")
	return game, nil
}

// Status returns the game and its latest frame.
func (c *Controller) Status(ctx context.Context, id string) (*pb.StatusResponse, error) {
	game, err := c.Store.GetGame(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := &pb.StatusResponse{Game: game}
	frames, err := c.Store.ListGameFrames(ctx, id, 1, -1)
	if err != nil {
		return nil, err
	}
	if len(frames) > 0 {
		resp.LastFrame = frames[0]
	}
	return resp, nil
}

// Games lists every hosted game.
func (c *Controller) Games(ctx context.Context) ([]*pb.Game, error) {
	return c.Store.ListGames(ctx)
}

// Frames returns a page of a game's frames.
func (c *Controller) Frames(ctx context.Context, id string, limit, offset int) (*pb.ListGameFramesResponse, error) {
	if _, err := c.Store.GetGame(ctx, id); err != nil {
		return nil, err
	}
	frames, err := c.Store.ListGameFrames(ctx, id, limit, offset)
	if err != nil {
		return nil, err
	}
	if frames == nil {
		frames = []*pb.Frame{}
	}
	return &pb.ListGameFramesResponse{Frames: frames, Count: len(frames)}, nil
}

// Snapshot returns the full board of a game as a single frame.
func (c *Controller) Snapshot(ctx context.Context, id string) (*pb.Frame, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	snapshot, _, err := c.Store.Subscribe(ctx, id)
	return snapshot, err
}

// Watch subscribes to a game's frames, see Store.Subscribe.
func (c *Controller) Watch(ctx context.Context, id string) (*pb.Frame, <-chan *pb.Frame, error) {
	return c.Store.Subscribe(ctx, id)
}
