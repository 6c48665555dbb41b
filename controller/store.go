package controller

import (
	"context"
	"sync"
	"time"

	"github.com/battlesnakeio/gridsnake/controller/pb"
	"github.com/battlesnakeio/gridsnake/rules"
	"github.com/pkg/errors"
	uuid "github.com/satori/go.uuid"
)

var (
	// LockExpiry is the time after which a lock will expire.
	LockExpiry = 1 * time.Second
	// ErrNotFound is thrown when a game is not found.
	ErrNotFound = errors.New("controller: game not found")
	// ErrIsLocked is returned when a game is locked.
	ErrIsLocked = errors.New("controller: game is locked")
	// ErrGameExists is returned when creating a game with a used id.
	ErrGameExists = errors.New("controller: game already exists")
	// ErrStoreFull is returned when the store holds its maximum number of games.
	ErrStoreFull = errors.New("controller: too many games")
)

// Store is the interface to the backend store.
type Store interface {
	// Lock will lock a specific game, returning a token that must be used to
	// keep running it. Passing the current token extends the lock.
	Lock(ctx context.Context, key, token string) (string, error)
	// Unlock will unlock a game if it is locked and the token used to lock it
	// is correct.
	Unlock(ctx context.Context, key, token string) error
	// PopGameID returns a game that is unlocked and running.
	PopGameID(context.Context) (string, error)
	// SetGameStatus is used to set a specific game status. Leaving the
	// running status ends every subscription to the game.
	SetGameStatus(c context.Context, id string, status rules.GameStatus) error
	// CreateGame will insert a game.
	CreateGame(context.Context, *pb.Game) error
	// PushGameFrame will push a frame onto the list of frames and fan it out
	// to subscribers.
	PushGameFrame(c context.Context, id string, f *pb.Frame) error
	// ListGameFrames will list frames by an offset and limit, it supports
	// negative offset.
	ListGameFrames(c context.Context, id string, limit, offset int) ([]*pb.Frame, error)
	// GetGame will fetch the game.
	GetGame(context.Context, string) (*pb.Game, error)
	// ListGames returns every game in the store.
	ListGames(context.Context) ([]*pb.Game, error)
	// Subscribe returns a snapshot of the board and a channel carrying every
	// frame pushed afterwards. The channel is closed when the game stops,
	// when ctx is done, or when the subscriber falls too far behind.
	Subscribe(ctx context.Context, id string) (*pb.Frame, <-chan *pb.Frame, error)
}

// InMemStore returns an in memory implementation of the Store interface.
// frameBuffer bounds how many frames are retained per game and maxGames how
// many games can be created, zero means unbounded.
func InMemStore(frameBuffer, maxGames int) Store {
	return &inmem{
		games:       map[string]*gameState{},
		locks:       map[string]*lock{},
		frameBuffer: frameBuffer,
		maxGames:    maxGames,
	}
}

type lock struct {
	token   string
	expires time.Time
}

type gameState struct {
	game        *pb.Game
	frames      []*pb.Frame
	board       *board
	subscribers map[chan *pb.Frame]struct{}
}

type inmem struct {
	games       map[string]*gameState
	locks       map[string]*lock
	frameBuffer int
	maxGames    int
	lock        sync.Mutex
}

func (in *inmem) Lock(ctx context.Context, key, token string) (string, error) {
	in.lock.Lock()
	defer in.lock.Unlock()

	now := time.Now()

	l, ok := in.locks[key]
	if ok {
		// We have a lock token, if it's expired just delete it and continue as
		// if nothing happened.
		if l.expires.Before(now) {
			delete(in.locks, key)
		} else {
			// If the token is not expired and matched our active token, let's
			// just bump the expiration.
			if l.token == token {
				l.expires = now.Add(LockExpiry)
				return l.token, nil
			}
			return "", ErrIsLocked
		}
	}
	if token == "" {
		token = uuid.NewV4().String()
	}
	l = &lock{
		token:   token,
		expires: now.Add(LockExpiry),
	}
	in.locks[key] = l
	return l.token, nil
}

func (in *inmem) isLocked(key string) bool {
	l, ok := in.locks[key]
	return ok && l.expires.After(time.Now())
}

func (in *inmem) Unlock(ctx context.Context, key, token string) error {
	in.lock.Lock()
	defer in.lock.Unlock()

	l, ok := in.locks[key]
	// No lock? Don't care.
	if !ok {
		return nil
	}
	// We have a lock that matches our token, even if it's expired we are safe
	// to remove it. If it's expired, remove it as well.
	if l.expires.Before(time.Now()) || l.token == token {
		delete(in.locks, key)
		return nil
	}
	return ErrIsLocked
}

func (in *inmem) PopGameID(ctx context.Context) (string, error) {
	in.lock.Lock()
	defer in.lock.Unlock()

	// We get randomness due to go's built in random map.
	for id, g := range in.games {
		if !in.isLocked(id) && g.game.Status == string(rules.GameStatusRunning) {
			return id, nil
		}
	}
	return "", ErrNotFound
}

func (in *inmem) SetGameStatus(ctx context.Context, id string, status rules.GameStatus) error {
	in.lock.Lock()
	defer in.lock.Unlock()

	g, ok := in.games[id]
	if !ok {
		return ErrNotFound
	}
	g.game.Status = string(status)
	if status != rules.GameStatusRunning {
		g.closeSubscribers()
	}
	return nil
}

func (in *inmem) CreateGame(ctx context.Context, g *pb.Game) error {
	in.lock.Lock()
	defer in.lock.Unlock()

	if _, ok := in.games[g.ID]; ok {
		return ErrGameExists
	}
	if in.maxGames > 0 && len(in.games) >= in.maxGames {
		return ErrStoreFull
	}
	in.games[g.ID] = &gameState{
		game:        pb.CloneGame(g),
		board:       newBoard(g.Width, g.Height),
		subscribers: map[chan *pb.Frame]struct{}{},
	}
	return nil
}

func (in *inmem) PushGameFrame(ctx context.Context, id string, f *pb.Frame) error {
	if err := f.Validate(); err != nil {
		return err
	}

	in.lock.Lock()
	defer in.lock.Unlock()

	g, ok := in.games[id]
	if !ok {
		return ErrNotFound
	}

	f = pb.CloneFrame(f)
	g.frames = append(g.frames, f)
	if in.frameBuffer > 0 && len(g.frames) > in.frameBuffer {
		g.frames = g.frames[len(g.frames)-in.frameBuffer:]
	}
	g.board.apply(f)
	g.game.Score = f.Score
	if f.Halted {
		g.game.HaltCause = f.HaltCause
	} else {
		g.game.Turn = f.Turn
	}

	for ch := range g.subscribers {
		select {
		case ch <- f:
		default:
			// Slow subscriber, it would miss a change so cut it off instead.
			delete(g.subscribers, ch)
			close(ch)
		}
	}
	return nil
}

func (in *inmem) ListGameFrames(ctx context.Context, id string, limit, offset int) ([]*pb.Frame, error) {
	in.lock.Lock()
	defer in.lock.Unlock()

	g, ok := in.games[id]
	if !ok {
		return nil, ErrNotFound
	}
	frames := g.frames

	if offset < 0 {
		offset = len(frames) + offset
		if offset < 0 {
			offset = 0
		}
	}

	if len(frames) == 0 || offset >= len(frames) {
		return nil, nil
	}
	if offset+limit >= len(frames) {
		limit = len(frames) - offset
	}
	out := make([]*pb.Frame, 0, limit)
	for _, f := range frames[offset : offset+limit] {
		out = append(out, pb.CloneFrame(f))
	}
	return out, nil
}

func (in *inmem) GetGame(ctx context.Context, id string) (*pb.Game, error) {
	in.lock.Lock()
	defer in.lock.Unlock()

	g, ok := in.games[id]
	if !ok {
		return nil, ErrNotFound
	}
	// Clone the game, since this could be modified after this is returned
	// and upset internal state inside the store.
	return pb.CloneGame(g.game), nil
}

func (in *inmem) ListGames(ctx context.Context) ([]*pb.Game, error) {
	in.lock.Lock()
	defer in.lock.Unlock()

	games := make([]*pb.Game, 0, len(in.games))
	for _, g := range in.games {
		games = append(games, pb.CloneGame(g.game))
	}
	return games, nil
}

// subscriberBuffer is how many frames a subscriber may lag behind.
const subscriberBuffer = 64

func (in *inmem) Subscribe(ctx context.Context, id string) (*pb.Frame, <-chan *pb.Frame, error) {
	in.lock.Lock()
	defer in.lock.Unlock()

	g, ok := in.games[id]
	if !ok {
		return nil, nil, ErrNotFound
	}

	ch := make(chan *pb.Frame, subscriberBuffer)
	snapshot := g.board.snapshot()
	if g.game.Status != string(rules.GameStatusRunning) {
		close(ch)
		return snapshot, ch, nil
	}
	g.subscribers[ch] = struct{}{}

	go func() {
		<-ctx.Done()
		in.lock.Lock()
		defer in.lock.Unlock()
		if _, ok := g.subscribers[ch]; ok {
			delete(g.subscribers, ch)
			close(ch)
		}
	}()
	return snapshot, ch, nil
}

func (g *gameState) closeSubscribers() {
	for ch := range g.subscribers {
		delete(g.subscribers, ch)
		close(ch)
	}
}
