package controller

import (
	"context"
	"testing"
	"time"

	"github.com/battlesnakeio/gridsnake/controller/pb"
	"github.com/battlesnakeio/gridsnake/rules"
	"github.com/stretchr/testify/require"
)

func testStoreLock(t *testing.T, s Store) {
	ctx := context.Background()

	// Lock random key.
	tok, err := s.Lock(ctx, "test", "")
	require.Nil(t, err)
	require.NotEmpty(t, tok)

	// Lock with valid token, no error same token returned.
	tok2, err := s.Lock(ctx, "test", tok)
	require.Nil(t, err)
	require.Equal(t, tok, tok2)

	// Lock with another token is refused.
	_, err = s.Lock(ctx, "test", "other")
	require.Equal(t, ErrIsLocked, err)

	// Unlock without valid token returns error.
	err = s.Unlock(ctx, "test", "")
	require.NotNil(t, err)

	// Unlock with valid token no error.
	err = s.Unlock(ctx, "test", tok)
	require.Nil(t, err)

	// Unlock where lock doesn't exist returns no error.
	err = s.Unlock(ctx, "missing", "")
	require.Nil(t, err)
}

func testStoreLockExpiry(t *testing.T, s Store) {
	ctx := context.Background()

	// Negative expiry, will always be expired.
	LockExpiry = -10 * time.Second
	defer func() { LockExpiry = 1 * time.Second }()

	tok, err := s.Lock(ctx, "test", "")
	require.Nil(t, err)
	require.NotEmpty(t, tok)

	// Lock (no token) has expired so anyone can take it.
	_, err = s.Lock(ctx, "test", "")
	require.Nil(t, err)

	// Unlock (no token) has expired.
	err = s.Unlock(ctx, "test", "")
	require.Nil(t, err)
}

func testStoreGames(t *testing.T, s Store) {
	ctx := context.Background()

	// Create and fetch a game.
	err := s.CreateGame(ctx, &pb.Game{ID: "test", Status: string(rules.GameStatusRunning), Width: 8, Height: 8})
	require.Nil(t, err)
	g, err := s.GetGame(ctx, "test")
	require.Nil(t, err)
	require.Equal(t, "test", g.ID)

	// Duplicate ids are refused.
	err = s.CreateGame(ctx, &pb.Game{ID: "test"})
	require.Equal(t, ErrGameExists, err)

	// Returned games are copies.
	g.Status = "mutated"
	g, err = s.GetGame(ctx, "test")
	require.Nil(t, err)
	require.Equal(t, string(rules.GameStatusRunning), g.Status)

	// NotFound error thrown.
	_, err = s.GetGame(ctx, "tes11221t")
	require.Equal(t, ErrNotFound, err)

	// Pop game can find it.
	id, err := s.PopGameID(ctx)
	require.Nil(t, err)
	require.Equal(t, "test", id)

	// Lock test key, cannot pop.
	_, err = s.Lock(ctx, "test", "")
	require.Nil(t, err)
	_, err = s.PopGameID(ctx)
	require.Equal(t, ErrNotFound, err)

	games, err := s.ListGames(ctx)
	require.Nil(t, err)
	require.Len(t, games, 1)

	// Completed games are never popped.
	require.NoError(t, s.CreateGame(ctx, &pb.Game{ID: "done", Status: string(rules.GameStatusComplete)}))
	_, err = s.PopGameID(ctx)
	require.Equal(t, ErrNotFound, err)
}

func testStoreGameFrames(t *testing.T, s Store) {
	ctx := context.Background()

	err := s.CreateGame(ctx, &pb.Game{ID: "test", Status: string(rules.GameStatusRunning), Width: 8, Height: 8})
	require.Nil(t, err)

	// Read game frames, too high offset.
	frames, err := s.ListGameFrames(ctx, "test", 10, 100)
	require.Nil(t, err)
	require.Equal(t, 0, len(frames))

	// Push some frames.
	for turn := uint64(1); turn <= 5; turn++ {
		err = s.PushGameFrame(ctx, "test", &pb.Frame{Turn: turn, Score: 1})
		require.Nil(t, err)
	}

	frames, err = s.ListGameFrames(ctx, "test", 2, 0)
	require.Nil(t, err)
	require.Len(t, frames, 2)
	require.Equal(t, uint64(1), frames[0].Turn)

	// Negative offset counts from the end.
	frames, err = s.ListGameFrames(ctx, "test", 10, -2)
	require.Nil(t, err)
	require.Len(t, frames, 2)
	require.Equal(t, uint64(4), frames[0].Turn)
	require.Equal(t, uint64(5), frames[1].Turn)

	// Ragged frames are refused.
	err = s.PushGameFrame(ctx, "test", &pb.Frame{Len: 1})
	require.NotNil(t, err)

	// Unknown cell ordinals are refused.
	err = s.PushGameFrame(ctx, "test", &pb.Frame{Len: 1, Rows: []uint32{1}, Cols: []uint32{1}, Cells: []uint32{259}})
	require.NotNil(t, err)

	// Missing game.
	err = s.PushGameFrame(ctx, "missing", &pb.Frame{})
	require.Equal(t, ErrNotFound, err)

	g, err := s.GetGame(ctx, "test")
	require.Nil(t, err)
	require.Equal(t, uint64(5), g.Turn)
}

func testStoreSubscribe(t *testing.T, s Store) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	err := s.CreateGame(ctx, &pb.Game{ID: "test", Status: string(rules.GameStatusRunning), Width: 8, Height: 8})
	require.Nil(t, err)

	// The first frame lays out the board.
	err = s.PushGameFrame(ctx, "test", &pb.Frame{
		Snapshot: true,
		Rows:     []uint32{2, 2},
		Cols:     []uint32{3, 4},
		Cells:    []uint32{uint32(rules.CellHead), uint32(rules.CellFood)},
		Len:      2,
		Score:    1,
	})
	require.Nil(t, err)

	snapshot, frames, err := s.Subscribe(ctx, "test")
	require.Nil(t, err)
	require.True(t, snapshot.Snapshot)
	require.Equal(t, uint32(2), snapshot.Len)

	move := &pb.Frame{
		Turn:  1,
		Rows:  []uint32{2, 2},
		Cols:  []uint32{4, 3},
		Cells: []uint32{uint32(rules.CellHead), uint32(rules.CellEmpty)},
		Len:   2,
		Score: 1,
	}
	require.Nil(t, s.PushGameFrame(ctx, "test", move))

	select {
	case f := <-frames:
		require.Equal(t, uint64(1), f.Turn)
	case <-time.After(time.Second):
		require.Fail(t, "no frame received")
	}

	// The board follows the frames.
	snapshot, _, err = s.Subscribe(ctx, "test")
	require.Nil(t, err)
	require.Equal(t, uint32(1), snapshot.Len)
	require.Equal(t, []uint32{2}, snapshot.Rows)
	require.Equal(t, []uint32{4}, snapshot.Cols)
	require.Equal(t, []uint32{uint32(rules.CellHead)}, snapshot.Cells)

	// Ending the game closes subscriptions.
	require.Nil(t, s.SetGameStatus(ctx, "test", rules.GameStatusComplete))
	select {
	case _, ok := <-frames:
		require.False(t, ok)
	case <-time.After(time.Second):
		require.Fail(t, "subscription not closed")
	}
}

func testStoreSubscribeCancel(t *testing.T, s Store) {
	ctx := context.Background()
	err := s.CreateGame(ctx, &pb.Game{ID: "test", Status: string(rules.GameStatusRunning), Width: 8, Height: 8})
	require.Nil(t, err)

	subCtx, cancel := context.WithCancel(ctx)
	_, frames, err := s.Subscribe(subCtx, "test")
	require.Nil(t, err)
	cancel()

	select {
	case _, ok := <-frames:
		require.False(t, ok)
	case <-time.After(time.Second):
		require.Fail(t, "subscription not closed")
	}
}

func TestInMemStore(t *testing.T) {
	tests := map[string]func(*testing.T, Store){
		"Lock":            testStoreLock,
		"LockExpiry":      testStoreLockExpiry,
		"Games":           testStoreGames,
		"GameFrames":      testStoreGameFrames,
		"Subscribe":       testStoreSubscribe,
		"SubscribeCancel": testStoreSubscribeCancel,
	}
	for name, test := range tests {
		t.Run(name, func(t *testing.T) { test(t, InMemStore(0, 0)) })
		t.Run(name+"Instrumented", func(t *testing.T) { test(t, InstrumentStore(InMemStore(0, 0))) })
	}
}

func TestInMemStoreFrameBuffer(t *testing.T) {
	ctx := context.Background()
	s := InMemStore(3, 1)
	require.NoError(t, s.CreateGame(ctx, &pb.Game{ID: "a", Width: 4, Height: 4}))
	require.Equal(t, ErrStoreFull, s.CreateGame(ctx, &pb.Game{ID: "b"}))

	for turn := uint64(1); turn <= 5; turn++ {
		require.NoError(t, s.PushGameFrame(ctx, "a", &pb.Frame{Turn: turn}))
	}
	frames, err := s.ListGameFrames(ctx, "a", 10, 0)
	require.NoError(t, err)
	require.Len(t, frames, 3)
	require.Equal(t, uint64(3), frames[0].Turn)
}
