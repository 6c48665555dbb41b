package controller

import (
	"context"
	"testing"

	"github.com/battlesnakeio/gridsnake/controller/pb"
	"github.com/battlesnakeio/gridsnake/rules"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func serve(t *testing.T, store Store) (pb.ControllerClient, func()) {
	srv := NewServer(store)
	go func() {
		if err := srv.Serve("127.0.0.1:0"); err != nil {
			panic(err)
		}
	}()
	client, err := pb.Dial(srv.DialAddress())
	require.NoError(t, err)
	return client, srv.Stop
}

func requireCode(t *testing.T, code codes.Code, err error) {
	s, ok := status.FromError(err)
	require.True(t, ok, "%v", err)
	require.Equal(t, code, s.Code(), "%v", err)
}

func TestServerLockFlow(t *testing.T) {
	ctx := context.Background()
	store := InMemStore(0, 0)
	require.NoError(t, store.CreateGame(ctx, &pb.Game{ID: "1", Status: string(rules.GameStatusRunning), Width: 8, Height: 8}))
	client, stop := serve(t, store)
	defer stop()

	pop, err := client.Pop(ctx, &pb.PopRequest{})
	require.NoError(t, err)
	require.Equal(t, "1", pop.ID)

	lr, err := client.Lock(ctx, &pb.LockRequest{ID: "1"})
	require.NoError(t, err)
	require.NotEmpty(t, lr.Token)
	locked := pb.ContextWithLockToken(ctx, lr.Token)

	// A second worker cannot take the lock.
	_, err = client.Lock(ctx, &pb.LockRequest{ID: "1"})
	requireCode(t, codes.FailedPrecondition, err)

	// The holder extends it.
	again, err := client.Lock(locked, &pb.LockRequest{ID: "1"})
	require.NoError(t, err)
	require.Equal(t, lr.Token, again.Token)

	// Locked games are not popped.
	_, err = client.Pop(ctx, &pb.PopRequest{})
	requireCode(t, codes.NotFound, err)

	_, err = client.Unlock(pb.ContextWithLockToken(ctx, "other"), &pb.UnlockRequest{ID: "1"})
	requireCode(t, codes.FailedPrecondition, err)
	_, err = client.Unlock(locked, &pb.UnlockRequest{ID: "1"})
	require.NoError(t, err)

	pop, err = client.Pop(ctx, &pb.PopRequest{})
	require.NoError(t, err)
	require.Equal(t, "1", pop.ID)
}

func TestServerGet(t *testing.T) {
	ctx := context.Background()
	store := InMemStore(0, 0)
	require.NoError(t, store.CreateGame(ctx, &pb.Game{ID: "1", Status: string(rules.GameStatusRunning), Width: 8, Height: 6, Seed: 4}))
	client, stop := serve(t, store)
	defer stop()

	resp, err := client.Get(ctx, &pb.GetRequest{ID: "1"})
	require.NoError(t, err)
	require.Equal(t, uint32(8), resp.Game.Width)
	require.Equal(t, uint32(6), resp.Game.Height)
	require.Equal(t, int64(4), resp.Game.Seed)

	_, err = client.Get(ctx, &pb.GetRequest{ID: "missing"})
	requireCode(t, codes.NotFound, err)
}

func TestServerWritesNeedLock(t *testing.T) {
	ctx := context.Background()
	store := InMemStore(0, 0)
	require.NoError(t, store.CreateGame(ctx, &pb.Game{ID: "1", Status: string(rules.GameStatusRunning), Width: 8, Height: 8}))
	client, stop := serve(t, store)
	defer stop()

	frame := &pb.Frame{
		Turn:  1,
		Rows:  []uint32{2},
		Cols:  []uint32{3},
		Cells: []uint32{uint32(rules.CellHead)},
		Len:   1,
		Score: 1,
	}
	end := &pb.EndGameRequest{ID: "1", Status: string(rules.GameStatusComplete)}

	_, err := client.PushFrame(ctx, &pb.PushFrameRequest{ID: "1", Frame: frame})
	requireCode(t, codes.PermissionDenied, err)
	_, err = client.EndGame(ctx, end)
	requireCode(t, codes.PermissionDenied, err)

	lr, err := client.Lock(ctx, &pb.LockRequest{ID: "1"})
	require.NoError(t, err)

	// Someone else's token is refused while the lock is held.
	other := pb.ContextWithLockToken(ctx, "other")
	_, err = client.PushFrame(other, &pb.PushFrameRequest{ID: "1", Frame: frame})
	requireCode(t, codes.PermissionDenied, err)

	locked := pb.ContextWithLockToken(ctx, lr.Token)
	_, err = client.PushFrame(locked, &pb.PushFrameRequest{ID: "1", Frame: frame})
	require.NoError(t, err)

	frames, err := store.ListGameFrames(ctx, "1", 10, 0)
	require.NoError(t, err)
	require.Len(t, frames, 1)
	require.Equal(t, frame.Cells, frames[0].Cells)

	_, err = client.EndGame(locked, end)
	require.NoError(t, err)
	g, err := store.GetGame(ctx, "1")
	require.NoError(t, err)
	require.Equal(t, string(rules.GameStatusComplete), g.Status)
}

func TestServerRejectsBadWrites(t *testing.T) {
	ctx := context.Background()
	store := InMemStore(0, 0)
	require.NoError(t, store.CreateGame(ctx, &pb.Game{ID: "1", Status: string(rules.GameStatusRunning), Width: 8, Height: 8}))
	client, stop := serve(t, store)
	defer stop()

	lr, err := client.Lock(ctx, &pb.LockRequest{ID: "1"})
	require.NoError(t, err)
	locked := pb.ContextWithLockToken(ctx, lr.Token)

	_, err = client.PushFrame(locked, &pb.PushFrameRequest{ID: "1"})
	requireCode(t, codes.InvalidArgument, err)

	ragged := &pb.Frame{Len: 2, Rows: []uint32{1}, Cols: []uint32{1, 2}, Cells: []uint32{0, 1}}
	_, err = client.PushFrame(locked, &pb.PushFrameRequest{ID: "1", Frame: ragged})
	requireCode(t, codes.InvalidArgument, err)

	unknown := &pb.Frame{Len: 1, Rows: []uint32{1}, Cols: []uint32{1}, Cells: []uint32{259}}
	_, err = client.PushFrame(locked, &pb.PushFrameRequest{ID: "1", Frame: unknown})
	requireCode(t, codes.InvalidArgument, err)

	_, err = client.EndGame(locked, &pb.EndGameRequest{ID: "1", Status: string(rules.GameStatusRunning)})
	requireCode(t, codes.InvalidArgument, err)

	missing := pb.ContextWithLockToken(ctx, "token")
	_, err = client.PushFrame(missing, &pb.PushFrameRequest{ID: "missing", Frame: &pb.Frame{}})
	requireCode(t, codes.NotFound, err)
}

func TestStatusError(t *testing.T) {
	tests := map[error]codes.Code{
		ErrNotFound:   codes.NotFound,
		ErrIsLocked:   codes.FailedPrecondition,
		ErrGameExists: codes.AlreadyExists,
		ErrStoreFull:  codes.ResourceExhausted,
	}
	for err, code := range tests {
		s, ok := status.FromError(statusError(err))
		require.True(t, ok)
		require.Equal(t, code, s.Code())
	}
}
