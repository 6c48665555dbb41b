package controller

import (
	"context"
	"fmt"
	"net"

	"github.com/battlesnakeio/gridsnake/controller/pb"
	"github.com/battlesnakeio/gridsnake/rules"
	grpcmiddleware "github.com/grpc-ecosystem/go-grpc-middleware"
	grpcrecovery "github.com/grpc-ecosystem/go-grpc-middleware/recovery"
	promgrpc "github.com/grpc-ecosystem/go-grpc-prometheus"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// NewServer will initialize a new Server.
func NewServer(store Store) *Server {
	return &Server{
		Store:   store,
		started: make(chan struct{}),
	}
}

// Server is a grpc server for pb.ControllerServer. Workers reach the store
// through it; writes to a game need the lock token in the call metadata.
type Server struct {
	Store Store

	started chan struct{}
	port    int
	srv     *grpc.Server
}

// Lock should lock a specific game using the passed in ID. No writes to the
// game should happen as long as the lock is valid.
func (s *Server) Lock(ctx context.Context, req *pb.LockRequest) (*pb.LockResponse, error) {
	token := pb.ContextGetLockToken(ctx)
	token, err := s.Store.Lock(ctx, req.ID, token)
	if err != nil {
		return nil, statusError(err)
	}
	return &pb.LockResponse{Token: token}, nil
}

// Unlock should unlock a game, if already unlocked a valid lock token must be
// present
func (s *Server) Unlock(ctx context.Context, req *pb.UnlockRequest) (*pb.UnlockResponse, error) {
	token := pb.ContextGetLockToken(ctx)
	if err := s.Store.Unlock(ctx, req.ID, token); err != nil {
		return nil, statusError(err)
	}
	return &pb.UnlockResponse{}, nil
}

// Pop should pop a game that is unlocked and running. It can be subject to
// race conditions where it is locked immediately after, this is expected.
func (s *Server) Pop(ctx context.Context, _ *pb.PopRequest) (*pb.PopResponse, error) {
	id, err := s.Store.PopGameID(ctx)
	if err != nil {
		return nil, statusError(err)
	}
	return &pb.PopResponse{ID: id}, nil
}

// Get should fetch the game state.
func (s *Server) Get(ctx context.Context, req *pb.GetRequest) (*pb.GetResponse, error) {
	game, err := s.Store.GetGame(ctx, req.ID)
	if err != nil {
		return nil, statusError(err)
	}
	return &pb.GetResponse{Game: game}, nil
}

// PushFrame appends a frame to a game held by the caller.
func (s *Server) PushFrame(ctx context.Context, req *pb.PushFrameRequest) (*pb.PushFrameResponse, error) {
	if req.Frame == nil {
		return nil, status.Error(codes.InvalidArgument, "frame is required")
	}
	if err := req.Frame.Validate(); err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	if err := s.checkLock(ctx, req.ID); err != nil {
		return nil, err
	}
	if err := s.Store.PushGameFrame(ctx, req.ID, req.Frame); err != nil {
		return nil, statusError(err)
	}
	return &pb.PushFrameResponse{}, nil
}

// EndGame moves a game held by the caller to complete or error.
func (s *Server) EndGame(ctx context.Context, req *pb.EndGameRequest) (*pb.EndGameResponse, error) {
	st := rules.GameStatus(req.Status)
	if st != rules.GameStatusComplete && st != rules.GameStatusError {
		return nil, status.Errorf(codes.InvalidArgument, "cannot end a game as %q", req.Status)
	}
	if err := s.checkLock(ctx, req.ID); err != nil {
		return nil, err
	}
	if err := s.Store.SetGameStatus(ctx, req.ID, st); err != nil {
		return nil, statusError(err)
	}
	return &pb.EndGameResponse{}, nil
}

// checkLock refreshes the caller's lock, failing when another token holds it.
func (s *Server) checkLock(ctx context.Context, id string) error {
	token := pb.ContextGetLockToken(ctx)
	if token == "" {
		return status.Error(codes.PermissionDenied, "lock token required")
	}
	if _, err := s.Store.Lock(ctx, id, token); err != nil {
		if errors.Cause(err) == ErrIsLocked {
			return status.Error(codes.PermissionDenied, err.Error())
		}
		return statusError(err)
	}
	return nil
}

func statusError(err error) error {
	var code codes.Code
	switch errors.Cause(err) {
	case ErrNotFound:
		code = codes.NotFound
	case ErrIsLocked:
		code = codes.FailedPrecondition
	case ErrGameExists:
		code = codes.AlreadyExists
	case ErrStoreFull:
		code = codes.ResourceExhausted
	default:
		code = codes.Internal
	}
	return status.Error(code, err.Error())
}

// Serve will intantiate a grpc server.
func (s *Server) Serve(listen string) error {
	lis, err := net.Listen("tcp", listen)
	if err != nil {
		return err
	}
	s.port = lis.Addr().(*net.TCPAddr).Port

	promgrpc.EnableHandlingTimeHistogram()
	s.srv = grpc.NewServer(grpc.UnaryInterceptor(grpcmiddleware.ChainUnaryServer(
		promgrpc.UnaryServerInterceptor,
		grpcrecovery.UnaryServerInterceptor(grpcrecovery.WithRecoveryHandler(recoverPanic)),
	)))
	pb.RegisterControllerServer(s.srv, s)
	promgrpc.Register(s.srv)
	close(s.started)
	return s.srv.Serve(lis)
}

func recoverPanic(p interface{}) error {
	log.WithField("panic", p).Error("controller call panicked")
	return status.Errorf(codes.Internal, "%v", p)
}

// Stop ends every open call and closes the listener.
func (s *Server) Stop() {
	<-s.started
	s.srv.GracefulStop()
}

// DialAddress will return a localhost address to reach the server. This is
// useful if the server will select it's own port.
func (s *Server) DialAddress() string {
	<-s.started
	return fmt.Sprintf("127.0.0.1:%d", s.port)
}

// Wait will wait until the server has started.
func (s *Server) Wait() { <-s.started }
