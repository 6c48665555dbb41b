package pb

import (
	"context"

	"github.com/gogo/protobuf/proto"
	"google.golang.org/grpc"
)

// LockRequest locks a game for a worker. A token already held is passed in
// the call metadata to extend the lock.
type LockRequest struct {
	ID string `protobuf:"bytes,1,opt,name=id,proto3" json:"id"`
}

func (m *LockRequest) Reset()         { *m = LockRequest{} }
func (m *LockRequest) String() string { return proto.CompactTextString(m) }
func (*LockRequest) ProtoMessage()    {}

type LockResponse struct {
	Token string `protobuf:"bytes,1,opt,name=token,proto3" json:"token"`
}

func (m *LockResponse) Reset()         { *m = LockResponse{} }
func (m *LockResponse) String() string { return proto.CompactTextString(m) }
func (*LockResponse) ProtoMessage()    {}

type UnlockRequest struct {
	ID string `protobuf:"bytes,1,opt,name=id,proto3" json:"id"`
}

func (m *UnlockRequest) Reset()         { *m = UnlockRequest{} }
func (m *UnlockRequest) String() string { return proto.CompactTextString(m) }
func (*UnlockRequest) ProtoMessage()    {}

type UnlockResponse struct{}

func (m *UnlockResponse) Reset()         { *m = UnlockResponse{} }
func (m *UnlockResponse) String() string { return proto.CompactTextString(m) }
func (*UnlockResponse) ProtoMessage()    {}

type PopRequest struct{}

func (m *PopRequest) Reset()         { *m = PopRequest{} }
func (m *PopRequest) String() string { return proto.CompactTextString(m) }
func (*PopRequest) ProtoMessage()    {}

type PopResponse struct {
	ID string `protobuf:"bytes,1,opt,name=id,proto3" json:"id"`
}

func (m *PopResponse) Reset()         { *m = PopResponse{} }
func (m *PopResponse) String() string { return proto.CompactTextString(m) }
func (*PopResponse) ProtoMessage()    {}

type GetRequest struct {
	ID string `protobuf:"bytes,1,opt,name=id,proto3" json:"id"`
}

func (m *GetRequest) Reset()         { *m = GetRequest{} }
func (m *GetRequest) String() string { return proto.CompactTextString(m) }
func (*GetRequest) ProtoMessage()    {}

type GetResponse struct {
	Game *Game `protobuf:"bytes,1,opt,name=game" json:"game"`
}

func (m *GetResponse) Reset()         { *m = GetResponse{} }
func (m *GetResponse) String() string { return proto.CompactTextString(m) }
func (*GetResponse) ProtoMessage()    {}

// PushFrameRequest appends a frame to a locked game.
type PushFrameRequest struct {
	ID    string `protobuf:"bytes,1,opt,name=id,proto3" json:"id"`
	Frame *Frame `protobuf:"bytes,2,opt,name=frame" json:"frame"`
}

func (m *PushFrameRequest) Reset()         { *m = PushFrameRequest{} }
func (m *PushFrameRequest) String() string { return proto.CompactTextString(m) }
func (*PushFrameRequest) ProtoMessage()    {}

type PushFrameResponse struct{}

func (m *PushFrameResponse) Reset()         { *m = PushFrameResponse{} }
func (m *PushFrameResponse) String() string { return proto.CompactTextString(m) }
func (*PushFrameResponse) ProtoMessage()    {}

// EndGameRequest moves a locked game out of the running state.
type EndGameRequest struct {
	ID     string `protobuf:"bytes,1,opt,name=id,proto3" json:"id"`
	Status string `protobuf:"bytes,2,opt,name=status,proto3" json:"status"`
}

func (m *EndGameRequest) Reset()         { *m = EndGameRequest{} }
func (m *EndGameRequest) String() string { return proto.CompactTextString(m) }
func (*EndGameRequest) ProtoMessage()    {}

type EndGameResponse struct{}

func (m *EndGameResponse) Reset()         { *m = EndGameResponse{} }
func (m *EndGameResponse) String() string { return proto.CompactTextString(m) }
func (*EndGameResponse) ProtoMessage()    {}

// ControllerClient is the worker side of the controller service.
type ControllerClient interface {
	Lock(ctx context.Context, in *LockRequest, opts ...grpc.CallOption) (*LockResponse, error)
	Unlock(ctx context.Context, in *UnlockRequest, opts ...grpc.CallOption) (*UnlockResponse, error)
	Pop(ctx context.Context, in *PopRequest, opts ...grpc.CallOption) (*PopResponse, error)
	Get(ctx context.Context, in *GetRequest, opts ...grpc.CallOption) (*GetResponse, error)
	PushFrame(ctx context.Context, in *PushFrameRequest, opts ...grpc.CallOption) (*PushFrameResponse, error)
	EndGame(ctx context.Context, in *EndGameRequest, opts ...grpc.CallOption) (*EndGameResponse, error)
}

// ControllerServer is implemented by the controller.
type ControllerServer interface {
	Lock(context.Context, *LockRequest) (*LockResponse, error)
	Unlock(context.Context, *UnlockRequest) (*UnlockResponse, error)
	Pop(context.Context, *PopRequest) (*PopResponse, error)
	Get(context.Context, *GetRequest) (*GetResponse, error)
	PushFrame(context.Context, *PushFrameRequest) (*PushFrameResponse, error)
	EndGame(context.Context, *EndGameRequest) (*EndGameResponse, error)
}

const serviceName = "pb.Controller"

type controllerClient struct {
	cc *grpc.ClientConn
}

// NewControllerClient wraps a connection to a controller.
func NewControllerClient(cc *grpc.ClientConn) ControllerClient {
	return &controllerClient{cc}
}

func (c *controllerClient) invoke(ctx context.Context, method string, in, out interface{}, opts []grpc.CallOption) error {
	return grpc.Invoke(ctx, "/"+serviceName+"/"+method, in, out, c.cc, opts...)
}

func (c *controllerClient) Lock(ctx context.Context, in *LockRequest, opts ...grpc.CallOption) (*LockResponse, error) {
	out := new(LockResponse)
	if err := c.invoke(ctx, "Lock", in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *controllerClient) Unlock(ctx context.Context, in *UnlockRequest, opts ...grpc.CallOption) (*UnlockResponse, error) {
	out := new(UnlockResponse)
	if err := c.invoke(ctx, "Unlock", in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *controllerClient) Pop(ctx context.Context, in *PopRequest, opts ...grpc.CallOption) (*PopResponse, error) {
	out := new(PopResponse)
	if err := c.invoke(ctx, "Pop", in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *controllerClient) Get(ctx context.Context, in *GetRequest, opts ...grpc.CallOption) (*GetResponse, error) {
	out := new(GetResponse)
	if err := c.invoke(ctx, "Get", in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *controllerClient) PushFrame(ctx context.Context, in *PushFrameRequest, opts ...grpc.CallOption) (*PushFrameResponse, error) {
	out := new(PushFrameResponse)
	if err := c.invoke(ctx, "PushFrame", in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *controllerClient) EndGame(ctx context.Context, in *EndGameRequest, opts ...grpc.CallOption) (*EndGameResponse, error) {
	out := new(EndGameResponse)
	if err := c.invoke(ctx, "EndGame", in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

// RegisterControllerServer registers srv on a grpc server.
func RegisterControllerServer(s *grpc.Server, srv ControllerServer) {
	s.RegisterService(&controllerServiceDesc, srv)
}

type unaryCall func(srv ControllerServer, ctx context.Context, req interface{}) (interface{}, error)

// unaryMethod decodes a request built by newReq and passes it through the
// server interceptor to call.
func unaryMethod(name string, newReq func() interface{}, call unaryCall) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
			in := newReq()
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(ControllerServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{
				Server:     srv,
				FullMethod: "/" + serviceName + "/" + name,
			}
			handler := func(ctx context.Context, req interface{}) (interface{}, error) {
				return call(srv.(ControllerServer), ctx, req)
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

var controllerServiceDesc = grpc.ServiceDesc{
	ServiceName: serviceName,
	HandlerType: (*ControllerServer)(nil),
	Methods: []grpc.MethodDesc{
		unaryMethod("Lock", func() interface{} { return new(LockRequest) },
			func(srv ControllerServer, ctx context.Context, req interface{}) (interface{}, error) {
				return srv.Lock(ctx, req.(*LockRequest))
			}),
		unaryMethod("Unlock", func() interface{} { return new(UnlockRequest) },
			func(srv ControllerServer, ctx context.Context, req interface{}) (interface{}, error) {
				return srv.Unlock(ctx, req.(*UnlockRequest))
			}),
		unaryMethod("Pop", func() interface{} { return new(PopRequest) },
			func(srv ControllerServer, ctx context.Context, req interface{}) (interface{}, error) {
				return srv.Pop(ctx, req.(*PopRequest))
			}),
		unaryMethod("Get", func() interface{} { return new(GetRequest) },
			func(srv ControllerServer, ctx context.Context, req interface{}) (interface{}, error) {
				return srv.Get(ctx, req.(*GetRequest))
			}),
		unaryMethod("PushFrame", func() interface{} { return new(PushFrameRequest) },
			func(srv ControllerServer, ctx context.Context, req interface{}) (interface{}, error) {
				return srv.PushFrame(ctx, req.(*PushFrameRequest))
			}),
		unaryMethod("EndGame", func() interface{} { return new(EndGameRequest) },
			func(srv ControllerServer, ctx context.Context, req interface{}) (interface{}, error) {
				return srv.EndGame(ctx, req.(*EndGameRequest))
			}),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "controller.proto",
}
