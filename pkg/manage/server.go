package manage

import (
	"context"

	"google.golang.org/grpc"
)

// ManagerServer is the server side of the control RPC. The production
// manager lives in another process; this contract exists for in-process
// test servers and local tooling.
type ManagerServer interface {
	Call(ctx context.Context, req *Request) (*Reply, error)
}

// 无生成代码，服务描述手写
var managerServiceDesc = grpc.ServiceDesc{
	ServiceName: "fasttrader.Manager",
	HandlerType: (*ManagerServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "Call",
			Handler:    callHandler,
		},
	},
	Streams: []grpc.StreamDesc{},
}

// RegisterManagerServer registers srv on a grpc server.
func RegisterManagerServer(s *grpc.Server, srv ManagerServer) {
	s.RegisterService(&managerServiceDesc, srv)
}

func callHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(Request)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ManagerServer).Call(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: callMethod,
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(ManagerServer).Call(ctx, req.(*Request))
	}
	return interceptor(ctx, in, info, handler)
}
