package grpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "browserctl.v1.BrowserController"

// Full method names.
const (
	MethodStart   = "/" + ServiceName + "/Start"
	MethodStop    = "/" + ServiceName + "/Stop"
	MethodGetURL  = "/" + ServiceName + "/GetURL"
	MethodCleanup = "/" + ServiceName + "/Cleanup"
	MethodStatus  = "/" + ServiceName + "/Status"
)

// BrowserControllerServer is the server API for the BrowserController service.
type BrowserControllerServer interface {
	Start(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Stop(context.Context, *structpb.Struct) (*emptypb.Empty, error)
	GetURL(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Cleanup(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Status(context.Context, *emptypb.Empty) (*structpb.Struct, error)
}

// RegisterBrowserControllerServer registers srv on s.
func RegisterBrowserControllerServer(s grpc.ServiceRegistrar, srv BrowserControllerServer) {
	s.RegisterService(&ServiceDesc, srv)
}

// ServiceDesc describes the BrowserController service.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*BrowserControllerServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Start", Handler: startHandler},
		{MethodName: "Stop", Handler: stopHandler},
		{MethodName: "GetURL", Handler: getURLHandler},
		{MethodName: "Cleanup", Handler: cleanupHandler},
		{MethodName: "Status", Handler: statusHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "browserctl/v1/controller.proto",
}

func startHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(BrowserControllerServer).Start(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: MethodStart}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(BrowserControllerServer).Start(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

func stopHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(BrowserControllerServer).Stop(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: MethodStop}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(BrowserControllerServer).Stop(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

func getURLHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(BrowserControllerServer).GetURL(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: MethodGetURL}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(BrowserControllerServer).GetURL(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

func cleanupHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(BrowserControllerServer).Cleanup(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: MethodCleanup}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(BrowserControllerServer).Cleanup(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

func statusHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(BrowserControllerServer).Status(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: MethodStatus}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(BrowserControllerServer).Status(ctx, req.(*emptypb.Empty))
	}
	return interceptor(ctx, in, info, handler)
}
