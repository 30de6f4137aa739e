package rpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName is the fully-qualified gRPC service name.
const ServiceName = "users.v1.UserService"

// Full method names.
const (
	MethodListUsers  = "/" + ServiceName + "/ListUsers"
	MethodGetUser    = "/" + ServiceName + "/GetUser"
	MethodCreateUser = "/" + ServiceName + "/CreateUser"
	MethodUpdateUser = "/" + ServiceName + "/UpdateUser"
	MethodDeleteUser = "/" + ServiceName + "/DeleteUser"
)

// UserServiceServer is the server API for the user service. Requests and
// replies use the well-known Struct type; a user is encoded as
// {"id": number, "name": string, "email": string, "tags": [string]}.
type UserServiceServer interface {
	ListUsers(context.Context, *emptypb.Empty) (*structpb.ListValue, error)
	GetUser(context.Context, *structpb.Struct) (*structpb.Struct, error)
	CreateUser(context.Context, *structpb.Struct) (*structpb.Struct, error)
	UpdateUser(context.Context, *structpb.Struct) (*structpb.Struct, error)
	DeleteUser(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

// RegisterUserServiceServer registers srv on s.
func RegisterUserServiceServer(s grpc.ServiceRegistrar, srv UserServiceServer) {
	s.RegisterService(&userServiceDesc, srv)
}

var userServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*UserServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "ListUsers", Handler: listUsersHandler},
		{MethodName: "GetUser", Handler: structHandler(MethodGetUser, UserServiceServer.GetUser)},
		{MethodName: "CreateUser", Handler: structHandler(MethodCreateUser, UserServiceServer.CreateUser)},
		{MethodName: "UpdateUser", Handler: structHandler(MethodUpdateUser, UserServiceServer.UpdateUser)},
		{MethodName: "DeleteUser", Handler: structHandler(MethodDeleteUser, UserServiceServer.DeleteUser)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "users/v1/users.proto",
}

func listUsersHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(UserServiceServer).ListUsers(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: MethodListUsers}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(UserServiceServer).ListUsers(ctx, req.(*emptypb.Empty))
	}
	return interceptor(ctx, in, info, handler)
}

// structHandler builds the method handler for the Struct-in, Struct-out
// calls, which differ only in name and target method.
func structHandler(
	fullMethod string,
	call func(UserServiceServer, context.Context, *structpb.Struct) (*structpb.Struct, error),
) func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	return func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(UserServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req interface{}) (interface{}, error) {
			return call(srv.(UserServiceServer), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}
