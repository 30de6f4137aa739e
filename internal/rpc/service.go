package rpc

import (
	"context"

	"github.com/alfagnish/users-api/internal/users"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

// userService implements UserServiceServer by delegating to a
// users.Store. It holds no state of its own.
type userService struct {
	store *users.Store
}

// NewUserService returns a UserServiceServer backed by store. Change
// notifications come from the store's OnChange hooks.
func NewUserService(store *users.Store) UserServiceServer {
	return &userService{store: store}
}

var errNotFound = status.Error(codes.NotFound, "User not found")

// ListUsers returns every user in insertion order.
func (s *userService) ListUsers(ctx context.Context, _ *emptypb.Empty) (*structpb.ListValue, error) {
	list := s.store.List()
	out := &structpb.ListValue{Values: make([]*structpb.Value, 0, len(list))}
	for _, u := range list {
		out.Values = append(out.Values, structpb.NewStructValue(userToStruct(u)))
	}
	return out, nil
}

// GetUser returns the user with the requested id.
func (s *userService) GetUser(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	id, err := requireID(req)
	if err != nil {
		return nil, err
	}
	u, ok := s.store.Get(id)
	if !ok {
		return nil, errNotFound
	}
	return userToStruct(u), nil
}

// CreateUser stores a new user. Name and email are both required.
func (s *userService) CreateUser(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	name, email := stringField(req, "name"), stringField(req, "email")
	if name == "" || email == "" {
		return nil, status.Error(codes.InvalidArgument, "Name and email required")
	}
	u := s.store.Insert(name, email, nil)
	return userToStruct(u), nil
}

// UpdateUser overwrites name and/or email; empty values keep the
// current field.
func (s *userService) UpdateUser(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	id, err := requireID(req)
	if err != nil {
		return nil, err
	}
	u, ok := s.store.Replace(id, stringField(req, "name"), stringField(req, "email"))
	if !ok {
		return nil, errNotFound
	}
	return userToStruct(u), nil
}

// DeleteUser removes a user and returns the removed record.
func (s *userService) DeleteUser(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	id, err := requireID(req)
	if err != nil {
		return nil, err
	}
	u, ok := s.store.Delete(id)
	if !ok {
		return nil, errNotFound
	}
	return userToStruct(u), nil
}

func requireID(req *structpb.Struct) (int, error) {
	id, present, ok := idField(req)
	if !present {
		return 0, status.Error(codes.InvalidArgument, "id is required")
	}
	if !ok {
		return 0, errNotFound
	}
	return id, nil
}
