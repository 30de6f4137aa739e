package rpc

import (
	"context"
	"fmt"

	"github.com/alfagnish/users-api/internal/users"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

// Client is a typed client for the user service.
type Client struct {
	conn *grpc.ClientConn
}

// NewClient creates a client for the server at addr. The connection is
// established in the background (no blocking dial).
func NewClient(addr string, opts ...grpc.DialOption) (*Client, error) {
	opts = append([]grpc.DialOption{grpc.WithTransportCredentials(insecure.NewCredentials())}, opts...)
	conn, err := grpc.NewClient(addr, opts...)
	if err != nil {
		return nil, fmt.Errorf("grpc dial %s: %w", addr, err)
	}
	return &Client{conn: conn}, nil
}

// Conn returns the underlying gRPC client connection.
func (c *Client) Conn() *grpc.ClientConn {
	return c.conn
}

// Close closes the underlying gRPC connection.
func (c *Client) Close() error {
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

// ListUsers returns every user.
func (c *Client) ListUsers(ctx context.Context) ([]users.User, error) {
	out := new(structpb.ListValue)
	if err := c.conn.Invoke(ctx, MethodListUsers, &emptypb.Empty{}, out); err != nil {
		return nil, err
	}
	list := make([]users.User, 0, len(out.GetValues()))
	for _, v := range out.GetValues() {
		list = append(list, structToUser(v.GetStructValue()))
	}
	return list, nil
}

// GetUser returns the user with the given id.
func (c *Client) GetUser(ctx context.Context, id int) (users.User, error) {
	return c.call(ctx, MethodGetUser, map[string]*structpb.Value{
		"id": structpb.NewNumberValue(float64(id)),
	})
}

// CreateUser creates a user.
func (c *Client) CreateUser(ctx context.Context, name, email string) (users.User, error) {
	return c.call(ctx, MethodCreateUser, map[string]*structpb.Value{
		"name":  structpb.NewStringValue(name),
		"email": structpb.NewStringValue(email),
	})
}

// UpdateUser replaces name and/or email of a user. Empty values keep the
// current field.
func (c *Client) UpdateUser(ctx context.Context, id int, name, email string) (users.User, error) {
	return c.call(ctx, MethodUpdateUser, map[string]*structpb.Value{
		"id":    structpb.NewNumberValue(float64(id)),
		"name":  structpb.NewStringValue(name),
		"email": structpb.NewStringValue(email),
	})
}

// DeleteUser removes a user and returns the removed record.
func (c *Client) DeleteUser(ctx context.Context, id int) (users.User, error) {
	return c.call(ctx, MethodDeleteUser, map[string]*structpb.Value{
		"id": structpb.NewNumberValue(float64(id)),
	})
}

func (c *Client) call(ctx context.Context, method string, fields map[string]*structpb.Value) (users.User, error) {
	out := new(structpb.Struct)
	if err := c.conn.Invoke(ctx, method, &structpb.Struct{Fields: fields}, out); err != nil {
		return users.User{}, err
	}
	return structToUser(out), nil
}
