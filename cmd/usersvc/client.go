package main

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/alfagnish/users-api/internal/config"
	"github.com/alfagnish/users-api/internal/rpc"
	"github.com/spf13/cobra"
)

var (
	clientAddr    string
	clientTimeout time.Duration

	userID    int
	userName  string
	userEmail string
)

var clientCmd = &cobra.Command{
	Use:   "client",
	Short: "Interact with a running server over gRPC",
	Long: `Interact with a running server over gRPC.

The gRPC listener is off by default. Start the server with
GRPC_PORT=50051 (or serve --grpc-port 50051) before using these
commands. The target address defaults to USERSVC_ADDR, or
127.0.0.1:50051 when unset.`,
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all users",
	RunE: withClient(func(ctx context.Context, c *rpc.Client) (any, error) {
		return c.ListUsers(ctx)
	}),
}

var getCmd = &cobra.Command{
	Use:   "get",
	Short: "Get a user by id",
	RunE: withClient(func(ctx context.Context, c *rpc.Client) (any, error) {
		return c.GetUser(ctx, userID)
	}),
}

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a user",
	PreRunE: func(cmd *cobra.Command, args []string) error {
		if userName == "" || userEmail == "" {
			return errors.New("both --name and --email must be specified")
		}
		return nil
	},
	RunE: withClient(func(ctx context.Context, c *rpc.Client) (any, error) {
		return c.CreateUser(ctx, userName, userEmail)
	}),
}

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Replace a user's name and/or email",
	RunE: withClient(func(ctx context.Context, c *rpc.Client) (any, error) {
		return c.UpdateUser(ctx, userID, userName, userEmail)
	}),
}

var deleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Delete a user by id",
	RunE: withClient(func(ctx context.Context, c *rpc.Client) (any, error) {
		return c.DeleteUser(ctx, userID)
	}),
}

// withClient dials the server, runs fn and prints its result as JSON.
func withClient(fn func(ctx context.Context, c *rpc.Client) (any, error)) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		c, err := rpc.NewClient(clientAddr)
		if err != nil {
			return err
		}
		defer c.Close()

		ctx, cancel := context.WithTimeout(cmd.Context(), clientTimeout)
		defer cancel()

		out, err := fn(ctx, c)
		if err != nil {
			return err
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}
}

func init() {
	clientCmd.PersistentFlags().StringVarP(&clientAddr, "addr", "a", config.FromEnv().ClientAddr, "gRPC server address")
	clientCmd.PersistentFlags().DurationVar(&clientTimeout, "timeout", 10*time.Second, "Per-call timeout")

	for _, c := range []*cobra.Command{getCmd, updateCmd, deleteCmd} {
		c.Flags().IntVarP(&userID, "id", "i", 0, "User id")
		c.MarkFlagRequired("id")
	}
	for _, c := range []*cobra.Command{createCmd, updateCmd} {
		c.Flags().StringVarP(&userName, "name", "n", "", "User name")
		c.Flags().StringVarP(&userEmail, "email", "e", "", "User email")
	}

	clientCmd.AddCommand(listCmd, getCmd, createCmd, updateCmd, deleteCmd)
	rootCmd.AddCommand(clientCmd)
}
