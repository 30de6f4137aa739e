package main

import (
	"github.com/spf13/cobra"
)

// rootCmd is the base command. Subcommands are attached in the init
// functions of serve.go and client.go.
var rootCmd = &cobra.Command{
	Use:          "usersvc",
	Short:        "In-memory user records over HTTP and gRPC",
	Long:         "Run the users API server, or talk to a running one through its gRPC listener.",
	SilenceUsage: true,
}
