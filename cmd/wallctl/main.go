// Package main provides wallctl, the command line surface for submitting
// and moderating wall testimonials.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/adtechademy/wall/pkg/client"
	"github.com/spf13/cobra"
)

var (
	version = "1.2.0"

	serverURL  string
	adminToken string
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	rootCmd := &cobra.Command{
		Use:     "wallctl",
		Short:   "Submit and moderate testimonials on the wall service",
		Version: version,
	}

	rootCmd.PersistentFlags().StringVarP(&serverURL, "server", "s", envOr("WALL_SERVER", "http://localhost:8442"), "Wall service base URL")
	rootCmd.PersistentFlags().StringVarP(&adminToken, "token", "t", os.Getenv("WALL_TOKEN"), "Moderator bearer token")

	rootCmd.AddCommand(
		newListCmd(),
		newSubmitCmd(),
		newApproveCmd(),
		newDeleteCmd(),
		newWatchCmd(),
	)

	return rootCmd.ExecuteContext(ctx)
}

func envOr(key, fallback string) string {
	if val := os.Getenv(key); len(val) > 0 {
		return val
	}
	return fallback
}

func newStore() *client.Client {
	return client.New(serverURL, adminToken)
}
