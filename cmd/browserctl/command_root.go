package main

import (
	"context"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	grpcapi "github.com/GriffinCanCode/browserctl/internal/api/grpc"
)

const defaultAddress = "localhost:50051"

type rootOptions struct {
	addr    string
	timeout time.Duration
}

func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:           "browserctl",
		Short:         "Control a local Chrome or Firefox through a browserctl server",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.addr, "addr", envAddress(), "browserctl gRPC address")
	root.PersistentFlags().DurationVar(&opts.timeout, "timeout", 35*time.Second, "request timeout")

	root.AddCommand(newStartCmd(opts))
	root.AddCommand(newStopCmd(opts))
	root.AddCommand(newURLCmd(opts))
	root.AddCommand(newCleanupCmd(opts))
	root.AddCommand(newStatusCmd(opts))

	return root
}

func envAddress() string {
	if addr := strings.TrimSpace(os.Getenv("BROWSERCTL_ADDRESS")); addr != "" {
		return addr
	}
	return defaultAddress
}

// call dials the server and runs fn with a bounded context.
func (o *rootOptions) call(cmd *cobra.Command, fn func(ctx context.Context, c *grpcapi.Client) error) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), o.timeout)
	defer cancel()

	client, err := grpcapi.Dial(o.addr)
	if err != nil {
		return err
	}
	defer client.Close()

	return describe(fn(ctx, client))
}
