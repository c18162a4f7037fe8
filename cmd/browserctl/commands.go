package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	grpcapi "github.com/GriffinCanCode/browserctl/internal/api/grpc"
)

func newStartCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "start <browser> <url>",
		Short: "Launch a browser at url",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.call(cmd, func(ctx context.Context, c *grpcapi.Client) error {
				inst, err := c.Start(ctx, args[0], args[1])
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s started (pid %d, %s)\n", inst.Kind.DisplayName(), inst.PID, inst.ID)
				return nil
			})
		},
	}
}

func newStopCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "stop <browser>",
		Short: "Terminate a running browser",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.call(cmd, func(ctx context.Context, c *grpcapi.Client) error {
				if err := c.Stop(ctx, args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s stopped\n", args[0])
				return nil
			})
		},
	}
}

func newURLCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "url <browser>",
		Aliases: []string{"geturl"},
		Short:   "Print the address the browser is showing",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.call(cmd, func(ctx context.Context, c *grpcapi.Client) error {
				url, err := c.GetURL(ctx, args[0])
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), url)
				return nil
			})
		},
	}
}

func newCleanupCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "cleanup <browser>",
		Short: "Delete the default profile of a stopped browser",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.call(cmd, func(ctx context.Context, c *grpcapi.Client) error {
				res, err := c.Cleanup(ctx, args[0])
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				for _, d := range res.Dirs {
					fmt.Fprintf(out, "removed %s\n", d)
				}
				fmt.Fprintf(out, "%d files, %s\n", res.Files, humanBytes(res.Bytes))
				return nil
			})
		},
	}
}

func newStatusCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show every supported browser and its state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.call(cmd, func(ctx context.Context, c *grpcapi.Client) error {
				list, err := c.Status(ctx)
				if err != nil {
					return err
				}
				printStatusTable(cmd.OutOrStdout(), list)
				return nil
			})
		},
	}
}
