package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"freelance-client/internal/realtime"

	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Stream marketplace notifications",
	Long: `Connect to the marketplace notification stream and print messages as
they arrive. Runs until interrupted.`,
	RunE: runWatchCommand,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatchCommand(cmd *cobra.Command, args []string) error {
	rt, err := newRuntime()
	if err != nil {
		return err
	}

	if !rt.session.RequireAuth() {
		return fmt.Errorf("not authorized")
	}

	rtClient, err := realtime.NewClient(rt.cfg, rt.store, rt.client, rt.logger)
	if err != nil {
		return fmt.Errorf("failed to create realtime client: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	fmt.Println("Watching for notifications, Ctrl-C to stop.")

	err = rtClient.Listen(ctx, func(n realtime.Notification) {
		fmt.Printf("[%s] %s: %s\n", n.Timestamp.Format("15:04:05"), n.Type, n.Message)
	})
	if err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}
