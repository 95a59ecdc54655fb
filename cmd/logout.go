package main

import (
	"context"

	"github.com/spf13/cobra"
)

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "End the current session",
	Long: `Revoke the session on the server (best effort) and clear the locally
stored credentials. The local session ends even if the server cannot be
reached.`,
	RunE: runLogoutCommand,
}

func init() {
	rootCmd.AddCommand(logoutCmd)
}

func runLogoutCommand(cmd *cobra.Command, args []string) error {
	rt, err := newRuntime()
	if err != nil {
		return err
	}

	rt.session.Logout(context.Background())
	return nil
}
