package main

import (
	"fmt"
	"time"

	"freelance-client/internal/token"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show session status",
	Long: `Show whether a session is present locally and, when the access
credential is a JWT, what it claims about itself. This is a local check
only; the server remains the authority on whether the credential is still
accepted.`,
	RunE: runStatusCommand,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatusCommand(cmd *cobra.Command, args []string) error {
	rt, err := newRuntime()
	if err != nil {
		return err
	}

	access, ok := rt.store.Access()
	if !ok {
		fmt.Println("Not signed in.")
		return nil
	}

	fmt.Println("Signed in.")

	info, err := token.Inspect(access)
	if err != nil {
		// Opaque credential, nothing more to show
		return nil
	}

	if info.Subject != "" {
		fmt.Printf("  Subject:    %s\n", info.Subject)
	}
	if remaining, ok := info.ExpiresIn(time.Now()); ok {
		if remaining > 0 {
			fmt.Printf("  Expires in: %s\n", remaining.Round(time.Second))
		} else {
			fmt.Printf("  Expired %s ago (will refresh on next request)\n", (-remaining).Round(time.Second))
		}
	}
	if _, ok := rt.store.Refresh(); ok {
		fmt.Println("  Refresh credential present.")
	} else {
		fmt.Println("  No refresh credential; session ends when the access credential expires.")
	}
	return nil
}
