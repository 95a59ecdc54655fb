package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in to the marketplace",
	Long: `Authenticate with the marketplace and store the issued credential
pair. A previous session, if any, is replaced.`,
	RunE: runLoginCommand,
}

var loginEmail string

func init() {
	loginCmd.Flags().StringVar(&loginEmail, "email", "", "account email (prompted if omitted)")
	rootCmd.AddCommand(loginCmd)
}

func runLoginCommand(cmd *cobra.Command, args []string) error {
	rt, err := newRuntime()
	if err != nil {
		return err
	}

	reader := bufio.NewReader(os.Stdin)

	email := loginEmail
	if email == "" {
		fmt.Print("Email: ")
		line, err := reader.ReadString('\n')
		if err != nil {
			return fmt.Errorf("failed to read email: %w", err)
		}
		email = strings.TrimSpace(line)
	}

	fmt.Print("Password: ")
	line, err := reader.ReadString('\n')
	if err != nil {
		return fmt.Errorf("failed to read password: %w", err)
	}
	password := strings.TrimSpace(line)

	ctx, cancel := context.WithTimeout(context.Background(), rt.cfg.RequestTimeoutDuration())
	defer cancel()

	user, err := rt.client.Login(ctx, email, password)
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	fmt.Printf("Signed in as %s (%s)\n", user.Username, user.Role)
	return nil
}
