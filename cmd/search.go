package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"freelance-client/internal/client"
	"freelance-client/internal/debounce"

	"github.com/spf13/cobra"
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search freelancers",
	Long: `Search the marketplace for freelancers. With a query argument a single
search is performed; without one an interactive prompt runs the search as
you type, debounced so only the final query of a burst hits the server.`,
	RunE: runSearchCommand,
}

func init() {
	rootCmd.AddCommand(searchCmd)
}

func runSearchCommand(cmd *cobra.Command, args []string) error {
	rt, err := newRuntime()
	if err != nil {
		return err
	}

	if !rt.session.RequireAuth() {
		return fmt.Errorf("not authorized")
	}

	ctx := context.Background()

	if len(args) > 0 {
		return searchOnce(ctx, rt.client, strings.Join(args, " "))
	}

	return searchInteractive(ctx, rt)
}

func searchOnce(ctx context.Context, c *client.HTTPClient, query string) error {
	result, err := c.SearchFreelancers(ctx, query)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	printResults(result)
	return nil
}

// searchInteractive reruns the search on every input line, coalesced by
// the configured quiet period
func searchInteractive(ctx context.Context, rt *runtime) error {
	d := debounce.New(rt.cfg.DebounceIntervalDuration())
	defer d.Stop()

	fmt.Println("Type to search, empty line to quit.")

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		query := strings.TrimSpace(scanner.Text())
		if query == "" {
			break
		}

		d.Call(func() {
			result, err := rt.client.SearchFreelancers(ctx, query)
			if err != nil {
				fmt.Printf("search failed: %v\n", err)
				return
			}
			printResults(result)
		})
	}

	return scanner.Err()
}

func printResults(result *client.SearchResponse) {
	if result.Message != "" {
		fmt.Println(result.Message)
	}
	for _, f := range result.Results {
		name := f.DisplayName
		if name == "" {
			name = f.Username
		}
		fmt.Printf("  %-24s %-16s %s\n", name, f.City, f.Tagline)
	}
	fmt.Printf("%d result(s)\n", result.Count)
}
