package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var portfolioCmd = &cobra.Command{
	Use:   "portfolio",
	Short: "Show your portfolio",
	RunE:  runPortfolioCommand,
}

func init() {
	rootCmd.AddCommand(portfolioCmd)
}

func runPortfolioCommand(cmd *cobra.Command, args []string) error {
	rt, err := newRuntime()
	if err != nil {
		return err
	}

	if !rt.session.RequireAuth() {
		return fmt.Errorf("not authorized")
	}

	portfolio, err := rt.client.MyPortfolio(context.Background())
	if err != nil {
		return fmt.Errorf("failed to fetch portfolio: %w", err)
	}

	fmt.Printf("%s (%d%% complete)\n", portfolio.Title, portfolio.Completeness)
	if portfolio.Description != "" {
		fmt.Println(portfolio.Description)
	}
	for _, item := range portfolio.Items {
		marker := " "
		if item.IsFeatured {
			marker = "*"
		}
		fmt.Printf("  %s %-32s %s\n", marker, item.Title, item.MediaType)
	}
	fmt.Printf("%d item(s)\n", len(portfolio.Items))
	return nil
}
