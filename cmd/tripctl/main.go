package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var Version = "dev"

func main() {
	var cl cli

	rootCmd := &cobra.Command{
		Use:           "tripctl",
		Short:         "tripctl - terminal client for the trip planner service",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return cl.open(cmd.Context())
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			cl.close()
		},
	}
	rootCmd.PersistentFlags().StringVar(&cl.apiURL, "api-url", "", "Planner API base URL (overrides PLANNER_API_URL)")
	rootCmd.PersistentFlags().BoolVar(&cl.jsonOut, "json", false, "Print results as JSON")
	rootCmd.PersistentFlags().BoolVarP(&cl.verbose, "verbose", "v", false, "Log client activity to stderr")

	rootCmd.AddCommand(loginCmd(&cl))
	rootCmd.AddCommand(registerCmd(&cl))
	rootCmd.AddCommand(logoutCmd(&cl))
	rootCmd.AddCommand(whoamiCmd(&cl))
	rootCmd.AddCommand(routeCmd(&cl))
	rootCmd.AddCommand(tripsCmd(&cl))
	rootCmd.AddCommand(expensesCmd(&cl))
	rootCmd.AddCommand(listenCmd(&cl))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		cl.close()
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
