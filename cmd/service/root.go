// cmd/service/root.go
package main

import "github.com/spf13/cobra"

type rootOptions struct {
	configDir string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:   "portfolio-projects",
		Short: "Aggregates GitHub project cards and star totals for the portfolio site",
		Long: `portfolio-projects lists a user's repositories, the public repositories of
configured organizations and an explicit allow-list, then serves pinned project
cards with de-duplicated star and fork totals.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.configDir, "config-dir", ".", "directory containing an optional .env file")

	root.AddCommand(newServeCmd(opts), newRefreshCmd(opts))
	return root
}
