// cmd/service/refresh.go
package main

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

func newRefreshCmd(opts *rootOptions) *cobra.Command {
	var fromCache bool

	cmd := &cobra.Command{
		Use:   "refresh",
		Short: "Run one aggregation, update the cache and print the snapshot as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			a, err := newApp(ctx, opts.configDir, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer a.Close()

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")

			if fromCache {
				snap, ok := a.cache.Load(ctx)
				if !ok {
					return errors.New("no cached snapshot available")
				}
				return enc.Encode(snap)
			}

			snap, err := a.syncer.RunOnce(ctx)
			if err != nil {
				return fmt.Errorf("refresh interrupted: %w", err)
			}
			return enc.Encode(snap)
		},
	}
	cmd.Flags().BoolVar(&fromCache, "from-cache", false, "print the cached snapshot without contacting GitHub")
	return cmd
}
