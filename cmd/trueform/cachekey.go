package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/trueform/core/cachekey"
	"github.com/trueform/core/depgraph"
	"github.com/trueform/core/internal/metrics"
	"github.com/trueform/core/scheduler"
)

// cachekeyCmd prints a part's full content-addressed build key: the
// composite hash plus its per-feature, parameter, context, and
// override contributions.
func cachekeyCmd() *cobra.Command {
	var configPath string
	cmd := &cobra.Command{
		Use:   "cachekey <part.json|part.yaml>",
		Short: "Compute the content-addressed cache key for a part",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lp, err := loadPart(args[0], configPath)
			if err != nil {
				return err
			}
			np, err := normalizePart(lp)
			if err != nil {
				metrics.CacheLookups.WithLabelValues("miss").Inc()
				return err
			}
			g, err := depgraph.Build(np)
			if err != nil {
				return err
			}
			order, err := scheduler.Schedule(g, scheduler.WithContext(context.Background()))
			if err != nil {
				return err
			}
			key, err := cachekey.Compute(np, order, lp.Context, nil)
			if err != nil {
				return err
			}
			metrics.CacheLookups.WithLabelValues("computed").Inc()
			fmt.Fprintln(cmd.OutOrStdout(), key.Composite)
			for _, fk := range key.Features {
				fmt.Fprintf(cmd.OutOrStdout(), "  %s\t%s\n", fk.FeatureID, fk.Hash)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&configPath, "config", "", "path to trueform.toml")
	return cmd
}
