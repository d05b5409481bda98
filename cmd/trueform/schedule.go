package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/trueform/core/depgraph"
	"github.com/trueform/core/scheduler"
)

func scheduleCmd() *cobra.Command {
	var configPath string
	cmd := &cobra.Command{
		Use:   "schedule <part.json|part.yaml>",
		Short: "Print the deterministic feature build order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lp, err := loadPart(args[0], configPath)
			if err != nil {
				return err
			}
			np, err := normalizePart(lp)
			if err != nil {
				return err
			}
			g, err := depgraph.Build(np)
			if err != nil {
				return err
			}
			order, err := scheduler.Schedule(g)
			if err != nil {
				return err
			}
			for i, id := range order {
				fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\n", i+1, id)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&configPath, "config", "", "path to trueform.toml")
	return cmd
}
