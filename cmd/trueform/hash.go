package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/trueform/core/hashutil"
)

// hashCmd prints the stable canonical hash of a normalized part, the
// same digest two structurally-equal documents always produce
// regardless of how their expressions or map keys were written.
func hashCmd() *cobra.Command {
	var configPath string
	cmd := &cobra.Command{
		Use:   "hash <part.json|part.yaml>",
		Short: "Print the stable hash of a normalized part",
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
			h, err := hashutil.Hash(np.Features)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), h)
			return nil
		},
	}
	cmd.Flags().StringVar(&configPath, "config", "", "path to trueform.toml")
	return cmd
}
