package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/trueform/core/backend/fakebackend"
	"github.com/trueform/core/cachekey"
	"github.com/trueform/core/container"
	"github.com/trueform/core/depgraph"
	"github.com/trueform/core/executor"
	"github.com/trueform/core/ir"
	"github.com/trueform/core/scheduler"
	"github.com/trueform/core/wire"
)

// archiveCmd compiles a part and packages the result plus its cache
// key into a .tfc build archive.
func archiveCmd() *cobra.Command {
	var configPath, outPath string
	cmd := &cobra.Command{
		Use:   "archive <part.json|part.yaml>",
		Short: "Compile a part and write a .tfc build archive",
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
			ctx := context.Background()
			order, err := scheduler.Schedule(g, scheduler.WithContext(ctx))
			if err != nil {
				return err
			}

			be := fakebackend.New("fake", "dev")
			result, err := executor.Execute(ctx, be, np, order, lp.Context)
			if err != nil {
				return err
			}
			key, err := cachekey.Compute(np, order, lp.Context, nil)
			if err != nil {
				return err
			}

			docBytes, err := wire.EncodeJSON(lp.Doc)
			if err != nil {
				return errors.Wrap(err, "encoding document.json")
			}

			w := container.NewWriter()
			w.SetBuildInfo(uuid.New().String(), time.Now().UTC().Format(time.RFC3339))
			w.SetDocument(docBytes, lp.Doc.Schema)
			if err := addJSON(w, "schedule.json", "schedule", order); err != nil {
				return err
			}
			if err := addJSON(w, "cachekey.json", "cachekey", key); err != nil {
				return err
			}
			if err := addJSON(w, "diagnostics.json", "diagnostics", result.Diagnostics); err != nil {
				return err
			}
			for _, objKey := range result.Final.Outputs.Keys() {
				obj, _ := result.Final.Outputs.Get(objKey)
				stepBytes, err := be.ExportStep(ctx, []ir.KernelObject{obj})
				if err != nil {
					return err
				}
				if err := w.Add("objects/"+objKey+".step", "step", stepBytes); err != nil {
					return err
				}
			}

			archiveBytes, err := w.Build()
			if err != nil {
				return err
			}
			if outPath == "" {
				outPath = "build.tfc"
			}
			if err := os.WriteFile(outPath, archiveBytes, 0o644); err != nil {
				return errors.Wrapf(err, "writing archive %s", outPath)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d bytes)\n", outPath, len(archiveBytes))
			return nil
		},
	}
	cmd.Flags().StringVar(&configPath, "config", "", "path to trueform.toml")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "output archive path (default build.tfc)")
	return cmd
}

func addJSON(w *container.Writer, path, artifactType string, v interface{}) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errors.Wrapf(err, "marshaling %s", path)
	}
	return w.Add(path, artifactType, b)
}
