package main

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/trueform/core/backend/fakebackend"
	"github.com/trueform/core/depgraph"
	"github.com/trueform/core/executor"
	"github.com/trueform/core/internal/logging"
	"github.com/trueform/core/internal/metrics"
	"github.com/trueform/core/ir"
	"github.com/trueform/core/scheduler"
)

func compileCmd() *cobra.Command {
	var configPath string
	var dev bool
	var changed []string
	cmd := &cobra.Command{
		Use:   "compile <part.json|part.yaml>",
		Short: "Validate, schedule, and execute a part against the reference backend",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			log, err := logging.New(dev)
			if err != nil {
				return err
			}
			defer log.Sync() //nolint:errcheck

			runID := uuid.New().String()
			log = log.With(zap.String("runId", runID))

			lp, err := loadPart(args[0], configPath)
			if err != nil {
				return err
			}
			np, err := normalizePart(lp)
			if err != nil {
				return err
			}
			for _, w := range np.Warnings {
				log.Warn("staged feature", zap.String("featureId", string(w.FeatureID)), zap.String("message", w.Message))
			}

			g, err := depgraph.Build(np)
			if err != nil {
				return err
			}

			ctx := context.Background()
			scheduleStart := time.Now()
			order, err := scheduler.Schedule(g, scheduler.WithContext(ctx), scheduler.WithLogger(log))
			if err != nil {
				return err
			}
			metrics.ScheduleDuration.Observe(time.Since(scheduleStart).Seconds())
			metrics.ScheduleSize.Observe(float64(len(order)))

			be := fakebackend.New("fake", "dev")
			if err := executor.CheckCapabilities(ctx, be, np); err != nil {
				return err
			}

			result, err := executor.Execute(ctx, be, np, order, lp.Context, executor.WithLogger(log))
			if err != nil {
				return err
			}
			metrics.BuildsTotal.WithLabelValues(result.Diagnostics.Mode).Inc()
			for _, id := range order {
				metrics.FeaturesExecuted.WithLabelValues(string(np.FeaturesByID[id].Kind), "ok").Inc()
			}

			if len(changed) > 0 {
				changedIDs := make([]ir.ID, len(changed))
				for i, c := range changed {
					changedIDs[i] = ir.ID(c)
				}
				incResult, err := executor.ExecuteIncremental(ctx, be, np, g, order, lp.Context, result, changedIDs, executor.WithLogger(log))
				if err != nil {
					return err
				}
				metrics.BuildsTotal.WithLabelValues(incResult.Diagnostics.Mode).Inc()
				metrics.FeaturesInvalidated.WithLabelValues("changed").Add(float64(len(changedIDs)))
				metrics.FeaturesInvalidated.WithLabelValues("downstream").
					Add(float64(len(incResult.Diagnostics.InvalidatedFeatureIDs) - len(changedIDs)))
				fmt.Fprintf(cmd.OutOrStdout(), "incremental rebuild: %d reused, %d re-executed\n",
					len(incResult.Diagnostics.ReusedFeatureIDs), len(incResult.Diagnostics.InvalidatedFeatureIDs))
				result = incResult
			}

			fmt.Fprintf(cmd.OutOrStdout(), "run %s: %d features, %d objects, %d selections\n",
				runID, len(result.Order), result.Final.Outputs.Len(), len(result.Final.Selections))
			return nil
		},
	}
	cmd.Flags().StringVar(&configPath, "config", "", "path to trueform.toml")
	cmd.Flags().BoolVar(&dev, "dev", false, "use development-mode console logging")
	cmd.Flags().StringSliceVar(&changed, "changed", nil, "feature ids changed since the last build; when set, runs an incremental rebuild after the full build")
	return cmd
}
