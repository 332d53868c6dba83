package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"angopay/internal/platform/jobs"
)

// NewSyncNotifyCommand recomputes period aggregates after employee data was replaced by
// an external sync. The run is recorded in the job history.
func NewSyncNotifyCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "sync-notify",
		Short: "Recompute payroll aggregates after an external data sync",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := rootOpts.open()
			if err != nil {
				return err
			}
			defer ws.Close()

			result, err := ws.jobs.RunNow(rootOpts.ctx(cmd.Context()), jobs.JobRecomputeAggregates, func(ctx context.Context) (any, error) {
				count, err := ws.payroll.RecomputeAll(ctx)
				return map[string]any{"periods": count}, err
			})
			if err != nil {
				return classify(err)
			}
			return rootOpts.formatter(cmd).Success(result, func(w io.Writer) {
				fmt.Fprintf(w, "aggregates recomputed: %v\n", result)
			})
		},
	}
}
