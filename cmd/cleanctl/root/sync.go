package root

import (
	"context"

	"cleanops/internal/services"
	"cleanops/internal/types"

	"github.com/spf13/cobra"
)

func newSyncCmd() *cobra.Command {
	var preview bool

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Reconcile reservations in the sync window with cleaning tasks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			a, cleanup, err := openApp()
			if err != nil {
				return err
			}
			defer cleanup()

			var result *types.SyncResult
			if preview {
				result, err = a.Services.Reconciliation.SyncPreview(ctx)
			} else {
				result, err = a.Services.Reconciliation.SyncAll(ctx, services.SyncTriggerCLI)
			}
			if err != nil {
				return err
			}

			return printJSON(cmd.OutOrStdout(), result)
		},
	}

	cmd.Flags().BoolVar(&preview, "preview", false, "Compute the changes without writing them")

	return cmd
}
