package cmd

import (
	"context"
	"fmt"

	"github.com/bnema/solgifs-cli/internal/domain"
	"github.com/spf13/cobra"
)

func newInitCmd(app *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create the board account on the ledger (one time)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			board, err := app.board(cmd.Context(), denyApproval)
			if err != nil {
				return err
			}

			snapshot := board.Start(cmd.Context())
			switch snapshot.View {
			case domain.ViewConnectedUninitialized:
			case domain.ViewDisconnected:
				return fmt.Errorf("%w: run `sg connect` first", domain.ErrNotConnected)
			case domain.ViewConnectedReady:
				_, err := fmt.Fprintln(cmd.OutOrStdout(), "board already initialized")
				return err
			default:
				return fmt.Errorf("board unavailable: %w", snapshot.Sync.Err)
			}

			err = runMutationSpinner(cmd.Context(), cmd.ErrOrStderr(), "Creating board account...", func(ctx context.Context) error {
				snapshot, err = board.Initialize(ctx)
				return err
			})
			if err != nil {
				return err
			}

			return writeSnapshot(cmd, app, snapshot, asJSON)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the board as JSON")

	return cmd
}
