package cmd

import (
	"context"
	"fmt"

	"github.com/bnema/solgifs-cli/internal/domain"
	"github.com/spf13/cobra"
)

func newSubmitCmd(app *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "submit <link>",
		Short: "Append a GIF link to the board",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := domain.ValidateLink(args[0]); err != nil {
				if _, werr := fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s\n", sanitizeForTerminal(err.Error())); werr != nil {
					return werr
				}
			}

			board, err := app.board(cmd.Context(), denyApproval)
			if err != nil {
				return err
			}

			snapshot := board.Start(cmd.Context())
			switch snapshot.View {
			case domain.ViewConnectedReady:
			case domain.ViewDisconnected:
				return fmt.Errorf("%w: run `sg connect` first", domain.ErrNotConnected)
			case domain.ViewConnectedUninitialized:
				return fmt.Errorf("%w: run `sg init` first", domain.ErrAccountNotFound)
			default:
				return fmt.Errorf("board unavailable: %w", snapshot.Sync.Err)
			}

			err = runMutationSpinner(cmd.Context(), cmd.ErrOrStderr(), "Submitting link...", func(ctx context.Context) error {
				snapshot, err = board.Submit(ctx, args[0])
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
