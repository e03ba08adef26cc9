package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newConnectCmd(app *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "connect",
		Short: "Approve the local wallet for sg and show the board",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			board, err := app.board(cmd.Context(), promptApproval(cmd.InOrStdin(), cmd.ErrOrStderr()))
			if err != nil {
				return err
			}

			board.Start(cmd.Context())
			snapshot, err := board.Connect(cmd.Context())
			if err != nil {
				return err
			}

			return writeSnapshot(cmd, app, snapshot, asJSON)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the board as JSON")

	return cmd
}

func newDisconnectCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "disconnect",
		Short: "Revoke sg's access to the local wallet",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			board, err := app.board(cmd.Context(), denyApproval)
			if err != nil {
				return err
			}
			if _, err := board.Disconnect(cmd.Context()); err != nil {
				return err
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), "wallet disconnected")
			return err
		},
	}
}
