package cmd

import (
	"context"

	"github.com/bnema/solgifs-cli/internal/adapters/tui"
	"github.com/bnema/solgifs-cli/internal/domain"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

// approveFromKeypress treats the connect key in the UI as the approval.
func approveFromKeypress(context.Context, domain.Address) (bool, error) {
	return true, nil
}

func newUICmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:         "ui",
		Short:       "Open the interactive board",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{annotationOwnsTerminal: "true"},
		RunE: func(cmd *cobra.Command, _ []string) error {
			board, err := app.board(cmd.Context(), approveFromKeypress)
			if err != nil {
				return err
			}

			return tui.Run(cmd.Context(), board, board.Snapshot(),
				tea.WithInput(cmd.InOrStdin()),
				tea.WithOutput(cmd.OutOrStdout()),
				tea.WithAltScreen(),
			)
		},
	}
}
