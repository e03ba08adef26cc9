package cmd

import (
	"encoding/json"
	"fmt"

	boardrender "github.com/bnema/solgifs-cli/internal/adapters/render/board"
	"github.com/bnema/solgifs-cli/internal/application"
	"github.com/bnema/solgifs-cli/internal/domain"
	"github.com/spf13/cobra"
)

var cliHints = map[domain.Command]string{
	domain.CommandConnect:    "sg connect",
	domain.CommandInitialize: "sg init",
	domain.CommandSubmit:     "sg submit <link>",
	domain.CommandRefresh:    "sg status",
}

type entryJSON struct {
	Link      string `json:"link"`
	Submitter string `json:"submitter"`
}

type snapshotJSON struct {
	Board        string      `json:"board"`
	Wallet       string      `json:"wallet,omitempty"`
	View         string      `json:"view"`
	Status       string      `json:"status"`
	TotalEntries uint64      `json:"total_entries"`
	Entries      []entryJSON `json:"entries"`
	Notice       string      `json:"notice,omitempty"`
	Error        string      `json:"error,omitempty"`
}

func toSnapshotJSON(snapshot application.Snapshot) snapshotJSON {
	out := snapshotJSON{
		Board:        snapshot.Board.String(),
		Wallet:       snapshot.Session.Address.String(),
		View:         string(snapshot.View),
		Status:       string(snapshot.Sync.Status),
		TotalEntries: snapshot.Sync.TotalEntries,
		Entries:      make([]entryJSON, 0, len(snapshot.Sync.Entries)),
		Notice:       snapshot.Notice,
	}
	for _, entry := range snapshot.Sync.Entries {
		out.Entries = append(out.Entries, entryJSON{Link: entry.Link, Submitter: entry.Submitter.String()})
	}
	if snapshot.Sync.Err != nil {
		out.Error = snapshot.Sync.Err.Error()
	}
	return out
}

func writeSnapshot(cmd *cobra.Command, app *app, snapshot application.Snapshot, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(toSnapshotJSON(snapshot))
	}

	rendered, err := app.renderer(snapshot, boardrender.RenderOptions{Hints: cliHints})
	if err != nil {
		return fmt.Errorf("render board: %w", err)
	}

	_, err = fmt.Fprintln(cmd.OutOrStdout(), rendered)
	return err
}

func newStatusCmd(app *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Reconnect a trusted wallet and show the board",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			board, err := app.board(cmd.Context(), denyApproval)
			if err != nil {
				return err
			}

			return writeSnapshot(cmd, app, board.Start(cmd.Context()), asJSON)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the board as JSON")

	return cmd
}

func newListCmd(app *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print the board's links, one per line",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
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

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(toSnapshotJSON(snapshot).Entries)
			}
			for _, entry := range snapshot.Sync.Entries {
				if _, err := fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", sanitizeForTerminal(entry.Link), entry.Submitter); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print links as JSON")

	return cmd
}
