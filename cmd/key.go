package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/bnema/solgifs-cli/internal/adapters/keys"
	"github.com/bnema/solgifs-cli/internal/domain"
	"github.com/spf13/cobra"
)

func newKeyCmd(app *app) *cobra.Command {
	keyCmd := &cobra.Command{
		Use:   "key",
		Short: "Manage the board account keypair",
	}

	keyCmd.AddCommand(newKeyGenerateCmd(app), newKeyImportCmd(app), newKeyShowCmd(app))
	return keyCmd
}

func newKeyGenerateCmd(app *app) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Create and store a new board keypair",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			keypair, err := app.boardKeys.Generate(cmd.Context(), force)
			if err != nil {
				if errors.Is(err, keys.ErrKeyExists) {
					return fmt.Errorf("%w (use --force to replace it)", err)
				}
				return err
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "board: %s\n", keypair.Address())
			return err
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "replace an existing board key")

	return cmd
}

func newKeyImportCmd(app *app) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Store an existing board keypair (keygen JSON, base58, or web3 keypair.json)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read key file: %w", err)
			}

			keypair, err := app.boardKeys.Import(cmd.Context(), string(raw), force)
			if err != nil {
				if errors.Is(err, keys.ErrKeyExists) {
					return fmt.Errorf("%w (use --force to replace it)", err)
				}
				return err
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "board: %s\n", keypair.Address())
			return err
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "replace an existing board key")

	return cmd
}

func newKeyShowCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the board account address",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			signer, err := app.boardKeys.Load(cmd.Context())
			if err != nil {
				if errors.Is(err, domain.ErrSecretNotFound) {
					return errBoardKeyMissing
				}
				return err
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), signer.Address())
			return err
		},
	}
}
