package cmd

import "github.com/spf13/cobra"

// annotationOwnsTerminal marks commands that draw on the whole screen, so
// logs must stay in the log file.
const annotationOwnsTerminal = "sg/owns-terminal"

func ownsTerminal(cmd *cobra.Command) bool {
	return cmd.Annotations[annotationOwnsTerminal] == "true"
}

func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	var verbose bool

	rootCmd := &cobra.Command{
		Use:           "sg",
		Short:         "sg: a shared GIF board on Solana",
		Long:          "sg connects a local Solana wallet to a shared on-chain GIF board so you can list, initialize, and append links from the terminal.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log debug output to stderr")

	app, err := wireApp()
	if err != nil {
		rootCmd.RunE = func(_ *cobra.Command, _ []string) error {
			return err
		}
		return rootCmd
	}

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, _ []string) error {
		return app.start(verbose, ownsTerminal(cmd))
	}
	rootCmd.PersistentPostRun = func(_ *cobra.Command, _ []string) {
		_ = app.logger.Sync()
	}

	rootCmd.AddCommand(
		newVersionCmd(),
		newKeyCmd(app),
		newConnectCmd(app),
		newDisconnectCmd(app),
		newStatusCmd(app),
		newListCmd(app),
		newInitCmd(app),
		newSubmitCmd(app),
		newUICmd(app),
	)

	return rootCmd
}
