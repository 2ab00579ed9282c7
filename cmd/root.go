package cmd

import "github.com/spf13/cobra"

func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "storybot",
		Short:         "storybot: a story-illustrating LINE companion",
		Long:          "storybot listens to a story told across chat messages, remembers how every character looks, summarizes the story into paragraphs, and illustrates any paragraph with consistent character designs.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	app, err := wireApp()
	if err != nil {
		rootCmd.RunE = func(_ *cobra.Command, _ []string) error {
			return err
		}
		return rootCmd
	}

	rootCmd.AddCommand(
		newVersionCmd(),
		newServeCmd(app),
		newChatCmd(app),
	)

	return rootCmd
}
