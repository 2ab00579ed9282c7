package cmd

import (
	"errors"

	"github.com/line/line-bot-sdk-go/v7/linebot"
	"github.com/spf13/cobra"

	"github.com/olivia-0916/storybot/internal/server"
)

func newServeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the LINE webhook server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			channelSecret := envOrDefault("LINE_CHANNEL_SECRET", a.cfg.GetString("line.channel_secret"))
			channelToken := envOrDefault("LINE_CHANNEL_ACCESS_TOKEN", a.cfg.GetString("line.channel_token"))
			if channelSecret == "" || channelToken == "" {
				return errors.New("LINE channel credentials are not configured")
			}

			bot, err := linebot.New(channelSecret, channelToken)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			service, err := a.newService(ctx, server.NewPushNotifier(bot))
			if err != nil {
				return err
			}

			addr := ":" + envOrDefault("PORT", "8080")
			return server.New(service, bot).Start(addr)
		},
	}
}
