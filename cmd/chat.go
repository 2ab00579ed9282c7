package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/olivia-0916/storybot/internal/application"
	"github.com/olivia-0916/storybot/internal/domain"
	"github.com/olivia-0916/storybot/internal/ports"
)

// sceneEvent is one completion signal from the render stack: either a text
// notice or an uploaded image URL.
type sceneEvent struct {
	text string
	url  string
}

// consoleNotifier stands in for LINE push messages in the local REPL.
type consoleNotifier struct {
	events chan sceneEvent
}

var _ ports.Notifier = (*consoleNotifier)(nil)

func newConsoleNotifier() *consoleNotifier {
	return &consoleNotifier{events: make(chan sceneEvent, 8)}
}

func (n *consoleNotifier) NotifyText(_ context.Context, _ domain.SessionKey, text string) error {
	n.events <- sceneEvent{text: text}
	return nil
}

func (n *consoleNotifier) NotifyImage(_ context.Context, _ domain.SessionKey, url string) error {
	n.events <- sceneEvent{url: url}
	return nil
}

func newChatCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Talk to the story engine from the terminal",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			notifier := newConsoleNotifier()
			service, err := a.newService(ctx, notifier)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			key := domain.SessionKey(envOrDefault("STORYBOT_CHAT_USER", "local"))
			scanner := bufio.NewScanner(cmd.InOrStdin())

			fmt.Fprintln(out, "Tell me a story (or 'exit' to quit):")
			for {
				fmt.Fprint(out, "> ")
				if !scanner.Scan() {
					break
				}
				input := strings.TrimSpace(scanner.Text())
				if input == "" {
					continue
				}
				if input == "exit" {
					fmt.Fprintln(out, "再見！")
					break
				}

				reply := service.HandleMessage(ctx, key, input)
				fmt.Fprintln(out, reply)

				if reply == application.ReplySceneQueued {
					if err := waitForScene(out, notifier.events); err != nil {
						return err
					}
				}
			}

			return scanner.Err()
		},
	}
}

// waitForScene blocks on the first completion event behind a spinner, then
// drains any trailing events (the image URL follows the completion text).
func waitForScene(out io.Writer, events chan sceneEvent) error {
	event, err := runSceneSpinner(out, "畫圖中…", events)
	if err != nil {
		return err
	}
	printSceneEvent(out, event)

	for {
		select {
		case event := <-events:
			printSceneEvent(out, event)
		case <-time.After(500 * time.Millisecond):
			return nil
		}
	}
}

func printSceneEvent(out io.Writer, event sceneEvent) {
	if event.url != "" {
		fmt.Fprintln(out, "🖼️ ", event.url)
		return
	}
	fmt.Fprintln(out, event.text)
}
