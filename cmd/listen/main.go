package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"forge-relay/internal/delivery/websocket"
	"forge-relay/pkg/log"
)

// main is the entry point for the websocket listener. It connects to a
// running relay's /ws endpoint and prints the lines relayed to the chosen
// channels, which is handy for checking subscriptions without a chat bot.
func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		serverURL string
		channels  []string
		raw       bool
		logLevel  string
	)

	cmd := &cobra.Command{
		Use:          "listen",
		Short:        "Stream relayed lines from a forge-relay websocket endpoint",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := log.Init(log.ZapConfig{
				Level:    logLevel,
				Mode:     log.ModeDevelopment,
				Encoding: log.EncodingConsole,
			})

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			logger.Infof(ctx, "Connecting to %s", serverURL)
			err := websocket.Listen(ctx, serverURL, channels, printer(cmd.OutOrStdout(), raw))
			if err != nil && !errors.Is(err, context.Canceled) {
				logger.Errorf(ctx, "Listener stopped: %v", err)
				return err
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&serverURL, "server", "ws://localhost:8080/ws", "WebSocket endpoint of the relay")
	cmd.Flags().StringArrayVar(&channels, "channel", nil, "Channel to follow (repeatable, all when omitted)")
	cmd.Flags().BoolVar(&raw, "raw", false, "Print lines with IRC formatting codes intact")
	cmd.Flags().StringVar(&logLevel, "log-level", "info", "Log level")
	return cmd
}

func printer(w io.Writer, raw bool) func(websocket.Line) {
	return func(l websocket.Line) {
		text := l.Text
		if raw {
			text = l.Raw
		}
		fmt.Fprintf(w, "[%s] %s\n", l.Channel, text)
	}
}
