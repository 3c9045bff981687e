package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"champtimer/internal/announce"
	"champtimer/internal/capture"
	"champtimer/internal/portwatch"
)

func newPortsCommand(ctx *commandContext) *cobra.Command {
	var watchFlag bool

	cmd := &cobra.Command{
		Use:         "ports",
		Short:       "List serial ports, optionally watching for hotplug events",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			ports, err := capture.ListPorts()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			announce.New(out).Ports(ports)

			if !watchFlag {
				return nil
			}

			logger, logErr := ctx.newLogger(false)
			if logErr != nil {
				// Watching is best effort even when config is broken.
				logger = nil
			}

			watcher := portwatch.NewWatcher(logger, func(_ context.Context, ev portwatch.DeviceEvent) {
				switch ev.Action {
				case "add":
					fmt.Fprintf(out, "Connected:    %s\n", ev.Device)
				case "remove":
					fmt.Fprintf(out, "Disconnected: %s\n", ev.Device)
				}
			})

			sigCtx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if err := watcher.Start(sigCtx); err != nil {
				return err
			}
			defer watcher.Stop()

			fmt.Fprintln(out, "Watching for serial hotplug events. Press Ctrl-C to stop.")
			<-sigCtx.Done()
			return nil
		},
	}

	cmd.Flags().BoolVarP(&watchFlag, "watch", "w", false, "Keep running and report hotplug events")
	return cmd
}
