package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"barcode-scanner/internal/domain/entity"
	"barcode-scanner/internal/infrastructure/camera"
)

func newDevicesCommand(ctx *commandContext) *cobra.Command {
	var watch bool

	cmd := &cobra.Command{
		Use:   "devices",
		Short: "List video input devices",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withRuntime(cmd.OutOrStdout(), cmd.InOrStdin(), func(rt *runtime) error {
				cams, err := camera.NewUdevEnumerator(rt.logger).Enumerate(cmd.Context())
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				fmt.Fprintln(out, renderDevices(entity.VideoDevices(cams)))
				if !watch {
					return nil
				}

				signalCtx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
				defer cancel()

				monitor := camera.NewHotplugMonitor(rt.logger)
				return monitor.Watch(signalCtx, func(ev camera.HotplugEvent) {
					fmt.Fprintf(out, "%s %s %s\n", ev.Action, ev.Device.ID, ev.Device.Path)
				})
			})
		},
	}

	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "Keep running and print hotplug events")
	return cmd
}

func renderDevices(cams []entity.Device) string {
	if len(cams) == 0 {
		return "No video devices found"
	}
	tw := newTable("ID", "Label", "Path", "Facing")
	for _, d := range cams {
		facing := string(d.Facing)
		if facing == "" && d.LooksRearFacing() {
			facing = "back?"
		}
		tw.AppendRow(table.Row{d.ID, d.Label, d.Path, facing})
	}
	return tw.Render()
}
