package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"barcode-scanner/internal/domain/entity"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent scans from the scan log",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withRuntime(cmd.OutOrStdout(), cmd.InOrStdin(), func(rt *runtime) error {
				if rt.scanLog == nil {
					return errors.New("scan log is disabled; set db_path or SCANNER_DB_PATH")
				}
				records, err := rt.container.ScanService.History(cmd.Context(), limit)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderHistory(records))
				return nil
			})
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Number of records to show")
	return cmd
}

func renderHistory(records []entity.ScanRecord) string {
	if len(records) == 0 {
		return "No scans recorded"
	}
	tw := newTable("#", "Scanned", "Barcode", "Format", "Outcome", "Target")
	alignRight(tw, 1)
	for _, r := range records {
		tw.AppendRow(table.Row{
			r.ID,
			r.ScannedAt.Local().Format(time.DateTime),
			r.Barcode,
			r.Format,
			string(r.Outcome),
			r.Target,
		})
	}
	tw.SetCaption("%d scan(s)", len(records))
	return tw.Render()
}
