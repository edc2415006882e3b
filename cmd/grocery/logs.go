package main

import (
	"encoding/json"
	"fmt"
	"slices"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var (
	logsLimit int
	logsJSON  bool
)

var logsCmd = &cobra.Command{
	Use:   "logs",
	Short: "Show the remote API log, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(func(a *app) error {
			entries, err := a.adapter.APILogs()
			if err != nil {
				return err
			}
			slices.Reverse(entries)
			if logsLimit > 0 && len(entries) > logsLimit {
				entries = entries[:logsLimit]
			}

			if logsJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(entries)
			}

			if len(entries) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No API calls logged.")
				return nil
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "WHEN\tMETHOD\tENDPOINT")
			for _, e := range entries {
				fmt.Fprintf(tw, "%s\t%s\t%s\n", humanize.Time(e.Timestamp), e.Method, e.Endpoint)
			}
			return tw.Flush()
		})
	},
}

func init() {
	logsCmd.Flags().IntVar(&logsLimit, "limit", 20, "Maximum entries to show (0 for all)")
	logsCmd.Flags().BoolVar(&logsJSON, "json", false, "Print entries with their payloads as JSON")
	rootCmd.AddCommand(logsCmd)
}
