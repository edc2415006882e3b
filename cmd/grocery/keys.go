package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var keysCmd = &cobra.Command{
	Use:   "keys [prefix]",
	Short: "List stored keys and value sizes, e.g. keys groceryItems_",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var prefix string
		if len(args) == 1 {
			prefix = args[0]
		}
		return withApp(func(a *app) error {
			keys, err := a.kv.Keys(prefix)
			if err != nil {
				return err
			}
			if len(keys) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No keys stored.")
				return nil
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "KEY\tSIZE")
			for _, k := range keys {
				v, err := a.kv.Get(k)
				if err != nil {
					return err
				}
				fmt.Fprintf(tw, "%s\t%s\n", k, humanize.Bytes(uint64(len(v))))
			}
			return tw.Flush()
		})
	},
}

func init() {
	rootCmd.AddCommand(keysCmd)
}
