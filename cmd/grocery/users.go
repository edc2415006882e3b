package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "List registered users",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(func(a *app) error {
			var currentID string
			if cur := a.accounts.CurrentUser(); cur != nil {
				currentID = cur.ID
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tUSERNAME\tEMAIL\tSIGNED IN")
			for _, u := range a.accounts.AllUsers() {
				signedIn := ""
				if u.ID == currentID {
					signedIn = "yes"
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", u.ID, u.Username, u.Email, signedIn)
			}
			return tw.Flush()
		})
	},
}

func init() {
	rootCmd.AddCommand(usersCmd)
}
