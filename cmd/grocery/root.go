package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	envPath string
	dbPath  string
)

var rootCmd = &cobra.Command{
	Use:          "grocery",
	Short:        "grocery manages a GroceryMate database from the terminal",
	Long:         "grocery talks to the nutrition assistant, inspects users and the API log, and backs up or restores the local store.",
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envPath, "env", ".env", "Path to an optional .env file")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Path to SQLite database (overrides GROCERY_DB_PATH)")
}
