package main

import (
	"context"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/myrjola/fraudintake/cmd/cli/admin"
	"github.com/myrjola/fraudintake/cmd/cli/report"
	"github.com/myrjola/fraudintake/cmd/cli/store"
	"github.com/myrjola/fraudintake/internal/errors"
	"github.com/spf13/cobra"
)

func init() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defaultDB, ok := os.LookupEnv("FRAUDINTAKE_SQLITE_URL")
	if !ok {
		defaultDB = "./fraudintake.sqlite"
	}
	rootCmd.PersistentFlags().String(store.FlagDB, defaultDB, "path to the SQLite database")
	rootCmd.AddGroup(admin.Group)
	rootCmd.AddCommand(admin.Command)
	rootCmd.AddGroup(report.Group)
	rootCmd.AddCommand(report.Export, report.Stats)
}

var rootCmd = &cobra.Command{
	Use:          "fraudintake-cli",
	Long:         `Command line utilities for the fraud intake service`,
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func main() {
	Execute()
}
