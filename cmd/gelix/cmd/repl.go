package cmd

import (
	"os"

	"github.com/gelixlang/gelix/internal/repl"
	"github.com/spf13/cobra"
)

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Start an interactive, line-edited compile-check session",
	RunE: func(cmd *cobra.Command, args []string) error {
		repl.NewWithVersion(Version, BuildDate).Start(os.Stdin, os.Stdout)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(replCmd)
}
