// Package cmd implements the gelix CLI, built with spf13/cobra the way
// the pack's go-dws teacher structures its own dwscript command.
package cmd

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	// Version information, set by ldflags during release builds.
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"

	red    = color.New(color.FgRed).SprintFunc()
	green  = color.New(color.FgGreen).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	bold   = color.New(color.Bold).SprintFunc()
)

var rootCmd = &cobra.Command{
	Use:   "gelix",
	Short: "Gelix compiler front/middle-end",
	Long: `gelix is the Gelix language's lexer, parser, declaration
resolver, type checker, and monomorphizer: it turns .gx source into a
fully resolved, fully typed GIR module ready for a backend.`,
	Version: Version,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(`{{with .Name}}{{printf "%%s " .}}{{end}}{{printf "version %%s" .Version}}
Commit: %s
Built:  %s
`, GitCommit, BuildDate))

	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output")
}

func exitWithError(msg string, args ...any) {
	fmt.Fprintf(os.Stderr, "%s: "+msg+"\n", append([]any{red("Error")}, args...)...)
	os.Exit(1)
}
