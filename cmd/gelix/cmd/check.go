package cmd

import (
	"fmt"
	"os"

	"github.com/gelixlang/gelix/internal/driver"
	"github.com/gelixlang/gelix/internal/errors"
	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check [files...]",
	Short: "Run every compiler pass and report diagnostics",
	Long: `check parses, resolves, lowers, and monomorphizes one or more
.gx files without emitting anything, printing every diagnostic the
pipeline collects across all four passes.

Examples:
  gelix check main.gx
  gelix check src/*.gx`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	sources, err := readSources(args)
	if err != nil {
		return err
	}

	result := driver.Run(sources)
	printDiagnostics("parse", result.ParseErrors)
	printDiagnostics("resolve", result.ResolveErrors)
	printDiagnostics("lower", result.LowerErrors)

	if !result.OK() {
		return fmt.Errorf("check failed")
	}

	n := 0
	if result.Generics != nil {
		n = len(result.Generics.Specialized)
	}
	fmt.Printf("%s %d file(s), %d declaration(s), %d generic instantiation(s)\n",
		green("ok"), len(sources), len(result.Module.Decls()), n)
	return nil
}

func readSources(paths []string) ([]driver.Source, error) {
	sources := make([]driver.Source, 0, len(paths))
	for _, path := range paths {
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
		sources = append(sources, driver.Source{Code: string(content), Filename: path})
	}
	return sources, nil
}

func printDiagnostics(phase string, errs errors.List) {
	for _, e := range errs {
		fmt.Fprintf(os.Stderr, "%s [%s] %s: %s\n", red(phase), e.Code, e.Pos, e.Message)
	}
}
