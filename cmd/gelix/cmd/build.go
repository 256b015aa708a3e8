package cmd

import (
	"fmt"
	"os"

	"github.com/gelixlang/gelix/internal/driver"
	"github.com/spf13/cobra"
)

var buildOutput string

var buildCmd = &cobra.Command{
	Use:   "build [files...]",
	Short: "Compile .gx files down to a GIR module dump",
	Long: `build runs every pass -- parse, resolve, lower, instantiate --
and writes a textual dump of the resulting GIR module's declarations.
Gelix has no backend yet (code generation is out of scope), so the GIR
dump stands in for the artifact a backend would otherwise consume.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runBuild,
}

func init() {
	rootCmd.AddCommand(buildCmd)
	buildCmd.Flags().StringVarP(&buildOutput, "output", "o", "", "output file (default: stdout)")
}

func runBuild(cmd *cobra.Command, args []string) error {
	sources, err := readSources(args)
	if err != nil {
		return err
	}

	result := driver.Run(sources)
	printDiagnostics("parse", result.ParseErrors)
	printDiagnostics("resolve", result.ResolveErrors)
	printDiagnostics("lower", result.LowerErrors)

	if !result.OK() {
		return fmt.Errorf("build failed")
	}

	out := os.Stdout
	if buildOutput != "" {
		f, err := os.Create(buildOutput)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", buildOutput, err)
		}
		defer f.Close()
		out = f
	}

	for _, decl := range result.Module.Decls() {
		fmt.Fprintf(out, "%s %s\n", decl.Kind, decl.Id)
	}
	if result.Generics != nil {
		for key, id := range result.Generics.Specialized {
			fmt.Fprintf(out, "instance %s -> %s\n", key, id)
		}
	}

	return nil
}
