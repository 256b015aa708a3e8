package cmd

import (
	"fmt"
	"os"

	"github.com/gelixlang/gelix/internal/parser"
	"github.com/spf13/cobra"
)

var fmtCmd = &cobra.Command{
	Use:   "fmt <file>",
	Short: "Print a CST round-trip of a .gx file",
	Long: `fmt parses a file into its concrete syntax tree and prints the
tree's own Text(), proving the CST is lossless: whitespace, comments,
and trivia all survive the parse/print round trip unchanged.`,
	Args: cobra.ExactArgs(1),
	RunE: runFmt,
}

func init() {
	rootCmd.AddCommand(fmtCmd)
}

func runFmt(cmd *cobra.Command, args []string) error {
	content, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", args[0], err)
	}

	p := parser.New(string(content), args[0])
	tree, errs := p.Parse()
	for _, e := range errs {
		fmt.Fprintf(os.Stderr, "%s [%s] %s: %s\n", red("parse"), e.Code, e.Pos, e.Message)
	}
	if errs.HasErrors() {
		return fmt.Errorf("fmt failed")
	}

	fmt.Print(tree.Text())
	return nil
}
