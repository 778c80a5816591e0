package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/repr"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/vippsas/sqldirective/lexer"
	"github.com/vippsas/sqldirective/parser"
	"github.com/vippsas/sqldirective/resolver"
)

var explainCmd = &cobra.Command{
	Use:   "explain <script>",
	Short: "Pretty-print the parsed statement/directive tree of a script",
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) != 1 {
			_ = cmd.Help()
			return errors.New("expected exactly 1 argument: <script>")
		}

		res := resolver.FileSystemResolver{Root: os.DirFS(directory)}
		src, err := res.Resolve(args[0])
		if err != nil {
			return errors.WithMessagef(err, "resolving %q", args[0])
		}
		if src == nil {
			return fmt.Errorf("script not found: %s", args[0])
		}

		terminator := src.Terminator
		if terminator == "" {
			terminator = lexer.DefaultTerminator
		}

		statements, err := parser.Parse(src.DisplayName, src.Source, terminator)
		if err != nil {
			return errors.WithMessagef(err, "parsing %q", args[0])
		}
		for _, stmt := range statements {
			repr.Println(stmt)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(explainCmd)
}
