package main

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/vippsas/sqldirective/script"
)

// dumpProcessor wraps a Processor, printing each statement's final text to
// stdout instead of forwarding it to ExecuteStatement -- the teacher's
// build.go dump-to-stdout pattern applied to the compiled statement text
// rather than a preprocessed batch.
type dumpProcessor struct {
	script.Processor
}

func (d dumpProcessor) ExecuteStatement(text string, directives []script.DirectiveState) error {
	fmt.Println(text)
	fmt.Println("===")
	return nil
}

var compileCmd = &cobra.Command{
	Use:   "compile <script>",
	Short: "Dump the compiled statement text of a script to stdout",
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) != 1 {
			_ = cmd.Help()
			return errors.New("expected exactly 1 argument: <script>")
		}

		logger := logrus.StandardLogger()
		composite, err := newComposite(context.Background(), logger, "")
		if err != nil {
			return errors.WithMessage(err, "building processor")
		}
		runner := newRunner(logger)
		return errors.WithMessagef(runner.ExecuteScript(args[0], dumpProcessor{composite}), "compiling %q", args[0])
	},
}

func init() {
	rootCmd.AddCommand(compileCmd)
}
