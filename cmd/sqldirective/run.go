package main

import (
	"context"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run <dbname> <script>",
	Short: "Compile and execute a script against a configured database",
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) != 2 {
			_ = cmd.Help()
			return errors.New("expected exactly 2 arguments: <dbname> <script>")
		}
		dbname, scriptName := args[0], args[1]

		logger := logrus.StandardLogger()
		ctx := context.Background()

		composite, err := newComposite(ctx, logger, dbname)
		if err != nil {
			return errors.WithMessagef(err, "database %q", dbname)
		}
		runner := newRunner(logger)
		if err := runner.ExecuteScript(scriptName, composite); err != nil {
			return errors.WithMessagef(err, "executing %q", scriptName)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
}
