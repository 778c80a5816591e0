// Package main is the sqldirective CLI, modeled on the teacher's
// cli/cmd package (root.go's persistent flags, build.go's dump-to-stdout,
// dep.go's report, up.go's deploy flow).
package main

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	rootCmd = &cobra.Command{
		Use:          "sqldirective",
		Short:        "sqldirective",
		SilenceUsage: true,
		Long:         `CLI tool for compiling and executing directive-annotated SQL scripts.`,
	}

	directory string
)

func Execute() error {
	rootCmd.PersistentFlags().StringVarP(&directory, "directory", "d", ".", "directory scripts are resolved relative to")
	return rootCmd.Execute()
}

func main() {
	if err := Execute(); err != nil {
		os.Exit(1)
	}
}
