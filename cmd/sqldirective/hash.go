package main

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/vippsas/sqldirective/script"
)

// hashProcessor feeds every compiled statement's final text into a running
// hash instead of executing it, the same 6-byte-truncated sha256 idiom the
// teacher's SchemaSuffixFromHash uses over a codebase's serialized bytes.
type hashProcessor struct {
	script.Processor
	hasher interface {
		Write(p []byte) (int, error)
	}
}

func (h hashProcessor) ExecuteStatement(text string, directives []script.DirectiveState) error {
	_, err := h.hasher.Write([]byte(text + "\n"))
	return err
}

var hashCmd = &cobra.Command{
	Use:   "hash <script>",
	Short: "Compute a stable content hash of a script's compiled statement text",
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

		hasher := sha256.New()
		if err := runner.ExecuteScript(args[0], hashProcessor{composite, hasher}); err != nil {
			return errors.WithMessagef(err, "hashing %q", args[0])
		}

		fmt.Println(hex.EncodeToString(hasher.Sum(nil)[:6]))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(hashCmd)
}
