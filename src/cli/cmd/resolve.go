package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sofmeright/badgetag/src/tag"
)

var resolveTarget string

var resolveCmd = &cobra.Command{
	Use:   "resolve [tag...]",
	Short: "Resolve badge tags and print the replacement",
	Long: `Resolve badge tags given as arguments, or read text from stdin when none
are given, and print the result for the build target.

An argument without a tag is taken as the badge body:

  badgetag resolve pypi/v/widgets.svg`,
	RunE: runResolve,
}

func init() {
	resolveCmd.Flags().StringVarP(&resolveTarget, "target", "t", "", "build target (default: from config, then html)")

	rootCmd.AddCommand(resolveCmd)
}

func runResolve(cmd *cobra.Command, args []string) error {
	rootDir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("getting working directory: %w", err)
	}

	engine := newEngine(rootDir, buildTarget(resolveTarget), nil, 1)
	// Input here is tag text, not a markdown document.
	engine.Source.SkipCode = false

	w := cmd.OutOrStdout()

	if len(args) == 0 {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("reading stdin: %w", err)
		}
		_, err = w.Write(engine.Rewrite(data, "<stdin>", nil))
		return err
	}

	for _, arg := range args {
		if !strings.Contains(arg, "<"+tag.Name) {
			arg = "<" + tag.Name + ">" + arg + "</" + tag.Name + ">"
		}
		fmt.Fprintln(w, string(engine.Rewrite([]byte(arg), "<args>", nil)))
	}
	return nil
}
