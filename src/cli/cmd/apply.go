package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/sofmeright/badgetag/src/output"
	"github.com/sofmeright/badgetag/src/pipeline"
)

var (
	applyTarget string
	applyOut    string
	applyDryRun bool
	applyJobs   int
)

var applyCmd = &cobra.Command{
	Use:   "apply [paths...]",
	Short: "Replace badge tags in documentation sources",
	Long: `Replace <badge> tags with image or object markup for a build target.

Without paths, documents matching source.include under the working directory
are processed. Files are rewritten in place unless --out or --dry-run is set.`,
	RunE: runApply,
}

func init() {
	applyCmd.Flags().StringVarP(&applyTarget, "target", "t", "", "build target (default: from config, then html)")
	applyCmd.Flags().StringVarP(&applyOut, "out", "o", "", "write processed copies under this directory")
	applyCmd.Flags().BoolVar(&applyDryRun, "dry-run", false, "report changes without writing")
	applyCmd.Flags().IntVarP(&applyJobs, "jobs", "j", 0, "max files processed concurrently (default: 2x CPUs)")

	rootCmd.AddCommand(applyCmd)
}

func runApply(cmd *cobra.Command, args []string) error {
	rootDir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("getting working directory: %w", err)
	}

	var sink pipeline.Sink = pipeline.InPlace{}
	switch {
	case applyDryRun:
		sink = pipeline.DryRun{}
	case applyOut != "":
		sink = pipeline.Dir{Root: applyOut}
	}

	target := buildTarget(applyTarget)
	engine := newEngine(rootDir, target, sink, applyJobs)

	files, err := engine.CollectFiles(args...)
	if err != nil {
		return fmt.Errorf("collecting files: %w", err)
	}
	log.Debugf("processing %d files for target %s", len(files), target)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	start := time.Now()
	results, runErr := engine.Run(ctx, files)
	elapsed := time.Since(start)

	w := cmd.OutOrStdout()
	color := output.UseColor()

	mode := "in place"
	switch {
	case applyDryRun:
		mode = "dry run"
	case applyOut != "":
		mode = applyOut
	}
	output.ContextBlock(w, []output.KV{
		{Key: "target", Value: target},
		{Key: "output", Value: mode},
	})

	output.SectionStart(w, "badgetag_apply", "Badges")
	sec := output.NewSection(w, "Badges", elapsed, color)
	output.ResultsTable(sec, results, color)
	if applyDryRun {
		sec.Separator()
		for _, r := range results {
			if r.Changed {
				sec.Row("would change %s", r.File)
			}
		}
	}
	sec.Close()
	output.SectionEnd(w, "badgetag_apply")

	if runErr != nil {
		return fmt.Errorf("apply: %w", runErr)
	}
	return nil
}
