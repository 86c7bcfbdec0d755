package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/sofmeright/badgetag/src/audit"
	"github.com/sofmeright/badgetag/src/output"
	"github.com/sofmeright/badgetag/src/tag"
)

var checkTarget string

var checkCmd = &cobra.Command{
	Use:   "check [paths...]",
	Short: "Audit badge tags without rewriting",
	Long: `Audit badge tags for a build target without touching any file.

Reports tags that would be left as written, ignored option text, unknown
option keys and credentials embedded in badge URLs. Exits non-zero when a
critical finding is reported.`,
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().StringVarP(&checkTarget, "target", "t", "", "build target (default: from config, then html)")

	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	rootDir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("getting working directory: %w", err)
	}

	target := buildTarget(checkTarget)
	engine := newEngine(rootDir, target, nil, 0)

	auditor, err := audit.New(engine.Resolver, target)
	if err != nil {
		return err
	}

	files, err := engine.CollectFiles(args...)
	if err != nil {
		return fmt.Errorf("collecting files: %w", err)
	}

	start := time.Now()
	var findings []audit.Finding
	for _, f := range files {
		data, err := os.ReadFile(f.AbsPath)
		if err != nil {
			return fmt.Errorf("check: reading %s: %w", f.Path, err)
		}
		occs := tag.Scan(data, tag.ScanOptions{File: f.Path, SkipCode: cfg.Source.SkipCode})
		findings = append(findings, auditor.Check(occs)...)
	}
	elapsed := time.Since(start)

	var critical int
	for _, f := range findings {
		if f.Severity == audit.SeverityCritical {
			critical++
		}
	}

	w := cmd.OutOrStdout()
	color := output.UseColor()

	output.SectionStart(w, "badgetag_check", "Check")
	sec := output.NewSection(w, "Check", elapsed, color)
	output.SectionFindings(sec, findings, color)
	if len(findings) > 0 {
		sec.Separator()
	}
	sec.Row("%s", output.FindingsSummaryLine(findings, len(files), color))
	sec.Close()
	output.SectionEnd(w, "badgetag_check")

	if critical > 0 {
		return fmt.Errorf("check failed: %d critical findings", critical)
	}
	return nil
}
