package output

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/sofmeright/badgetag/src/audit"
	"github.com/sofmeright/badgetag/src/pipeline"
)

// Colors for terminal output.
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorGray   = "\033[90m"
	colorBold   = "\033[1m"
)

func isTerminal() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}

// UseColor returns true if colored output should be used.
// Respects NO_COLOR env, TERM=dumb, and terminal detection.
func UseColor() bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if os.Getenv("TERM") == "dumb" {
		return false
	}
	return isTerminal() || IsCI()
}

// Totals sums per-file results.
func Totals(results []pipeline.Result) pipeline.Result {
	var t pipeline.Result
	for _, r := range results {
		t.Tags += r.Tags
		t.Rendered += r.Rendered
		t.Dropped += r.Dropped
		t.Kept += r.Kept
		if r.Changed {
			t.Changed = true
		}
	}
	return t
}

// ResultsTable writes one row per document that holds tags, then a total
// row. Documents without tags are only counted.
func ResultsTable(sec *Section, results []pipeline.Result, color bool) {
	sec.Row("%-34s%5s %5s %5s %5s", "file", "tags", "rend", "drop", "kept")

	var changed int
	for _, r := range results {
		if r.Changed {
			changed++
		}
		if r.Tags == 0 {
			continue
		}
		status := StatusOK
		if r.Kept > 0 {
			status = StatusSkipped
		}
		sec.Row("%-34s%5d %5d %5d %5d  %s",
			truncate(r.File, 33), r.Tags, r.Rendered, r.Dropped, r.Kept, StatusIcon(status, color))
	}

	t := Totals(results)
	sec.Separator()
	sec.Row("%-34s%5d %5d %5d %5d", "total", t.Tags, t.Rendered, t.Dropped, t.Kept)
	sec.Row("%s", Dimmed(fmt.Sprintf("%d files scanned, %d changed", len(results), changed), color))
}

// truncate shortens s from the left so the tail of a path stays visible.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return "…" + string(r[len(r)-n+1:])
}

// FindingsSummaryLine returns a one-line findings summary, optionally colored.
func FindingsSummaryLine(findings []audit.Finding, filesScanned int, color bool) string {
	var critical, warning, info int
	for _, f := range findings {
		switch f.Severity {
		case audit.SeverityCritical:
			critical++
		case audit.SeverityWarning:
			warning++
		default:
			info++
		}
	}

	parts := []string{}
	if critical > 0 {
		parts = append(parts, colorize(fmt.Sprintf("%d critical", critical), colorRed, color))
	}
	if warning > 0 {
		parts = append(parts, colorize(fmt.Sprintf("%d warning", warning), colorYellow, color))
	}
	if info > 0 {
		parts = append(parts, fmt.Sprintf("%d info", info))
	}

	summary := "no findings"
	if len(parts) > 0 {
		summary = strings.Join(parts, ", ")
	}

	total := colorize(fmt.Sprintf("%d", len(findings)), colorBold, color)
	return fmt.Sprintf("%s findings in %d files: %s", total, filesScanned, summary)
}

// severityTag returns a short severity label, optionally colored.
func severityTag(s audit.Severity, color bool) string {
	switch s {
	case audit.SeverityCritical:
		return colorize("CRIT", colorRed, color)
	case audit.SeverityWarning:
		return colorize("WARN", colorYellow, color)
	case audit.SeverityInfo:
		return colorize("INFO", colorGray, color)
	default:
		return s.String()
	}
}

func colorize(text, c string, color bool) string {
	if !color {
		return text
	}
	return c + text + colorReset
}

// SectionFindings renders findings grouped by file inside a section.
// Files are sorted lexicographically; findings within each file by line, col, check, message.
func SectionFindings(sec *Section, findings []audit.Finding, color bool) {
	if len(findings) == 0 {
		return
	}

	byFile := map[string][]audit.Finding{}
	for _, f := range findings {
		byFile[f.File] = append(byFile[f.File], f)
	}

	files := make([]string, 0, len(byFile))
	for file := range byFile {
		files = append(files, file)
	}
	sort.Strings(files)

	sec.Row("")

	for _, file := range files {
		ff := byFile[file]
		sort.Slice(ff, func(i, j int) bool {
			a, b := ff[i], ff[j]
			if a.Line != b.Line {
				return a.Line < b.Line
			}
			if a.Column != b.Column {
				return a.Column < b.Column
			}
			if a.Check != b.Check {
				return a.Check < b.Check
			}
			return a.Message < b.Message
		})

		sec.Row("%s", colorize(file, colorBold, color))

		for _, f := range ff {
			var loc string
			switch {
			case f.Line == 0:
				loc = "-"
			case f.Column > 0:
				loc = fmt.Sprintf("%d:%d", f.Line, f.Column)
			default:
				loc = fmt.Sprintf("%d", f.Line)
			}
			sec.Row("  %-8s %-4s  %-10s %s", loc, severityTag(f.Severity, color), f.Check, f.Message)
		}

		sec.Row("")
	}
}
