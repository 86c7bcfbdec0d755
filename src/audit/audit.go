// Package audit inspects badge tags without rewriting them: tags that would
// be left as written, option text that is silently ignored, unknown option
// keys, and credentials leaking into badge URLs.
package audit

import (
	"fmt"
	"strings"

	"github.com/zricethezav/gitleaks/v8/detect"

	"github.com/sofmeright/badgetag/src/badge"
	"github.com/sofmeright/badgetag/src/tag"
)

// Check names.
const (
	CheckUnresolved = "unresolved"
	CheckSyntax     = "syntax"
	CheckOptions    = "options"
	CheckSecrets    = "secrets"
)

// Auditor checks tag occurrences for one build target.
// A detector is not safe for concurrent use; use one Auditor per goroutine.
type Auditor struct {
	Resolver *badge.Resolver
	Target   string

	detector *detect.Detector
}

// New creates an auditor backed by the default gitleaks rule set.
func New(r *badge.Resolver, target string) (*Auditor, error) {
	d, err := detect.NewDetectorDefaultConfig()
	if err != nil {
		return nil, fmt.Errorf("audit: loading secret rules: %w", err)
	}
	return &Auditor{Resolver: r, Target: target, detector: d}, nil
}

// Check returns findings for the given occurrences in document order.
func (a *Auditor) Check(occs []tag.Occurrence) []Finding {
	var findings []Finding
	for _, occ := range occs {
		findings = append(findings, a.checkOne(occ)...)
	}
	return findings
}

func (a *Auditor) checkOne(occ tag.Occurrence) []Finding {
	var findings []Finding
	add := func(check string, sev Severity, format string, args ...any) {
		findings = append(findings, Finding{
			File:     occ.File,
			Line:     occ.Line,
			Column:   occ.Column,
			Check:    check,
			Severity: sev,
			Message:  fmt.Sprintf(format, args...),
		})
	}

	if rest := tag.UnparsedOptions(occ.Options); rest != "" {
		add(CheckSyntax, SeverityWarning, "ignored option text %q (expected key=\"value\")", rest)
	}
	for _, key := range tag.ParseOptions(occ.Options).Unknown() {
		add(CheckOptions, SeverityInfo, "unknown option %q", key)
	}

	res := a.Resolver.Evaluate(occ, a.Target)
	switch res.Outcome {
	case badge.Kept:
		add(CheckUnresolved, SeverityWarning, "%v; tag is left as written", res.Err)
	case badge.Rendered:
		for _, hit := range a.detector.DetectBytes([]byte(res.Link)) {
			add(CheckSecrets, SeverityCritical, "%s (%s) in badge URL", strings.TrimSpace(hit.Description), hit.RuleID)
		}
	}
	return findings
}
