package config

import (
	"fmt"
	"path"
	"strings"
)

// Validate checks structural invariants of a loaded Config.
// Returns warnings (soft issues) and a hard error if the config is invalid.
func Validate(cfg *Config) (warnings []string, err error) {
	var errs []string

	// ── Badges ────────────────────────────────────────────────────────────

	for _, key := range cfg.Badges.Unknown() {
		warnings = append(warnings, fmt.Sprintf("badges: unknown option %q (known: %s)", key, strings.Join(KnownOptions, ", ")))
	}
	if _, convErr := Combine(DefaultOptions(), cfg.Badges).Settings(); convErr != nil {
		errs = append(errs, "badges: "+convErr.Error())
	}

	// ── Source ────────────────────────────────────────────────────────────

	if len(cfg.Source.Include) == 0 {
		errs = append(errs, "source.include: at least one pattern is required")
	}
	for i, p := range cfg.Source.Include {
		if !validGlob(p) {
			errs = append(errs, fmt.Sprintf("source.include[%d]: invalid pattern %q", i, p))
		}
	}
	for i, p := range cfg.Source.Exclude {
		if !validGlob(p) {
			errs = append(errs, fmt.Sprintf("source.exclude[%d]: invalid pattern %q", i, p))
		}
	}

	if strings.TrimSpace(cfg.Target) == "" {
		warnings = append(warnings, fmt.Sprintf("target: empty, using %q", DefaultTarget))
	}

	if len(errs) > 0 {
		return warnings, fmt.Errorf("invalid config:\n  %s", strings.Join(errs, "\n  "))
	}
	return warnings, nil
}

// validGlob reports whether pattern is well-formed once "**" is treated as "*".
func validGlob(pattern string) bool {
	if strings.TrimSpace(pattern) == "" {
		return false
	}
	_, err := path.Match(strings.ReplaceAll(pattern, "**", "*"), "")
	return err == nil
}
