package cmd

import (
	"github.com/sofmeright/badgetag/src/badge"
	"github.com/sofmeright/badgetag/src/config"
	"github.com/sofmeright/badgetag/src/gitvars"
	"github.com/sofmeright/badgetag/src/pipeline"
)

// buildTarget picks the target: CLI flag > config > default.
func buildTarget(flag string) string {
	if flag != "" {
		return flag
	}
	if cfg.Target != "" {
		return cfg.Target
	}
	return config.DefaultTarget
}

// newResolver creates a resolver over the configured global options, seeded
// with repository vars when git_vars is enabled.
func newResolver(rootDir string) *badge.Resolver {
	r := badge.NewResolver(cfg.Badges, log)
	if !cfg.GitVars {
		return r
	}
	vars, err := gitvars.Detect(rootDir)
	if err != nil {
		log.WithError(err).Debug("git vars unavailable")
		return r
	}
	log.WithField("vars", vars).Debug("git vars")
	r.BaseVars = vars
	return r
}

func newEngine(rootDir, target string, sink pipeline.Sink, jobs int) *pipeline.Engine {
	return &pipeline.Engine{
		Source:   cfg.Source,
		RootDir:  rootDir,
		Target:   target,
		Resolver: newResolver(rootDir),
		Sink:     sink,
		Jobs:     jobs,
		Log:      log,
	}
}
