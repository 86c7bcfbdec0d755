// Package badge turns <badge> tag occurrences into image or object markup
// pointing at a badge-rendering service.
package badge

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/sofmeright/badgetag/src/config"
	"github.com/sofmeright/badgetag/src/tag"
)

const (
	imageTemplate  = "![](%s)"
	objectTemplate = `<object data="%s" type="image/svg+xml"></object>`
	svgExt         = ".svg"
)

// staticTargets are build targets that can't host an <object> embed.
var staticTargets = map[string]bool{
	"pdf":  true,
	"docx": true,
}

// ErrEmptyPath is reported when a tag's badge path is empty after normalization.
var ErrEmptyPath = errors.New("path to badge not specified")

// Outcome classifies what happened to a tag.
type Outcome int

const (
	Rendered Outcome = iota // replaced with image/object markup
	Dropped                 // removed: the build target is not one of the tag's targets
	Kept                    // left as written because it could not be resolved
)

func (o Outcome) String() string {
	switch o {
	case Rendered:
		return "rendered"
	case Dropped:
		return "dropped"
	case Kept:
		return "kept"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// Resolution is the full result of resolving one occurrence.
type Resolution struct {
	Occurrence tag.Occurrence
	Target     string
	Outcome    Outcome
	Text       string          // replacement text for the tag
	Link       string          // final badge URL (Rendered only)
	DeepLink   string          // recovered deep link, if any
	Settings   config.Settings // effective options (zero when they failed to convert)
	Err        error           // why the tag was Kept
}

// Resolver resolves tag occurrences against a global option layer.
// It holds no mutable state and is safe for concurrent use.
type Resolver struct {
	Global   config.Options     // global configuration layer
	BaseVars map[string]string  // vars underlay (git-derived); option vars win
	Log      logrus.FieldLogger // receives warnings for kept tags
}

// NewResolver creates a resolver. A nil logger discards output.
func NewResolver(global config.Options, log logrus.FieldLogger) *Resolver {
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}
	return &Resolver{Global: global, Log: log}
}

// Resolve returns the replacement text for occ when building target:
// "" when the tag is not meant for target, the original tag text when it
// can't be resolved (a warning is logged), the rendered markup otherwise.
func (r *Resolver) Resolve(occ tag.Occurrence, target string) string {
	res := r.Evaluate(occ, target)
	r.Report(res)
	return res.Text
}

// Evaluate resolves occ without logging.
func (r *Resolver) Evaluate(occ tag.Occurrence, target string) Resolution {
	res := Resolution{Occurrence: occ, Target: target}

	opts := config.Combine(config.DefaultOptions(), r.Global, tag.ParseOptions(occ.Options))

	// Target filtering runs before anything else can fail.
	if targets, err := opts.StringList(config.OptTargets); err == nil && len(targets) > 0 && !contains(targets, target) {
		res.Outcome = Dropped
		return res
	}

	settings, err := opts.Settings()
	if err != nil {
		return kept(res, err)
	}
	res.Settings = settings

	vars := config.MergeVars(r.BaseVars, settings.Vars)
	body := ApplyVars(vars, strings.TrimLeft(occ.Body, "/"))
	if body == "" {
		return kept(res, ErrEmptyPath)
	}

	link := BuildLink(settings.Server, body)
	if settings.AddLink {
		if deep := DeepLink(link); deep != "" {
			res.DeepLink = deep
			link = SetQueryParam(link, "link", deep)
		}
	}

	res.Outcome = Rendered
	res.Link = link
	res.Text = Render(link, target, settings.AsObject)
	return res
}

// Report logs the resolution: a warning for kept tags, debug otherwise.
func (r *Resolver) Report(res Resolution) {
	occ := res.Occurrence
	fields := logrus.Fields{
		"file":   occ.File,
		"line":   occ.Line,
		"column": occ.Column,
		"target": res.Target,
	}

	switch res.Outcome {
	case Kept:
		fields["tag"] = occ.Raw
		r.Log.WithFields(fields).Warnf("%s: %v. Skipping", occ.Location(), res.Err)
	case Dropped:
		r.Log.WithFields(fields).Debugf("%s not in targets, removing badge tag", res.Target)
	default:
		r.Log.WithFields(fields).Debugf("badge -> %s", res.Link)
	}
}

// Render wraps link as an <object> embed when the target supports it, the
// badge is an SVG and asObject is set; otherwise as a markdown image.
func Render(link, target string, asObject bool) string {
	if asObject && !staticTargets[target] && Ext(link) == svgExt {
		return fmt.Sprintf(objectTemplate, link)
	}
	return fmt.Sprintf(imageTemplate, link)
}

func kept(res Resolution, err error) Resolution {
	res.Outcome = Kept
	res.Text = res.Occurrence.Raw
	res.Err = err
	return res
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
