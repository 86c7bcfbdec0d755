package config

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// DefaultServer is the badge-rendering service used when none is configured.
const DefaultServer = "https://img.shields.io"

// Badge option keys.
const (
	OptTargets  = "targets"
	OptServer   = "server"
	OptAsObject = "as_object"
	OptAddLink  = "add_link"
	OptVars     = "vars"
)

// KnownOptions lists every option key the badge resolver understands.
var KnownOptions = []string{OptTargets, OptServer, OptAsObject, OptAddLink, OptVars}

// Options is a single layer of badge options keyed by option name.
// Values are kept loosely typed so that YAML, TOML and tag attributes can
// spell booleans and lists however they like; Settings does the conversion.
type Options map[string]any

// DefaultOptions returns the built-in option layer.
func DefaultOptions() Options {
	return Options{
		OptTargets:  []string{},
		OptServer:   DefaultServer,
		OptAsObject: true,
		OptAddLink:  true,
		OptVars:     map[string]any{},
	}
}

// Combine merges option layers in order. Later layers override earlier ones
// key by key; a nil layer is skipped.
func Combine(layers ...Options) Options {
	out := Options{}
	for _, layer := range layers {
		for k, v := range layer {
			out[k] = v
		}
	}
	return out
}

// Unknown returns the sorted keys of o that are not badge options.
func (o Options) Unknown() []string {
	known := make(map[string]bool, len(KnownOptions))
	for _, k := range KnownOptions {
		known[k] = true
	}
	var unknown []string
	for k := range o {
		if !known[k] {
			unknown = append(unknown, k)
		}
	}
	sort.Strings(unknown)
	return unknown
}

// Settings is the typed view of a combined option set.
type Settings struct {
	Targets  []string          // build targets the tag is active for (empty = all)
	Server   string            // badge server base URL, no trailing slash
	AsObject bool              // embed SVG badges as <object> where the target allows it
	AddLink  bool              // append a deep link recovered from the badge URL
	Vars     map[string]string // ${name} substitutions applied to the badge path
}

// Settings converts the option layer into typed settings.
// Missing keys take their zero value; callers combine with DefaultOptions first.
func (o Options) Settings() (Settings, error) {
	var s Settings
	var err error

	if s.Targets, err = o.StringList(OptTargets); err != nil {
		return Settings{}, err
	}

	if v, ok := o[OptServer]; ok && v != nil {
		server, isStr := v.(string)
		if !isStr {
			return Settings{}, fmt.Errorf("option %s: expected a string, got %T", OptServer, v)
		}
		s.Server = strings.TrimRight(server, "/")
	}

	if s.AsObject, err = o.Bool(OptAsObject); err != nil {
		return Settings{}, err
	}
	if s.AddLink, err = o.Bool(OptAddLink); err != nil {
		return Settings{}, err
	}

	if s.Vars, err = toStringMap(o[OptVars]); err != nil {
		return Settings{}, fmt.Errorf("option %s: %w", OptVars, err)
	}

	return s, nil
}

// StringList reads a list-valued option. A plain string is split on commas.
func (o Options) StringList(key string) ([]string, error) {
	switch v := o[key].(type) {
	case nil:
		return nil, nil
	case []string:
		return v, nil
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			out = append(out, fmt.Sprint(item))
		}
		return out, nil
	case string:
		var out []string
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
		return out, nil
	default:
		return nil, fmt.Errorf("option %s: expected a list, got %T", key, v)
	}
}

// Bool reads a boolean option, accepting the usual textual spellings.
func (o Options) Bool(key string) (bool, error) {
	b, err := ParseBool(o[key])
	if err != nil {
		return false, fmt.Errorf("option %s: %w", key, err)
	}
	return b, nil
}

// ParseBool converts bools, 0/1 numbers and strings such as "yes", "off"
// or "1" into a bool. nil is false.
func ParseBool(v any) (bool, error) {
	switch b := v.(type) {
	case nil:
		return false, nil
	case bool:
		return b, nil
	case int:
		return intBool(int64(b))
	case int64:
		return intBool(b)
	case uint64:
		return intBool(int64(b))
	case float64:
		if b == 0 || b == 1 {
			return b == 1, nil
		}
	case string:
		switch strings.ToLower(strings.TrimSpace(b)) {
		case "true", "yes", "y", "on", "1":
			return true, nil
		case "false", "no", "n", "off", "0":
			return false, nil
		}
	}
	return false, fmt.Errorf("cannot interpret %v as a boolean", v)
}

func intBool(n int64) (bool, error) {
	switch n {
	case 0:
		return false, nil
	case 1:
		return true, nil
	}
	return false, fmt.Errorf("cannot interpret %d as a boolean", n)
}

func toStringMap(v any) (map[string]string, error) {
	out := map[string]string{}
	switch m := v.(type) {
	case nil:
	case map[string]string:
		for k, val := range m {
			out[k] = val
		}
	case map[string]any:
		for k, val := range m {
			out[k] = scalarString(val)
		}
	case Options:
		for k, val := range m {
			out[k] = scalarString(val)
		}
	default:
		return nil, fmt.Errorf("expected a mapping, got %T", v)
	}
	return out, nil
}

func scalarString(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	default:
		return fmt.Sprint(s)
	}
}

// MergeVars overlays vars on top of base. Neither input is modified.
func MergeVars(base, vars map[string]string) map[string]string {
	out := make(map[string]string, len(base)+len(vars))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range vars {
		out[k] = v
	}
	return out
}
