package tag

import (
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/sofmeright/badgetag/src/config"
)

// attrRe matches key="value" and key='value' pairs. Group 2 holds a
// double-quoted value, group 3 a single-quoted one.
var attrRe = regexp.MustCompile(`([A-Za-z_:][0-9A-Za-z_:\-.]*)=(?:"([^"]*)"|'([^']*)')`)

// ParseOptions parses a tag's options attribute string into an option layer.
// Each value is decoded as YAML so as_object="false" yields a bool and
// vars="{env: prod}" yields a mapping; values YAML can't decode stay strings.
// Text that doesn't look like an attribute is ignored (see UnparsedOptions).
func ParseOptions(attr string) config.Options {
	matches := attrRe.FindAllStringSubmatchIndex(attr, -1)
	if len(matches) == 0 {
		return nil
	}
	opts := make(config.Options, len(matches))
	for _, m := range matches {
		key := attr[m[2]:m[3]]
		var raw string
		if m[4] >= 0 {
			raw = attr[m[4]:m[5]]
		} else {
			raw = attr[m[6]:m[7]]
		}
		opts[key] = decodeValue(raw)
	}
	return opts
}

// UnparsedOptions returns whatever is left of attr once every key="value"
// pair is removed, trimmed of whitespace. A trailing self-closing slash is
// not counted.
func UnparsedOptions(attr string) string {
	rest := attrRe.ReplaceAllString(attr, " ")
	rest = strings.TrimSpace(rest)
	return strings.TrimSpace(strings.TrimSuffix(rest, "/"))
}

func decodeValue(raw string) any {
	var v any
	if err := yaml.Unmarshal([]byte(raw), &v); err != nil || v == nil {
		return raw
	}
	return v
}
