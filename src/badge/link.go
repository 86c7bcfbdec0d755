package badge

import (
	"net/url"
	"path"
	"regexp"
	"sort"
	"strings"
)

// deepLinkRule maps a badge URL path shape to the page the badge describes.
type deepLinkRule struct {
	pattern  *regexp.Regexp
	template string
}

// deepLinkRules is checked in order; the first match wins.
var deepLinkRules = []deepLinkRule{
	{
		pattern:  regexp.MustCompile(`/jira/issue/(?P<protocol>.+?)/(?P<host>.+)/(?P<issue>.+)\.\w+$`),
		template: "${protocol}://${host}/browse/${issue}",
	},
	{
		pattern:  regexp.MustCompile(`/pypi/\w+/(?P<project>.+)\.\w+$`),
		template: "https://pypi.org/project/${project}",
	},
}

// BuildLink joins server and path with a single slash, unless path is
// already a complete URL.
func BuildLink(server, p string) string {
	if strings.HasPrefix(p, "http") {
		return p
	}
	return server + "/" + p
}

// DeepLink recovers the human-facing page behind a badge URL, such as the
// issue a Jira badge reports on. Returns "" when no known shape matches.
func DeepLink(badgeURL string) string {
	p := urlPath(badgeURL)
	for _, rule := range deepLinkRules {
		m := rule.pattern.FindStringSubmatchIndex(p)
		if m == nil {
			continue
		}
		return string(rule.pattern.ExpandString(nil, rule.template, p, m))
	}
	return ""
}

// SetQueryParam sets key=value in rawURL's query string. Existing pairs for
// key are removed; every other pair is kept as written, in order, and the new
// pair is appended. The scheme, host, path and fragment are left intact.
func SetQueryParam(rawURL, key, value string) string {
	base, fragment, hasFragment := strings.Cut(rawURL, "#")
	base, rawQuery, _ := strings.Cut(base, "?")

	var pairs []string
	for _, pair := range strings.Split(rawQuery, "&") {
		if pair == "" {
			continue
		}
		k, _, _ := strings.Cut(pair, "=")
		if unescaped, err := url.QueryUnescape(k); err == nil {
			k = unescaped
		}
		if k == key {
			continue
		}
		pairs = append(pairs, pair)
	}
	pairs = append(pairs, url.QueryEscape(key)+"="+url.QueryEscape(value))

	out := base + "?" + strings.Join(pairs, "&")
	if hasFragment {
		out += "#" + fragment
	}
	return out
}

// Ext returns the file extension of the URL's path, e.g. ".svg".
func Ext(rawURL string) string {
	return path.Ext(urlPath(rawURL))
}

// urlPath returns the path of rawURL. A URL that doesn't parse, such as one
// holding a bare "%", is cut at its query and fragment instead.
func urlPath(rawURL string) string {
	if u, err := url.Parse(rawURL); err == nil {
		return u.Path
	}
	p, _, _ := strings.Cut(rawURL, "#")
	p, _, _ = strings.Cut(p, "?")
	return p
}

// ApplyVars replaces every ${name} in s with vars[name], matching names
// case-insensitively. Names are applied in sorted order.
func ApplyVars(vars map[string]string, s string) string {
	if len(vars) == 0 || !strings.Contains(s, "${") {
		return s
	}
	names := make([]string, 0, len(vars))
	for name := range vars {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		re := regexp.MustCompile(`(?i)\$\{` + regexp.QuoteMeta(name) + `\}`)
		s = re.ReplaceAllLiteralString(s, vars[name])
	}
	return s
}
