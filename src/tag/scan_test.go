package tag

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sofmeright/badgetag/src/config"
)

func TestScan_Basic(t *testing.T) {
	src := []byte("# Title\n\nBuild: <badge>github/actions/workflow/status/acme/widgets/ci.yml.svg</badge> done\n")

	occs := Scan(src, ScanOptions{File: "README.md"})
	require.Len(t, occs, 1)

	o := occs[0]
	assert.Equal(t, "<badge>github/actions/workflow/status/acme/widgets/ci.yml.svg</badge>", o.Raw)
	assert.Equal(t, "", o.Options)
	assert.Equal(t, "github/actions/workflow/status/acme/widgets/ci.yml.svg", o.Body)
	assert.Equal(t, 3, o.Line)
	assert.Equal(t, 8, o.Column)
	assert.Equal(t, "README.md:3:8", o.Location())
	assert.Equal(t, o.Raw, string(src[o.Start:o.End]))
}

func TestScan_OptionsAndSelfClosing(t *testing.T) {
	src := []byte(`<badge as_object="false" server='https://img.example.com'>pypi/v/widgets.svg</badge>
<badge add_link="no"/>
<badge />
`)

	occs := Scan(src, ScanOptions{})
	require.Len(t, occs, 3)

	assert.Equal(t, `as_object="false" server='https://img.example.com'`, occs[0].Options)
	assert.Equal(t, "pypi/v/widgets.svg", occs[0].Body)

	assert.Equal(t, `add_link="no"`, occs[1].Options)
	assert.Equal(t, "", occs[1].Body)
	assert.Equal(t, 2, occs[1].Line)

	assert.Equal(t, "<badge />", occs[2].Raw)
	assert.Equal(t, "", occs[2].Body)
}

func TestScan_MultilineBodyAndLineTracking(t *testing.T) {
	src := []byte("a\n<badge>first.svg</badge>\nb\n<badge>\nsecond.svg</badge>\n  <badge>third.svg</badge>")

	occs := Scan(src, ScanOptions{})
	require.Len(t, occs, 3)

	assert.Equal(t, 2, occs[0].Line)
	assert.Equal(t, 4, occs[1].Line)
	assert.Equal(t, "\nsecond.svg", occs[1].Body)
	assert.Equal(t, 6, occs[2].Line)
	assert.Equal(t, 3, occs[2].Column)
}

func TestScan_IgnoresOtherTags(t *testing.T) {
	src := []byte("<badges>x</badges> <badgeish/> <img src=\"a.svg\">")
	assert.Empty(t, Scan(src, ScanOptions{}))
}

func TestScan_UnicodeColumn(t *testing.T) {
	src := []byte("Статус: <badge>ci.svg</badge>")
	occs := Scan(src, ScanOptions{})
	require.Len(t, occs, 1)
	assert.Equal(t, 9, occs[0].Column)
}

func TestScan_SkipCode(t *testing.T) {
	src := []byte(strings.Join([]string{
		"Live: <badge>live.svg</badge>",
		"",
		"Inline `<badge>span.svg</badge>` example.",
		"",
		"```markdown",
		"<badge>fenced.svg</badge>",
		"```",
		"",
		"    <badge>indented.svg</badge>",
		"",
		"Tail <badge>tail.svg</badge>",
		"",
	}, "\n"))

	all := Scan(src, ScanOptions{})
	assert.Len(t, all, 5)

	live := Scan(src, ScanOptions{SkipCode: true})
	require.Len(t, live, 2)
	assert.Equal(t, "live.svg", live[0].Body)
	assert.Equal(t, "tail.svg", live[1].Body)
	assert.Equal(t, 11, live[1].Line)
}

func TestReplace(t *testing.T) {
	src := []byte("x <badge>a.svg</badge> y <badge>b.png</badge> z")
	occs := Scan(src, ScanOptions{})
	require.Len(t, occs, 2)

	out := Replace(src, occs, func(o Occurrence) string {
		return "[" + o.Body + "]"
	})
	assert.Equal(t, "x [a.svg] y [b.png] z", string(out))

	// Order of the occurrence slice doesn't matter.
	reversed := []Occurrence{occs[1], occs[0]}
	out = Replace(src, reversed, func(o Occurrence) string { return "" })
	assert.Equal(t, "x  y  z", string(out))
}

func TestReplace_NoOccurrences(t *testing.T) {
	src := []byte("nothing here")
	assert.Equal(t, src, Replace(src, nil, func(Occurrence) string { return "x" }))
}

func TestParseOptions(t *testing.T) {
	opts := ParseOptions(`as_object="false" server='https://img.example.com/' targets="[html, site]" vars="{env: prod, port: 8080}" add_link="yes" note="*oops"`)

	assert.Equal(t, false, opts[config.OptAsObject])
	assert.Equal(t, "https://img.example.com/", opts[config.OptServer])
	assert.Equal(t, []any{"html", "site"}, opts[config.OptTargets])
	assert.Equal(t, map[string]any{"env": "prod", "port": 8080}, opts[config.OptVars])
	assert.Equal(t, "yes", opts[config.OptAddLink])
	assert.Equal(t, "*oops", opts["note"], "undecodable YAML stays a string")
}

func TestParseOptions_Empty(t *testing.T) {
	assert.Nil(t, ParseOptions(""))
	assert.Nil(t, ParseOptions("   "))
}

func TestUnparsedOptions(t *testing.T) {
	assert.Equal(t, "", UnparsedOptions(`server="x" add_link='no'`))
	assert.Equal(t, "as_object=false", UnparsedOptions(`server="x" as_object=false`))
	assert.Equal(t, "", UnparsedOptions(`server="x" /`))
}
