package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCombine_LaterLayersWin(t *testing.T) {
	global := Options{OptServer: "https://badges.example.com/", OptAsObject: false}
	local := Options{OptAsObject: "yes"}

	merged := Combine(DefaultOptions(), global, local)

	assert.Equal(t, "https://badges.example.com/", merged[OptServer])
	assert.Equal(t, "yes", merged[OptAsObject])
	assert.Equal(t, true, merged[OptAddLink], "untouched default survives")
}

func TestCombine_SkipsNilLayers(t *testing.T) {
	merged := Combine(nil, Options{OptServer: "x"}, nil)
	assert.Equal(t, Options{OptServer: "x"}, merged)
}

func TestSettings_Defaults(t *testing.T) {
	s, err := DefaultOptions().Settings()
	require.NoError(t, err)

	assert.Empty(t, s.Targets)
	assert.Equal(t, DefaultServer, s.Server)
	assert.True(t, s.AsObject)
	assert.True(t, s.AddLink)
	assert.Empty(t, s.Vars)
}

func TestSettings_StripsTrailingSlashes(t *testing.T) {
	s, err := Options{OptServer: "https://img.example.com//"}.Settings()
	require.NoError(t, err)
	assert.Equal(t, "https://img.example.com", s.Server)
}

func TestSettings_Targets(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want []string
	}{
		{"string list", []string{"html", "site"}, []string{"html", "site"}},
		{"yaml list", []any{"html", "pdf"}, []string{"html", "pdf"}},
		{"comma string", "html, pdf ,", []string{"html", "pdf"}},
		{"missing", nil, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := Options{OptTargets: tt.in}.Settings()
			require.NoError(t, err)
			assert.Equal(t, tt.want, s.Targets)
		})
	}
}

func TestSettings_Vars(t *testing.T) {
	s, err := Options{OptVars: map[string]any{"env": "prod", "port": 8080, "ratio": 0.5, "empty": nil}}.Settings()
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"env": "prod", "port": "8080", "ratio": "0.5", "empty": ""}, s.Vars)
}

func TestSettings_Errors(t *testing.T) {
	tests := []struct {
		name string
		opts Options
	}{
		{"bad bool", Options{OptAsObject: "maybe"}},
		{"bad add_link number", Options{OptAddLink: 7}},
		{"server not string", Options{OptServer: 42}},
		{"vars not map", Options{OptVars: "env=prod"}},
		{"targets not list", Options{OptTargets: 3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.opts.Settings()
			assert.Error(t, err)
		})
	}
}

func TestParseBool(t *testing.T) {
	truthy := []any{true, "true", "True", "YES", "y", "on", "1", 1, int64(1), uint64(1), float64(1)}
	for _, v := range truthy {
		b, err := ParseBool(v)
		require.NoError(t, err, "value %v", v)
		assert.True(t, b, "value %v", v)
	}

	falsy := []any{nil, false, "false", "No", "n", "OFF", "0", 0, float64(0)}
	for _, v := range falsy {
		b, err := ParseBool(v)
		require.NoError(t, err, "value %v", v)
		assert.False(t, b, "value %v", v)
	}

	_, err := ParseBool("sometimes")
	assert.Error(t, err)
}

func TestUnknown(t *testing.T) {
	o := Options{OptServer: "x", "colour": "red", "alt": "ci"}
	assert.Equal(t, []string{"alt", "colour"}, o.Unknown())
}

func TestMergeVars(t *testing.T) {
	base := map[string]string{"branch": "main", "repo": "widgets"}
	over := map[string]string{"branch": "release"}

	merged := MergeVars(base, over)

	assert.Equal(t, map[string]string{"branch": "release", "repo": "widgets"}, merged)
	assert.Equal(t, "main", base["branch"], "base not modified")
}
