package config

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/nne/internal/apperr"
	"github.com/vk/nne/internal/ctxlog"
	"github.com/vk/nne/internal/testutil"
)

const yamlConfig = `
user: "NNE bot (operated by My Nation)"
nation: my_nation
password: hunter2
region: the east pacific
test: true
title: "NNE of $region for $delegate, $date"
template_path: ./template.txt
log_level: DEBUG
`

const hclConfig = `
user          = "NNE bot (operated by My Nation)"
nation        = "my_nation"
password      = "hunter2"
region        = "the east pacific"
test          = true
title         = "NNE of $region for $delegate, $date"
template_path = "./template.txt"
log_level     = "DEBUG"
`

func boolPtr(b bool) *bool { return &b }

func expectedRaw() *Raw {
	return &Raw{
		User:         "NNE bot (operated by My Nation)",
		Nation:       "my_nation",
		Password:     "hunter2",
		Region:       "the east pacific",
		Test:         boolPtr(true),
		Title:        "NNE of $region for $delegate, $date",
		TemplatePath: "./template.txt",
		LogLevel:     "DEBUG",
	}
}

func TestLoad_FormatsAgree(t *testing.T) {
	dir := testutil.WriteFiles(t, map[string]string{
		"config.yml": yamlConfig,
		"nne.hcl":    hclConfig,
	})

	fromYAML, err := Load(context.Background(), filepath.Join(dir, "config.yml"))
	require.NoError(t, err)
	fromHCL, err := Load(context.Background(), filepath.Join(dir, "nne.hcl"))
	require.NoError(t, err)

	if diff := cmp.Diff(expectedRaw(), fromYAML); diff != "" {
		t.Errorf("YAML mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(fromYAML, fromHCL); diff != "" {
		t.Errorf("HCL differs from YAML (-yaml +hcl):\n%s", diff)
	}
}

func TestLoad_Directory(t *testing.T) {
	dir := testutil.WriteFiles(t, map[string]string{"config.yml": yamlConfig})

	raw, err := Load(context.Background(), dir)
	require.NoError(t, err)
	assert.Equal(t, "my_nation", raw.Nation)
	assert.True(t, raw.NeedsDelegate())
}

func TestLoad_EnvOverrides(t *testing.T) {
	dir := testutil.WriteFiles(t, map[string]string{"config.yml": yamlConfig})
	t.Setenv("NNE_PASSWORD", "from-env")
	t.Setenv("NNE_DELEGATE", "great_nation")
	t.Setenv("NNE_TEST", "false")

	raw, err := Load(context.Background(), dir)
	require.NoError(t, err)
	assert.Equal(t, "from-env", raw.Password)
	assert.Equal(t, "great_nation", raw.Delegate)
	require.NotNil(t, raw.Test)
	assert.False(t, *raw.Test)
	assert.Equal(t, "my_nation", raw.Nation)
}

func TestLoad_BadEnvValue(t *testing.T) {
	dir := testutil.WriteFiles(t, map[string]string{"config.yml": yamlConfig})
	t.Setenv("NNE_TEST", "maybe")

	_, err := Load(context.Background(), dir)
	require.ErrorContains(t, err, "parse env")
	assert.Equal(t, "config", apperr.Kind(err))
}

func TestLoad_HCLEnvFunction(t *testing.T) {
	t.Setenv("NNE_TEST_SECRET", "s3cret")
	dir := testutil.WriteFiles(t, map[string]string{
		"config.hcl": `
user          = "bot"
nation        = "my_nation"
password      = env("NNE_TEST_SECRET")
region        = "lazarus"
test          = false
title         = "NNE"
template_path = "t.txt"
`,
	})

	raw, err := Load(context.Background(), dir)
	require.NoError(t, err)
	assert.Equal(t, "s3cret", raw.Password)
}

func TestHCLLoader_EnvFunctionUnset(t *testing.T) {
	t.Parallel()

	dir := testutil.WriteFiles(t, map[string]string{"config.hcl": `password = env("NNE_SURELY_UNSET_VAR")`})
	loader := &HCLLoader{lookupEnv: func(string) (string, bool) { return "", false }}

	_, err := loader.Load(context.Background(), filepath.Join(dir, "config.hcl"))
	require.ErrorContains(t, err, `environment variable "NNE_SURELY_UNSET_VAR" is not set`)
}

func TestLoad_Errors(t *testing.T) {
	testCases := []struct {
		name      string
		files     map[string]string
		path      string
		wantField string
		wantMsg   string
	}{
		{
			name:      "missing required field",
			files:     map[string]string{"config.yml": "user: u\nnation: n\nregion: r\ntest: false\ntitle: t\ntemplate_path: p\n"},
			path:      "config.yml",
			wantField: "password",
		},
		{
			name:      "missing test flag",
			files:     map[string]string{"config.yml": "user: u\nnation: n\npassword: p\nregion: r\ntitle: t\ntemplate_path: p\n"},
			path:      "config.yml",
			wantField: "test",
		},
		{
			name:    "unknown key",
			files:   map[string]string{"config.yml": yamlConfig + "templatepath: oops\n"},
			path:    "config.yml",
			wantMsg: "templatepath",
		},
		{
			name:      "bad timeout",
			files:     map[string]string{"config.yml": yamlConfig + "timeout: soon\n"},
			path:      "config.yml",
			wantField: "timeout",
		},
		{
			name:      "bad api url",
			files:     map[string]string{"config.yml": yamlConfig + "api_url: not a url\n"},
			path:      "config.yml",
			wantField: "api_url",
		},
		{
			name:    "unsupported extension",
			files:   map[string]string{"config.toml": "user = 'x'"},
			path:    "config.toml",
			wantMsg: "unsupported configuration format",
		},
		{
			name:    "empty file",
			files:   map[string]string{"config.yml": ""},
			path:    "config.yml",
			wantMsg: "is empty",
		},
		{
			name:    "invalid HCL",
			files:   map[string]string{"config.hcl": "user = \n"},
			path:    "config.hcl",
			wantMsg: "failed to parse HCL file",
		},
		{
			name:    "missing file",
			files:   map[string]string{},
			path:    "config.yml",
			wantMsg: "no such file",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			dir := testutil.WriteFiles(t, tc.files)

			_, err := Load(context.Background(), filepath.Join(dir, tc.path))
			require.Error(t, err)

			var ce *apperr.ConfigError
			require.ErrorAs(t, err, &ce)
			if tc.wantField != "" {
				assert.Equal(t, tc.wantField, ce.Field)
			}
			if tc.wantMsg != "" {
				assert.Contains(t, err.Error(), tc.wantMsg)
			}
		})
	}
}

func TestNormalizeLogLevel(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		in     string
		want   string
		wantOK bool
	}{
		{"DEBUG", LevelDebug, true},
		{"info", LevelInfo, true},
		{"Warning", LevelWarn, true},
		{"warn", LevelWarn, true},
		{"ERROR", LevelError, true},
		{"", LevelInfo, false},
		{"verbose", LevelInfo, false},
	}
	for _, tc := range testCases {
		got, ok := NormalizeLogLevel(tc.in)
		assert.Equal(t, tc.want, got, "level %q", tc.in)
		assert.Equal(t, tc.wantOK, ok, "level %q", tc.in)
	}
}

func TestResolve(t *testing.T) {
	t.Parallel()

	raw := expectedRaw()
	raw.Timeout = "10s"

	resolved, err := Resolve(raw, "looked_up")
	require.NoError(t, err)
	assert.Equal(t, "looked_up", resolved.Delegate)
	assert.True(t, resolved.Test)
	assert.Equal(t, LevelDebug, resolved.LogLevel)
	assert.Equal(t, 10*time.Second, resolved.Timeout)
	assert.Empty(t, raw.Delegate, "Resolve must not modify raw")
}

func TestResolve_ConfiguredDelegateWins(t *testing.T) {
	t.Parallel()

	raw := expectedRaw()
	raw.Delegate = "configured"

	resolved, err := Resolve(raw, "")
	require.NoError(t, err)
	assert.Equal(t, "configured", resolved.Delegate)
}

func TestResolve_NoDelegate(t *testing.T) {
	t.Parallel()

	_, err := Resolve(expectedRaw(), "")
	var ce *apperr.ConfigError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "delegate", ce.Field)
}

func TestResolved_LogValueRedactsPassword(t *testing.T) {
	t.Parallel()

	ctx, logs := testutil.LoggedContext(t)
	resolved, err := Resolve(expectedRaw(), "d")
	require.NoError(t, err)

	ctxlog.FromContext(ctx).Info("config", "resolved", *resolved, "raw", *expectedRaw())
	assert.NotContains(t, logs.String(), "hunter2")
	assert.Contains(t, logs.String(), "resolved.region=")
}
