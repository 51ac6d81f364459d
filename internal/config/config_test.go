package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/nslog/pkg/nslog"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"APP_ENV", "LOG_NAMESPACES", "LOG_LEVEL", "LOG_OUTPUT", "LOG_COLOR", "LOG_CONTEXT", "ADMIN_ADDR", "ADMIN_METRICS"} {
		if v, ok := os.LookupEnv(k); ok {
			require.NoError(t, os.Unsetenv(k))
			t.Cleanup(func() { os.Setenv(k, v) })
		}
	}
}

func writeYAML(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "nslog.yaml")
	require.NoError(t, os.WriteFile(p, []byte(body), 0o600))
	return p
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	c, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "dev", c.App.Env)
	assert.Equal(t, "error", c.Log.Level)
	assert.Equal(t, "pretty", c.Log.Output)
	assert.Equal(t, "auto", c.Log.Color)
	assert.Equal(t, "", c.Log.Namespaces)
	assert.Equal(t, ":9090", c.Admin.Addr)
	assert.Equal(t, Default(), c)
}

func TestLoad_YAML(t *testing.T) {
	clearEnv(t)
	p := writeYAML(t, `
app:
  env: prod
log:
  namespaces: "api:*, -api:health"
  level: debug
  output: json
  context:
    version: 2.0.0
    env: dev
admin:
  addr: 127.0.0.1:7000
  metrics: true
`)
	c, err := Load(p)
	require.NoError(t, err)
	assert.Equal(t, "prod", c.App.Env)
	assert.Equal(t, "api:*, -api:health", c.Log.Namespaces)
	assert.Equal(t, "debug", c.Log.Level)
	assert.Equal(t, "json", c.Log.Output)
	assert.Equal(t, map[string]string{"version": "2.0.0", "env": "dev"}, c.Log.Context)
	assert.Equal(t, "127.0.0.1:7000", c.Admin.Addr)
	assert.True(t, c.Admin.Metrics)
}

func TestLoad_EnvOverrides(t *testing.T) {
	clearEnv(t)
	p := writeYAML(t, "log:\n  namespaces: \"a:*\"\n  level: warn\n")
	t.Setenv("LOG_LEVEL", "info")
	t.Setenv("LOG_OUTPUT", "json")
	t.Setenv("LOG_CONTEXT", "version=1.2.3, region = eu ,broken")
	t.Setenv("ADMIN_METRICS", "true")
	t.Setenv("LOG_NAMESPACES", "")

	c, err := Load(p)
	require.NoError(t, err)
	assert.Equal(t, "info", c.Log.Level)
	assert.Equal(t, "json", c.Log.Output)
	assert.Equal(t, "", c.Log.Namespaces, "empty LOG_NAMESPACES disables everything")
	assert.Equal(t, map[string]string{"version": "1.2.3", "region": "eu"}, c.Log.Context)
	assert.True(t, c.Admin.Metrics)
}

func TestLoad_Invalid(t *testing.T) {
	clearEnv(t)
	cases := map[string]string{
		"level":   "log:\n  level: loud\n",
		"output":  "log:\n  output: xml\n",
		"color":   "log:\n  color: rainbow\n",
		"pattern": "log:\n  namespaces: \"a::b\"\n",
	}
	for name, body := range cases {
		_, err := Load(writeYAML(t, body))
		require.Error(t, err, name)
		assert.True(t, nslog.IsConfigError(err), name)
	}

	_, err := Load(writeYAML(t, "app:\n  env: staging\n"))
	assert.Error(t, err)

	_, err = Load(writeYAML(t, "log: [unclosed\n"))
	assert.Error(t, err)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	t.Setenv("ADMIN_METRICS", "maybe")
	_, err = Load("")
	assert.Error(t, err)
}

func TestApplyTo(t *testing.T) {
	clearEnv(t)
	c := Default()
	c.Log.Namespaces = "svc:*"
	c.Log.Level = "info"
	c.Log.Output = "json"
	c.Log.Context = map[string]string{"version": "2.0.0"}

	rt := nslog.NewRuntime(nslog.WithWriter(os.Stderr))
	require.NoError(t, c.ApplyTo(rt))

	s := rt.Snapshot()
	assert.Equal(t, "svc:*", s.Namespaces)
	assert.Equal(t, nslog.InfoLevel, s.Level)
	assert.Equal(t, nslog.OutputJSON, s.Output.Name())
	assert.Equal(t, nslog.Fields{"version": "2.0.0"}, s.GlobalContext)
}

func TestApplyTo_PrettyColor(t *testing.T) {
	clearEnv(t)
	c := Default()
	c.Log.Color = "always"
	rt := nslog.NewRuntime(nslog.WithWriter(os.Stderr))
	require.NoError(t, c.ApplyTo(rt))

	p, ok := rt.Output().(*nslog.PrettyFormatter)
	require.True(t, ok)
	assert.True(t, p.Colored())
	assert.Equal(t, nslog.ColorAlways, c.ColorMode())
}

func TestParseKV(t *testing.T) {
	assert.Equal(t, map[string]string{"a": "1", "b": "x=y"}, ParseKV([]string{"a=1", "b=x=y", "bad", "=v"}))
	assert.Empty(t, ParseKV(nil))
}
