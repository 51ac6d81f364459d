package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/dropDatabas3/nslog/pkg/nslog"
)

func TestNew(t *testing.T) {
	for _, env := range []string{"", "dev", "prod", "PROD"} {
		l, err := New(Config{Env: env, Level: "info", Name: "nslog"})
		require.NoError(t, err, env)
		assert.True(t, l.Core().Enabled(zapcore.InfoLevel))
		assert.False(t, l.Core().Enabled(zapcore.DebugLevel))
	}
}

func TestNew_LevelMapping(t *testing.T) {
	for _, lvl := range nslog.Levels() {
		l, err := New(Config{Level: lvl.String()})
		require.NoError(t, err, lvl)
		assert.True(t, l.Core().Enabled(lvl.ZapLevel()), lvl)
		assert.Equal(t, lvl != nslog.DebugLevel, !l.Core().Enabled(zapcore.DebugLevel), lvl)
	}
}

func TestNew_DefaultLevelIsWarn(t *testing.T) {
	l, err := New(Config{})
	require.NoError(t, err)
	assert.False(t, l.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, l.Core().Enabled(zapcore.WarnLevel))
}

func TestNew_UnknownLevel(t *testing.T) {
	_, err := New(Config{Level: "chatty"})
	require.Error(t, err)
	assert.True(t, nslog.IsUnknownLevel(err))

	assert.NotNil(t, Must(Config{Level: "chatty"}))
}
