package logger

import (
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/dropDatabas3/nslog/pkg/nslog"
)

// Config configura el logger operativo.
type Config struct {
	// Env: "dev" (consola con colores) o "prod" (JSON). Default: "dev".
	Env string

	// Level mínimo: "debug", "info", "warn", "error". Default: "warn".
	Level string

	// Name se agrega como nombre del logger raíz (opcional).
	Name string
}

// New construye el logger. Escribe siempre a stderr: stdout queda para los
// registros de nslog.
func New(cfg Config) (*zap.Logger, error) {
	lvl := zapcore.WarnLevel
	if strings.TrimSpace(cfg.Level) != "" {
		l, err := nslog.ParseLevel(cfg.Level)
		if err != nil {
			return nil, err
		}
		lvl = l.ZapLevel()
	}

	var enc zapcore.Encoder
	if strings.EqualFold(strings.TrimSpace(cfg.Env), "prod") {
		ecfg := zap.NewProductionEncoderConfig()
		ecfg.EncodeTime = zapcore.ISO8601TimeEncoder
		enc = zapcore.NewJSONEncoder(ecfg)
	} else {
		ecfg := zap.NewDevelopmentEncoderConfig()
		ecfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		ecfg.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05.000")
		enc = zapcore.NewConsoleEncoder(ecfg)
	}

	l := zap.New(zapcore.NewCore(enc, zapcore.Lock(os.Stderr), lvl))
	if cfg.Name != "" {
		l = l.Named(cfg.Name)
	}
	return l, nil
}

// Must es New que cae a un logger nop si la config es inválida.
func Must(cfg Config) *zap.Logger {
	l, err := New(cfg)
	if err != nil {
		return zap.NewNop()
	}
	return l
}
