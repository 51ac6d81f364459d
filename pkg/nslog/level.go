package nslog

import (
	"strings"

	"go.uber.org/zap/zapcore"
)

// Level es la severidad de un registro. El orden de las constantes es
// el rank: toda comparación se hace por rank, nunca por nombre.
type Level int8

const (
	DebugLevel Level = iota
	InfoLevel
	WarnLevel
	ErrorLevel
)

// DefaultLevel es el mínimo de un runtime sin configurar: silencioso salvo errores.
const DefaultLevel = ErrorLevel

var levelNames = map[Level]string{
	DebugLevel: "debug",
	InfoLevel:  "info",
	WarnLevel:  "warn",
	ErrorLevel: "error",
}

func (l Level) String() string {
	if s, ok := levelNames[l]; ok {
		return s
	}
	return "unknown"
}

// Enabled reporta si un registro de nivel l pasa con mínimo min.
func (l Level) Enabled(min Level) bool {
	return l >= min
}

// Valid reporta si l es uno de los niveles definidos.
func (l Level) Valid() bool {
	_, ok := levelNames[l]
	return ok
}

// ParseLevel convierte un nombre a Level. A diferencia de un parse tolerante,
// un nombre desconocido es un error: un default silencioso escondería la
// mala configuración.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return DebugLevel, nil
	case "info":
		return InfoLevel, nil
	case "warn", "warning":
		return WarnLevel, nil
	case "error":
		return ErrorLevel, nil
	default:
		return DefaultLevel, configErr("level", s, ErrUnknownLevel)
	}
}

// Levels devuelve todos los niveles en orden de rank.
func Levels() []Level {
	return []Level{DebugLevel, InfoLevel, WarnLevel, ErrorLevel}
}

func (l Level) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

func (l *Level) UnmarshalText(b []byte) error {
	v, err := ParseLevel(string(b))
	if err != nil {
		return err
	}
	*l = v
	return nil
}

// ZapLevel mapea al nivel equivalente de zapcore. Lo usan los encoders y el
// logger operativo.
func (l Level) ZapLevel() zapcore.Level {
	switch l {
	case DebugLevel:
		return zapcore.DebugLevel
	case InfoLevel:
		return zapcore.InfoLevel
	case WarnLevel:
		return zapcore.WarnLevel
	default:
		return zapcore.ErrorLevel
	}
}
