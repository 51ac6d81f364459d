package nslog

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// JSONFormatter emite un objeto JSON por línea con un set de claves estable:
// time, level, namespace, message, correlationId (null si falta) y context
// (objeto, vacío si no hay contexto).
type JSONFormatter struct {
	cfg zapcore.EncoderConfig
}

func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{cfg: zapcore.EncoderConfig{
		TimeKey:        KeyTime,
		LevelKey:       KeyLevel,
		NameKey:        KeyNamespace,
		MessageKey:     KeyMessage,
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeName:     zapcore.FullNameEncoder,
	}}
}

func (f *JSONFormatter) Name() string { return OutputJSON }

func (f *JSONFormatter) Format(rec Record) ([]byte, error) {
	cid := zap.Reflect(KeyCorrelationID, nil)
	if rec.CorrelationID != "" {
		cid = zap.String(KeyCorrelationID, rec.CorrelationID)
	}
	m := &contextMarshaler{fields: rec.Context}

	buf, err := zapcore.NewJSONEncoder(f.cfg).EncodeEntry(entryOf(rec), []zapcore.Field{
		cid,
		zap.Object(KeyContext, m),
	})
	if err != nil {
		return nil, err
	}
	defer buf.Free()
	out := append([]byte(nil), buf.Bytes()...)
	return out, degradedErr(f.Name(), m.degraded)
}
