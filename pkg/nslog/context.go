package nslog

import (
	"context"

	"github.com/google/uuid"
)

type (
	loggerKey        struct{}
	correlationIDKey struct{}
)

// ToContext inyecta un logger en el contexto.
func ToContext(ctx context.Context, l *Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, l)
}

// From extrae el logger del contexto.
// Si no hay logger, devuelve uno con namespace "default" sobre el runtime
// por defecto (sujeto a sus filtros como cualquier otro).
func From(ctx context.Context) *Logger {
	if ctx != nil {
		if l, ok := ctx.Value(loggerKey{}).(*Logger); ok && l != nil {
			return l
		}
	}
	return Default().MustCreateLogger("default", false)
}

// WithCorrelationID guarda un correlation id en el contexto.
func WithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, correlationIDKey{}, id)
}

// CorrelationIDFrom devuelve el correlation id del contexto, o "".
func CorrelationIDFrom(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(correlationIDKey{}).(string)
	return id
}

// NewCorrelationID genera un id aleatorio (uuid v4).
func NewCorrelationID() string {
	return uuid.NewString()
}
