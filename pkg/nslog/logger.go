package nslog

import (
	"context"
	"strings"
	"sync"
)

// Entry son los parámetros explícitos de una emisión.
type Entry struct {
	// CorrelationID opcional para correlacionar registros relacionados.
	CorrelationID string
	Message       string
	// Data es el contexto inline de esta llamada; pisa a local y global.
	Data Fields
	// Force renderiza esta llamada sin pasar por nivel ni namespaces.
	Force bool
}

// Logger es un handle con nombre ligado a un namespace. No es dueño del
// estado global: lo lee del Runtime en cada emisión.
type Logger struct {
	rt        *Runtime
	namespace string
	force     bool

	mu    sync.RWMutex
	local Fields
}

// CreateLogger crea un logger para namespace. Con force=true todas sus
// emisiones se renderizan sin filtrar. No modifica el estado del runtime.
func (rt *Runtime) CreateLogger(namespace string, force bool) (*Logger, error) {
	ns := strings.TrimSpace(namespace)
	if !ValidNamespace(ns) {
		return nil, configErr("namespace", namespace, ErrInvalidNamespace)
	}
	return &Logger{rt: rt, namespace: ns, force: force}, nil
}

// MustCreateLogger es CreateLogger que hace panic ante un namespace inválido.
func (rt *Runtime) MustCreateLogger(namespace string, force bool) *Logger {
	l, err := rt.CreateLogger(namespace, force)
	if err != nil {
		panic(err)
	}
	return l
}

func (l *Logger) Namespace() string { return l.namespace }

// Forced reporta si el logger se creó con force.
func (l *Logger) Forced() bool { return l.force }

// Runtime devuelve el runtime del que lee este logger.
func (l *Logger) Runtime() *Runtime { return l.rt }

// =================================================================================
// CONTEXTO LOCAL
// =================================================================================

// SetContext reemplaza el contexto local del logger.
func (l *Logger) SetContext(f Fields) {
	c := f.Clone()
	l.mu.Lock()
	l.local = c
	l.mu.Unlock()
}

// MergeContext agrega claves al contexto local (pisando las existentes).
func (l *Logger) MergeContext(f Fields) {
	l.mu.Lock()
	l.local = MergeFields(l.local, f)
	l.mu.Unlock()
}

// Context devuelve una copia del contexto local.
func (l *Logger) Context() Fields {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.local.Clone()
}

// With devuelve un logger hijo, mismo namespace y force, con el contexto
// local extendido. El logger original no cambia.
func (l *Logger) With(f Fields) *Logger {
	return &Logger{
		rt:        l.rt,
		namespace: l.namespace,
		force:     l.force,
		local:     MergeFields(l.Context(), f),
	}
}

// =================================================================================
// EMISIÓN
// =================================================================================

func (l *Logger) Debug(e Entry) { l.Log(DebugLevel, e) }
func (l *Logger) Info(e Entry)  { l.Log(InfoLevel, e) }
func (l *Logger) Warn(e Entry)  { l.Log(WarnLevel, e) }
func (l *Logger) Error(e Entry) { l.Log(ErrorLevel, e) }

// Enabled reporta si una emisión de nivel level sin force se renderizaría hoy.
func (l *Logger) Enabled(level Level) bool {
	if l.force {
		return true
	}
	s := l.rt.load()
	return level.Enabled(s.minLevel) && s.pattern.Test(l.namespace)
}

// Log emite con el procedimiento completo: force (del logger o de la
// llamada) saltea los filtros; si no, nivel y después namespace. Una
// emisión filtrada vuelve sin efectos. Lo que pasa se escribe antes de volver.
func (l *Logger) Log(level Level, e Entry) {
	s := l.rt.load()
	forced := l.force || e.Force
	if !forced {
		if !level.Enabled(s.minLevel) {
			l.rt.metrics.record(level, OutcomeFilteredLevel)
			return
		}
		if !s.pattern.Test(l.namespace) {
			l.rt.metrics.record(level, OutcomeFilteredNamespace)
			return
		}
	}

	l.mu.RLock()
	local := l.local
	l.mu.RUnlock()

	rec := Record{
		Time:          l.rt.clock(),
		Level:         level,
		Namespace:     l.namespace,
		CorrelationID: e.CorrelationID,
		Message:       e.Message,
		Data:          e.Data,
		Context:       MergeFields(s.global, local, e.Data),
	}
	outcome := OutcomeEmitted
	if forced {
		outcome = OutcomeForced
	}
	l.rt.write(s.formatter, rec, outcome)
}

// LogContext es Log tomando el correlation id de ctx cuando la entry no trae uno.
func (l *Logger) LogContext(ctx context.Context, level Level, e Entry) {
	if e.CorrelationID == "" {
		e.CorrelationID = CorrelationIDFrom(ctx)
	}
	l.Log(level, e)
}
