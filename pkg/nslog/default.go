package nslog

import "sync"

var (
	defaultMu sync.RWMutex
	defaultRT *Runtime
)

// Default devuelve el runtime por defecto del proceso. Se crea en el primer uso
// con la configuración silenciosa de NewRuntime.
func Default() *Runtime {
	defaultMu.RLock()
	rt := defaultRT
	defaultMu.RUnlock()
	if rt != nil {
		return rt
	}

	defaultMu.Lock()
	defer defaultMu.Unlock()
	if defaultRT == nil {
		defaultRT = NewRuntime()
	}
	return defaultRT
}

// SetDefault reemplaza el runtime por defecto. Los loggers ya creados siguen
// ligados al runtime anterior.
func SetDefault(rt *Runtime) {
	if rt == nil {
		return
	}
	defaultMu.Lock()
	defaultRT = rt
	defaultMu.Unlock()
}

// SetNamespaces recompila el patrón del runtime por defecto.
func SetNamespaces(pattern string) error { return Default().SetNamespaces(pattern) }

// SetLevel fija el nivel mínimo del runtime por defecto.
func SetLevel(level string) error { return Default().SetLevel(level) }

// SetOutput reemplaza el formatter del runtime por defecto.
func SetOutput(f Formatter) { Default().SetOutput(f) }

// SetOutputByName activa un formatter registrado en el runtime por defecto.
func SetOutputByName(name string) error { return Default().SetOutputByName(name) }

// SetGlobalContext reemplaza el contexto global del runtime por defecto.
func SetGlobalContext(f Fields) { Default().SetGlobalContext(f) }

// CreateLogger crea un logger sobre el runtime por defecto.
func CreateLogger(namespace string, force bool) (*Logger, error) {
	return Default().CreateLogger(namespace, force)
}

// MustCreateLogger crea un logger sobre el runtime por defecto o hace panic.
func MustCreateLogger(namespace string, force bool) *Logger {
	return Default().MustCreateLogger(namespace, force)
}
