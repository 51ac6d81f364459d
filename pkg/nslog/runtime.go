package nslog

import (
	"io"
	"os"
	"sync"
	"time"

	"github.com/mattn/go-colorable"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Runtime es el estado de configuración compartido por un conjunto de loggers:
// patrón de namespaces, nivel mínimo, contexto global y formatter activo.
//
// Arranca con defaults silenciosos (patrón vacío, nivel error) y solo cambia
// por su API; nunca se resetea implícitamente. Un único lock protege el
// estado; cada emisión toma un snapshot y ve la configuración vigente
// al momento de su llamada (last write wins).
type Runtime struct {
	mu        sync.RWMutex
	pattern   *Pattern
	minLevel  Level
	global    Fields
	formatter Formatter

	writeMu sync.Mutex
	out     io.Writer

	clock   func() time.Time
	diag    *zap.Logger
	metrics *Metrics
	color   ColorMode
}

// Option configura un Runtime en NewRuntime.
type Option func(*Runtime)

// WithWriter reemplaza stdout como destino (tests, o un sink externo).
func WithWriter(w io.Writer) Option {
	return func(rt *Runtime) {
		if w != nil {
			rt.out = w
		}
	}
}

// WithClock fija la fuente de timestamps.
func WithClock(now func() time.Time) Option {
	return func(rt *Runtime) {
		if now != nil {
			rt.clock = now
		}
	}
}

// WithDiagnostics define dónde se reportan degradaciones de render y fallas de escritura.
func WithDiagnostics(l *zap.Logger) Option {
	return func(rt *Runtime) {
		if l != nil {
			rt.diag = l
		}
	}
}

// WithMetrics habilita los contadores de prometheus.
func WithMetrics(m *Metrics) Option {
	return func(rt *Runtime) { rt.metrics = m }
}

// WithColor fija el modo de color del formatter pretty por defecto.
func WithColor(mode ColorMode) Option {
	return func(rt *Runtime) { rt.color = mode }
}

// NewRuntime crea un runtime independiente con defaults silenciosos.
func NewRuntime(opts ...Option) *Runtime {
	rt := &Runtime{
		pattern:  MustCompilePattern(""),
		minLevel: DefaultLevel,
		out:      colorable.NewColorableStdout(),
		clock:    time.Now,
		color:    ColorAuto,
	}
	for _, o := range opts {
		o(rt)
	}
	if rt.diag == nil {
		rt.diag = defaultDiagnostics()
	}
	rt.formatter = rt.defaultPretty()
	return rt
}

// defaultPretty resuelve ColorAuto contra el writer real del runtime.
func (rt *Runtime) defaultPretty() Formatter {
	mode := rt.color
	if mode == ColorAuto {
		mode = ColorNever
		if detectColor(rt.out) {
			mode = ColorAlways
		}
	}
	return NewPrettyFormatter(PrettyOptions{Color: mode})
}

func defaultDiagnostics() *zap.Logger {
	enc := zap.NewDevelopmentEncoderConfig()
	enc.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05.000")
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(enc), zapcore.Lock(os.Stderr), zapcore.WarnLevel)
	return zap.New(core).Named("nslog")
}

// =================================================================================
// NAMESPACES
// =================================================================================

// SetNamespaces recompila el patrón de namespaces habilitados. Ante error el
// patrón vigente no cambia.
func (rt *Runtime) SetNamespaces(pattern string) error {
	p, err := CompilePattern(pattern)
	if err != nil {
		return err
	}
	rt.mu.Lock()
	rt.pattern = p
	rt.mu.Unlock()
	return nil
}

// Namespaces devuelve el string de configuración vigente.
func (rt *Runtime) Namespaces() string {
	rt.mu.RLock()
	defer rt.mu.RUnlock()
	return rt.pattern.String()
}

// NamespaceEnabled prueba un namespace contra el patrón vigente.
func (rt *Runtime) NamespaceEnabled(ns string) bool {
	rt.mu.RLock()
	p := rt.pattern
	rt.mu.RUnlock()
	return p.Test(ns)
}

// =================================================================================
// NIVEL
// =================================================================================

// SetLevel fija el nivel mínimo por nombre. Un nombre desconocido es un
// *ConfigError y el nivel vigente no cambia.
func (rt *Runtime) SetLevel(level string) error {
	l, err := ParseLevel(level)
	if err != nil {
		return err
	}
	rt.SetMinLevel(l)
	return nil
}

func (rt *Runtime) SetMinLevel(l Level) {
	rt.mu.Lock()
	rt.minLevel = l
	rt.mu.Unlock()
}

func (rt *Runtime) MinLevel() Level {
	rt.mu.RLock()
	defer rt.mu.RUnlock()
	return rt.minLevel
}

// IsEnabled reporta si un registro de nivel l pasa el nivel mínimo vigente.
func (rt *Runtime) IsEnabled(l Level) bool {
	return l.Enabled(rt.MinLevel())
}

// =================================================================================
// OUTPUT
// =================================================================================

// SetOutput reemplaza el formatter activo; afecta solo a escrituras posteriores.
// nil vuelve al pretty por defecto.
func (rt *Runtime) SetOutput(f Formatter) {
	if f == nil {
		f = rt.defaultPretty()
	}
	rt.mu.Lock()
	rt.formatter = f
	rt.mu.Unlock()
}

// SetOutputByName activa un formatter registrado ("pretty", "json", ...).
func (rt *Runtime) SetOutputByName(name string) error {
	f, err := rt.lookupOutput(name)
	if err != nil {
		return err
	}
	rt.SetOutput(f)
	return nil
}

// lookupOutput resuelve "pretty" con el modo de color del runtime; el resto sale del registro.
func (rt *Runtime) lookupOutput(name string) (Formatter, error) {
	f, err := LookupFormatter(name)
	if err != nil {
		return nil, err
	}
	if _, ok := f.(*PrettyFormatter); ok {
		return rt.defaultPretty(), nil
	}
	return f, nil
}

func (rt *Runtime) Output() Formatter {
	rt.mu.RLock()
	defer rt.mu.RUnlock()
	return rt.formatter
}

// =================================================================================
// CONTEXTO GLOBAL
// =================================================================================

// SetGlobalContext reemplaza el contexto global completo (no es un merge).
// Se guarda una copia: mutar el mapa después no afecta al runtime.
func (rt *Runtime) SetGlobalContext(f Fields) {
	c := f.Clone()
	rt.mu.Lock()
	rt.global = c
	rt.mu.Unlock()
}

// GlobalContext devuelve una copia del contexto global.
func (rt *Runtime) GlobalContext() Fields {
	rt.mu.RLock()
	defer rt.mu.RUnlock()
	return rt.global.Clone()
}

// =================================================================================
// SETTINGS
// =================================================================================

// Settings es la configuración completa de un runtime, aplicable de una vez.
type Settings struct {
	Namespaces    string
	Level         Level
	Output        Formatter
	GlobalContext Fields
}

// Snapshot devuelve la configuración vigente.
func (rt *Runtime) Snapshot() Settings {
	rt.mu.RLock()
	defer rt.mu.RUnlock()
	return Settings{
		Namespaces:    rt.pattern.String(),
		Level:         rt.minLevel,
		Output:        rt.formatter,
		GlobalContext: rt.global.Clone(),
	}
}

// Apply valida todo primero y recién entonces aplica en bloque: ante error
// el runtime queda como estaba.
func (rt *Runtime) Apply(s Settings) error {
	p, err := CompilePattern(s.Namespaces)
	if err != nil {
		return err
	}
	if !s.Level.Valid() {
		return configErr("level", s.Level.String(), ErrUnknownLevel)
	}
	f := s.Output
	if f == nil {
		f = rt.defaultPretty()
	}
	g := s.GlobalContext.Clone()

	rt.mu.Lock()
	rt.pattern = p
	rt.minLevel = s.Level
	rt.formatter = f
	rt.global = g
	rt.mu.Unlock()
	return nil
}

// snapshot es lo que una emisión necesita leer del runtime.
type snapshot struct {
	pattern   *Pattern
	minLevel  Level
	global    Fields
	formatter Formatter
}

// load copia las referencias bajo RLock. Pattern y global nunca se mutan
// después de publicados, así que compartirlos es seguro.
func (rt *Runtime) load() snapshot {
	rt.mu.RLock()
	defer rt.mu.RUnlock()
	return snapshot{
		pattern:   rt.pattern,
		minLevel:  rt.minLevel,
		global:    rt.global,
		formatter: rt.formatter,
	}
}
