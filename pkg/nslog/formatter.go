package nslog

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap/zapcore"
)

// Claves estables de un registro renderizado.
const (
	KeyTime          = "time"
	KeyLevel         = "level"
	KeyNamespace     = "namespace"
	KeyCorrelationID = "correlationId"
	KeyMessage       = "message"
	KeyContext       = "context"
)

// Nombres de los formatters incluidos.
const (
	OutputPretty = "pretty"
	OutputJSON   = "json"
)

// Record es el registro efímero que se arma por cada emisión que pasa los filtros.
// Context ya contiene el merge global -> local -> Data.
type Record struct {
	Time          time.Time
	Level         Level
	Namespace     string
	CorrelationID string
	Message       string
	Data          Fields
	Context       Fields
}

// Formatter renderiza un Record a texto (una línea, con su salto final).
//
// Un error junto con salida no vacía significa "renderizado con degradación":
// la salida se escribe igual. Salida vacía obliga al dispatcher a usar su
// propia representación de respaldo.
type Formatter interface {
	Name() string
	Format(rec Record) ([]byte, error)
}

// =================================================================================
// REGISTRO DE FORMATTERS
// =================================================================================

var (
	registryMu sync.RWMutex
	registry   = map[string]Formatter{}
)

func init() {
	registry[OutputPretty] = NewPrettyFormatter(PrettyOptions{})
	registry[OutputJSON] = NewJSONFormatter()
}

// RegisterFormatter agrega (o reemplaza) un formatter identificado por su Name().
func RegisterFormatter(f Formatter) error {
	if f == nil || strings.TrimSpace(f.Name()) == "" {
		return configErr("output", "", ErrUnknownFormatter)
	}
	registryMu.Lock()
	registry[strings.ToLower(strings.TrimSpace(f.Name()))] = f
	registryMu.Unlock()
	return nil
}

// LookupFormatter devuelve el formatter registrado con ese nombre.
func LookupFormatter(name string) (Formatter, error) {
	registryMu.RLock()
	f, ok := registry[strings.ToLower(strings.TrimSpace(name))]
	registryMu.RUnlock()
	if !ok {
		return nil, configErr("output", name, ErrUnknownFormatter)
	}
	return f, nil
}

// FormatterNames lista los nombres registrados, ordenados.
func FormatterNames() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	out := make([]string, 0, len(registry))
	for k := range registry {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// =================================================================================
// HELPERS COMPARTIDOS
// =================================================================================

// contextMarshaler vuelca Fields a un encoder de zap en orden de claves.
// Un valor que no se puede serializar (o cuyo MarshalJSON entra en panic) se
// degrada a texto y se cuenta; el resto del registro conserva su formato.
type contextMarshaler struct {
	fields   Fields
	degraded int
}

func (m *contextMarshaler) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	for _, k := range m.fields.Keys() {
		v := m.fields[k]
		if err := safeAddValue(enc, k, v); err != nil {
			enc.AddString(k, stringify(v))
			m.degraded++
		}
	}
	return nil
}

// safeAddValue es addValue con recover. AddReflected serializa aparte antes de
// escribir la clave, así que un panic no deja bytes a medias en el encoder.
func safeAddValue(enc zapcore.ObjectEncoder, k string, v any) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %s panicked: %v", ErrRender, k, r)
		}
	}()
	return addValue(enc, k, v)
}

func addValue(enc zapcore.ObjectEncoder, k string, v any) error {
	switch x := v.(type) {
	case nil:
		return enc.AddReflected(k, nil)
	case string:
		enc.AddString(k, x)
	case bool:
		enc.AddBool(k, x)
	case int:
		enc.AddInt(k, x)
	case int64:
		enc.AddInt64(k, x)
	case float64:
		enc.AddFloat64(k, x)
	case time.Time:
		enc.AddTime(k, x)
	case time.Duration:
		enc.AddDuration(k, x)
	case error, fmt.Stringer:
		enc.AddString(k, stringify(x))
	default:
		return enc.AddReflected(k, v)
	}
	return nil
}

// stringify es la representación best-effort de un valor no serializable.
func stringify(v any) (s string) {
	defer func() {
		if r := recover(); r != nil {
			s = fmt.Sprintf("<unprintable %T>", v)
		}
	}()
	return fmt.Sprintf("%+v", v)
}

func degradedErr(name string, n int) error {
	if n == 0 {
		return nil
	}
	return fmt.Errorf("%w: %s formatter stringified %d value(s)", ErrRender, name, n)
}

// fallbackFormat es la línea de respaldo cuando un formatter no produjo salida.
func fallbackFormat(rec Record) []byte {
	var b strings.Builder
	b.WriteString(rec.Time.Format(time.RFC3339Nano))
	b.WriteByte(' ')
	b.WriteString(rec.Level.String())
	b.WriteByte(' ')
	b.WriteString(rec.Namespace)
	if rec.CorrelationID != "" {
		b.WriteString(" [")
		b.WriteString(rec.CorrelationID)
		b.WriteByte(']')
	}
	b.WriteByte(' ')
	b.WriteString(rec.Message)
	for _, k := range rec.Context.Keys() {
		b.WriteByte(' ')
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(stringify(rec.Context[k]))
	}
	b.WriteByte('\n')
	return []byte(b.String())
}

func entryOf(rec Record) zapcore.Entry {
	return zapcore.Entry{
		Level:      rec.Level.ZapLevel(),
		Time:       rec.Time,
		LoggerName: rec.Namespace,
		Message:    rec.Message,
	}
}
