package nslog

import (
	"hash/fnv"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ColorMode decide si el formatter pretty emite secuencias ANSI.
type ColorMode int

const (
	ColorAuto ColorMode = iota
	ColorAlways
	ColorNever
)

func (m ColorMode) String() string {
	switch m {
	case ColorAlways:
		return "always"
	case ColorNever:
		return "never"
	default:
		return "auto"
	}
}

// ParseColorMode acepta auto|always|never (y on/off como alias).
func ParseColorMode(s string) (ColorMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return ColorAuto, nil
	case "always", "on", "true":
		return ColorAlways, nil
	case "never", "off", "false":
		return ColorNever, nil
	default:
		return ColorAuto, configErr("color", s, ErrUnknownColorMode)
	}
}

// DefaultPrettyTimeLayout es el layout de hora del formatter pretty.
const DefaultPrettyTimeLayout = "15:04:05.000"

// PrettyOptions configura NewPrettyFormatter.
type PrettyOptions struct {
	Color ColorMode
	// TimeLayout por defecto DefaultPrettyTimeLayout.
	TimeLayout string
}

// PrettyFormatter es el formatter para humanos: hora, nivel (con color),
// namespace, correlation id, mensaje y el contexto como JSON inline.
type PrettyFormatter struct {
	colored bool
	base    zapcore.EncoderConfig
}

// paleta para namespaces; el color sale de un hash estable del namespace
var namespacePalette = []color.Attribute{
	color.FgCyan,
	color.FgGreen,
	color.FgYellow,
	color.FgBlue,
	color.FgMagenta,
	color.FgHiCyan,
	color.FgHiGreen,
	color.FgHiYellow,
	color.FgHiBlue,
	color.FgHiMagenta,
}

// NewPrettyFormatter construye el formatter pretty. ColorAuto detecta si
// stdout es una terminal.
func NewPrettyFormatter(opts PrettyOptions) *PrettyFormatter {
	layout := opts.TimeLayout
	if layout == "" {
		layout = DefaultPrettyTimeLayout
	}
	colored := false
	switch opts.Color {
	case ColorAlways:
		colored = true
	case ColorAuto:
		colored = detectColor(os.Stdout)
	}

	cfg := zapcore.EncoderConfig{
		TimeKey:          KeyTime,
		LevelKey:         KeyLevel,
		NameKey:          KeyNamespace,
		MessageKey:       KeyMessage,
		LineEnding:       zapcore.DefaultLineEnding,
		EncodeTime:       zapcore.TimeEncoderOfLayout(layout),
		EncodeDuration:   zapcore.StringDurationEncoder,
		EncodeLevel:      zapcore.LowercaseLevelEncoder,
		ConsoleSeparator: " ",
	}
	if colored {
		cfg.EncodeLevel = zapcore.LowercaseColorLevelEncoder
	}
	return &PrettyFormatter{colored: colored, base: cfg}
}

func (f *PrettyFormatter) Name() string { return OutputPretty }

// Colored reporta si la salida lleva secuencias ANSI.
func (f *PrettyFormatter) Colored() bool { return f.colored }

func (f *PrettyFormatter) Format(rec Record) ([]byte, error) {
	cfg := f.base
	cid := rec.CorrelationID
	cfg.EncodeName = func(name string, enc zapcore.PrimitiveArrayEncoder) {
		enc.AppendString(f.paintNamespace(name))
		if cid != "" {
			enc.AppendString(f.paintCorrelationID(cid))
		}
	}

	m := &contextMarshaler{fields: rec.Context}
	var fields []zapcore.Field
	if len(rec.Context) > 0 {
		fields = append(fields, zap.Inline(m))
	}

	buf, err := zapcore.NewConsoleEncoder(cfg).EncodeEntry(entryOf(rec), fields)
	if err != nil {
		return nil, err
	}
	defer buf.Free()
	out := append([]byte(nil), buf.Bytes()...)
	return out, degradedErr(f.Name(), m.degraded)
}

func (f *PrettyFormatter) paintNamespace(ns string) string {
	if !f.colored {
		return ns
	}
	h := fnv.New32a()
	_, _ = h.Write([]byte(ns))
	c := color.New(namespacePalette[h.Sum32()%uint32(len(namespacePalette))], color.Bold)
	c.EnableColor()
	return c.Sprint(ns)
}

func (f *PrettyFormatter) paintCorrelationID(cid string) string {
	s := "[" + cid + "]"
	if !f.colored {
		return s
	}
	c := color.New(color.Faint)
	c.EnableColor()
	return c.Sprint(s)
}

// detectColor reporta si w es una terminal y NO_COLOR no está seteado.
func detectColor(w io.Writer) bool {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	if os.Getenv("TERM") == "dumb" {
		return false
	}
	fd, ok := w.(interface{ Fd() uintptr })
	if !ok {
		return false
	}
	return isatty.IsTerminal(fd.Fd()) || isatty.IsCygwinTerminal(fd.Fd())
}
