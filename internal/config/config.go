package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/dropDatabas3/nslog/pkg/nslog"
)

type Config struct {
	App struct {
		// dev | prod
		Env string `yaml:"env"`
	} `yaml:"app"`

	Log struct {
		Namespaces string            `yaml:"namespaces"`
		Level      string            `yaml:"level"`
		Output     string            `yaml:"output"` // pretty | json
		Color      string            `yaml:"color"`  // auto | always | never
		Context    map[string]string `yaml:"context"`
	} `yaml:"log"`

	Admin struct {
		Addr    string `yaml:"addr"`
		Metrics bool   `yaml:"metrics"`
	} `yaml:"admin"`
}

// Default devuelve la config sin archivo: silenciosa (nivel error, sin namespaces).
func Default() *Config {
	var c Config
	c.setDefaults()
	return &c
}

// Load lee el YAML en path (si path es vacío solo aplica defaults), pisa con
// variables de entorno y valida.
func Load(path string) (*Config, error) {
	var c Config
	if strings.TrimSpace(path) != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(b, &c); err != nil {
			return nil, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}

	c.setDefaults()

	// Overrides por env
	if err := c.applyEnvOverrides(); err != nil {
		return nil, err
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// sane defaults
func (c *Config) setDefaults() {
	if c.App.Env == "" {
		c.App.Env = "dev"
	}
	if c.Log.Level == "" {
		c.Log.Level = nslog.DefaultLevel.String()
	}
	if c.Log.Output == "" {
		c.Log.Output = nslog.OutputPretty
	}
	if c.Log.Color == "" {
		c.Log.Color = nslog.ColorAuto.String()
	}
	if c.Admin.Addr == "" {
		c.Admin.Addr = ":9090"
	}
}

// applyEnvOverrides: pisa el YAML con variables de entorno.
func (c *Config) applyEnvOverrides() error {
	if v, ok := getEnvStr("APP_ENV"); ok {
		c.App.Env = strings.ToLower(v)
	}

	// LOG
	if v, ok := os.LookupEnv("LOG_NAMESPACES"); ok {
		// vacío es válido: deshabilita todo
		c.Log.Namespaces = v
	}
	if v, ok := getEnvStr("LOG_LEVEL"); ok {
		c.Log.Level = v
	}
	if v, ok := getEnvStr("LOG_OUTPUT"); ok {
		c.Log.Output = v
	}
	if v, ok := getEnvStr("LOG_COLOR"); ok {
		c.Log.Color = v
	}
	if v, ok := getEnvKVList("LOG_CONTEXT", ","); ok {
		c.Log.Context = v
	}

	// ADMIN
	if v, ok := getEnvStr("ADMIN_ADDR"); ok {
		c.Admin.Addr = v
	}
	if s, ok := getEnvStr("ADMIN_METRICS"); ok {
		b, err := strconv.ParseBool(strings.TrimSpace(s))
		if err != nil {
			return fmt.Errorf("config: ADMIN_METRICS: %w", err)
		}
		c.Admin.Metrics = b
	}
	return nil
}

// Validate chequea nivel, output, color y patrón. Los errores son *nslog.ConfigError.
func (c *Config) Validate() error {
	switch strings.ToLower(c.App.Env) {
	case "dev", "prod":
	default:
		return fmt.Errorf("config: app.env must be dev|prod, got %q", c.App.Env)
	}
	if _, err := nslog.ParseLevel(c.Log.Level); err != nil {
		return err
	}
	if _, err := nslog.LookupFormatter(c.Log.Output); err != nil {
		return err
	}
	if _, err := nslog.ParseColorMode(c.Log.Color); err != nil {
		return err
	}
	if _, err := nslog.CompilePattern(c.Log.Namespaces); err != nil {
		return err
	}
	return nil
}

// ColorMode devuelve el modo de color ya validado.
func (c *Config) ColorMode() nslog.ColorMode {
	m, _ := nslog.ParseColorMode(c.Log.Color)
	return m
}

// Settings traduce la sección log a nslog.Settings.
func (c *Config) Settings() (nslog.Settings, error) {
	lvl, err := nslog.ParseLevel(c.Log.Level)
	if err != nil {
		return nslog.Settings{}, err
	}
	out, err := c.formatter()
	if err != nil {
		return nslog.Settings{}, err
	}
	var ctx nslog.Fields
	if len(c.Log.Context) > 0 {
		ctx = make(nslog.Fields, len(c.Log.Context))
		for k, v := range c.Log.Context {
			ctx[k] = v
		}
	}
	return nslog.Settings{
		Namespaces:    c.Log.Namespaces,
		Level:         lvl,
		Output:        out,
		GlobalContext: ctx,
	}, nil
}

// ApplyTo aplica la sección log sobre rt de forma atómica.
func (c *Config) ApplyTo(rt *nslog.Runtime) error {
	s, err := c.Settings()
	if err != nil {
		return err
	}
	return rt.Apply(s)
}

// formatter construye el pretty con el modo de color de la config; el resto sale del registro.
func (c *Config) formatter() (nslog.Formatter, error) {
	if strings.EqualFold(strings.TrimSpace(c.Log.Output), nslog.OutputPretty) {
		mode, err := nslog.ParseColorMode(c.Log.Color)
		if err != nil {
			return nil, err
		}
		if mode == nslog.ColorAuto {
			// nil: el runtime resuelve auto contra su propio writer
			return nil, nil
		}
		return nslog.NewPrettyFormatter(nslog.PrettyOptions{Color: mode}), nil
	}
	return nslog.LookupFormatter(c.Log.Output)
}

func getEnvStr(key string) (string, bool) {
	v := os.Getenv(key)
	return v, v != ""
}

// parse env of form "k1=v1<sep>k2=v2" into map
func parseKVList(s, sep string) map[string]string {
	s = strings.TrimSpace(s)
	if s == "" {
		return map[string]string{}
	}
	items := strings.Split(s, sep)
	out := make(map[string]string, len(items))
	for _, it := range items {
		it = strings.TrimSpace(it)
		if it == "" {
			continue
		}
		// split at first '='
		if i := strings.IndexRune(it, '='); i > 0 {
			k := strings.TrimSpace(it[:i])
			v := strings.TrimSpace(it[i+1:])
			if k != "" && v != "" {
				out[k] = v
			}
		}
	}
	return out
}

func getEnvKVList(key, sep string) (map[string]string, bool) {
	if s, ok := getEnvStr(key); ok {
		return parseKVList(s, sep), true
	}
	return nil, false
}

// ParseKV expone el parser "k=v" para flags de la CLI (--data k=v).
func ParseKV(items []string) map[string]string {
	return parseKVList(strings.Join(items, "\x00"), "\x00")
}
