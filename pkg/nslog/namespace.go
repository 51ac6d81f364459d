package nslog

import (
	"strings"
	"unicode"

	gocache "github.com/patrickmn/go-cache"
)

// Delimitador jerárquico de namespaces y marcadores de la gramática de patrones.
const (
	NamespaceDelimiter = ":"
	wildcard           = "*"
	disableMarker      = "-"
)

// maxMemo limita cuántos resultados de Test se recuerdan por patrón compilado.
const maxMemo = 4096

type segment struct {
	lit    string
	any    bool // "*"
	prefix bool // "lit*"
}

type rule struct {
	raw     string
	disable bool
	all     bool
	segs    []segment
}

// match compara segment por segment. Un wildcard (o prefijo) en el último
// segmento de la regla se traga cualquier anidamiento restante.
func (r rule) match(parts []string) bool {
	if r.all {
		return true
	}
	for i, s := range r.segs {
		if i >= len(parts) {
			return false
		}
		p := parts[i]
		switch {
		case s.any:
		case s.prefix:
			if !strings.HasPrefix(p, s.lit) {
				return false
			}
		default:
			if p != s.lit {
				return false
			}
		}
		if i == len(r.segs)-1 && (s.any || s.prefix) {
			return true
		}
	}
	return len(parts) == len(r.segs)
}

// Pattern es el conjunto compilado de reglas de habilitación. Es inmutable:
// reconfigurar significa compilar uno nuevo y reemplazarlo.
type Pattern struct {
	source  string
	enable  []rule
	disable []rule
	memo    *gocache.Cache
}

// Rule es la vista exportada de una regla compilada.
type Rule struct {
	Glob    string
	Disable bool
}

// CompilePattern compila un string de configuración como "ns:*, -ns:internal".
// Las reglas se separan por comas y/o espacios; "-" al inicio marca una regla
// de deshabilitación. Un string vacío compila a un patrón que no habilita nada.
func CompilePattern(s string) (*Pattern, error) {
	p := &Pattern{
		source: s,
		memo:   gocache.New(gocache.NoExpiration, 0),
	}
	items := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || unicode.IsSpace(r)
	})
	for _, it := range items {
		r, err := parseRule(it)
		if err != nil {
			return nil, configErr("namespaces", s, err)
		}
		if r.disable {
			p.disable = append(p.disable, r)
		} else {
			p.enable = append(p.enable, r)
		}
	}
	return p, nil
}

// MustCompilePattern es CompilePattern que hace panic ante error. Para literales en tests/init.
func MustCompilePattern(s string) *Pattern {
	p, err := CompilePattern(s)
	if err != nil {
		panic(err)
	}
	return p
}

func parseRule(item string) (rule, error) {
	r := rule{raw: item}
	glob := item
	if strings.HasPrefix(glob, disableMarker) {
		r.disable = true
		glob = glob[len(disableMarker):]
	}
	if glob == "" {
		return r, ErrMalformedPattern
	}
	if glob == wildcard {
		r.all = true
		return r, nil
	}
	for _, part := range strings.Split(glob, NamespaceDelimiter) {
		switch {
		case part == "":
			return r, ErrMalformedPattern
		case part == wildcard:
			r.segs = append(r.segs, segment{any: true})
		case strings.Contains(part, wildcard):
			i := strings.Index(part, wildcard)
			if i != len(part)-1 {
				return r, ErrMalformedPattern
			}
			r.segs = append(r.segs, segment{lit: part[:i], prefix: true})
		default:
			r.segs = append(r.segs, segment{lit: part})
		}
	}
	return r, nil
}

// Test reporta si el namespace está habilitado: matchea al menos una regla de
// habilitación y ninguna de deshabilitación. Se evalúan todas las reglas, la
// deshabilitación siempre gana.
func (p *Pattern) Test(namespace string) bool {
	if p == nil || len(p.enable) == 0 {
		return false
	}
	if v, ok := p.memo.Get(namespace); ok {
		return v.(bool)
	}
	parts := strings.Split(namespace, NamespaceDelimiter)
	enabled := false
	for _, r := range p.enable {
		if r.match(parts) {
			enabled = true
			break
		}
	}
	if enabled {
		for _, r := range p.disable {
			if r.match(parts) {
				enabled = false
				break
			}
		}
	}
	if p.memo.ItemCount() < maxMemo {
		p.memo.Set(namespace, enabled, gocache.NoExpiration)
	}
	return enabled
}

// String devuelve el string de configuración original.
func (p *Pattern) String() string {
	if p == nil {
		return ""
	}
	return p.source
}

// Empty reporta si el patrón no tiene reglas de habilitación (no habilita nada).
func (p *Pattern) Empty() bool {
	return p == nil || len(p.enable) == 0
}

// Rules lista las reglas compiladas: primero las de habilitación, luego las de deshabilitación.
func (p *Pattern) Rules() []Rule {
	if p == nil {
		return nil
	}
	out := make([]Rule, 0, len(p.enable)+len(p.disable))
	for _, r := range p.enable {
		out = append(out, Rule{Glob: r.raw})
	}
	for _, r := range p.disable {
		out = append(out, Rule{Glob: strings.TrimPrefix(r.raw, disableMarker), Disable: true})
	}
	return out
}

// ValidNamespace reporta si ns sirve como namespace de un logger: no vacío,
// sin segmentos vacíos y sin wildcards ni separadores de reglas.
func ValidNamespace(ns string) bool {
	if strings.TrimSpace(ns) == "" {
		return false
	}
	if strings.ContainsAny(ns, wildcard+",") || strings.IndexFunc(ns, unicode.IsSpace) >= 0 {
		return false
	}
	for _, part := range strings.Split(ns, NamespaceDelimiter) {
		if part == "" {
			return false
		}
	}
	return true
}
