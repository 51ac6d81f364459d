package nslog

import "sort"

// Fields es un mapa de contexto estructurado (global, de logger o por llamada).
type Fields map[string]any

// MergeFields combina capas de menor a mayor precedencia: una clave de una capa
// posterior pisa la de una anterior. El merge es superficial (sin mezclar
// estructuras anidadas) y nunca muta las capas de entrada.
// Devuelve nil si todas las capas están vacías.
func MergeFields(layers ...Fields) Fields {
	n := 0
	for _, l := range layers {
		n += len(l)
	}
	if n == 0 {
		return nil
	}
	out := make(Fields, n)
	for _, l := range layers {
		for k, v := range l {
			out[k] = v
		}
	}
	return out
}

// Clone devuelve una copia superficial (nil si está vacío).
func (f Fields) Clone() Fields {
	return MergeFields(f)
}

// Keys devuelve las claves ordenadas; los formatters las recorren así para
// producir salida estable.
func (f Fields) Keys() []string {
	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
