package nslog

import (
	"errors"
	"fmt"
)

// Errores de configuración y render.
var (
	// ErrUnknownLevel indica un nombre de nivel no reconocido.
	ErrUnknownLevel = errors.New("nslog: unknown level")

	// ErrMalformedPattern indica un patrón de namespaces mal formado.
	ErrMalformedPattern = errors.New("nslog: malformed namespace pattern")

	// ErrUnknownFormatter indica un nombre de output no registrado.
	ErrUnknownFormatter = errors.New("nslog: unknown formatter")

	// ErrUnknownColorMode indica un modo de color distinto de auto|always|never.
	ErrUnknownColorMode = errors.New("nslog: unknown color mode")

	// ErrInvalidNamespace indica un namespace vacío o inválido al crear un logger.
	ErrInvalidNamespace = errors.New("nslog: invalid namespace")

	// ErrRender indica que el formatter tuvo que degradar algún valor a texto.
	// Nunca llega al caller de un método de emisión.
	ErrRender = errors.New("nslog: render degraded")
)

// ConfigError describe una llamada de configuración rechazada.
// Field es el parámetro afectado ("level", "namespaces", "output", "namespace").
type ConfigError struct {
	Field string
	Value string
	Err   error
}

func (e *ConfigError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("%v (%s)", e.Err, e.Field)
	}
	return fmt.Sprintf("%v (%s=%q)", e.Err, e.Field, e.Value)
}

func (e *ConfigError) Unwrap() error { return e.Err }

func configErr(field, value string, err error) error {
	return &ConfigError{Field: field, Value: value, Err: err}
}

// IsConfigError verifica si err (o alguno de sus wrapped) es un *ConfigError.
func IsConfigError(err error) bool {
	var ce *ConfigError
	return errors.As(err, &ce)
}

// IsUnknownLevel verifica si el error es ErrUnknownLevel.
func IsUnknownLevel(err error) bool {
	return errors.Is(err, ErrUnknownLevel)
}

// IsMalformedPattern verifica si el error es ErrMalformedPattern.
func IsMalformedPattern(err error) bool {
	return errors.Is(err, ErrMalformedPattern)
}
