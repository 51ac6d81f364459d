package nslog

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

// Resultados posibles de una emisión (label "outcome").
const (
	OutcomeEmitted           = "emitted"
	OutcomeForced            = "forced"
	OutcomeFilteredLevel     = "filtered_level"
	OutcomeFilteredNamespace = "filtered_namespace"
	OutcomeWriteFailed       = "write_failed"
)

// Metrics agrupa los contadores de un runtime. Un *Metrics nil es válido y no cuenta nada.
type Metrics struct {
	records  *prometheus.CounterVec
	degraded *prometheus.CounterVec
}

// NewMetrics crea y registra los contadores en reg (DefaultRegisterer si es nil).
// Si ya estaban registrados reutiliza los existentes.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	m := &Metrics{
		records: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "nslog",
			Name:      "records_total",
			Help:      "Emisiones por nivel y resultado",
		}, []string{"level", "outcome"}),
		degraded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "nslog",
			Name:      "render_degraded_total",
			Help:      "Registros renderizados con valores degradados a texto, por formatter",
		}, []string{"formatter"}),
	}
	var err error
	if m.records, err = registerCounterVec(reg, m.records); err != nil {
		return nil, err
	}
	if m.degraded, err = registerCounterVec(reg, m.degraded); err != nil {
		return nil, err
	}
	return m, nil
}

func registerCounterVec(reg prometheus.Registerer, c *prometheus.CounterVec) (*prometheus.CounterVec, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing, nil
			}
		}
		return nil, err
	}
	return c, nil
}

func (m *Metrics) record(l Level, outcome string) {
	if m == nil {
		return
	}
	m.records.WithLabelValues(l.String(), outcome).Inc()
}

func (m *Metrics) renderDegraded(formatter string) {
	if m == nil {
		return
	}
	m.degraded.WithLabelValues(formatter).Inc()
}
