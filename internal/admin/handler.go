package admin

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/dropDatabas3/nslog/pkg/nslog"
)

// Options agrupa dependencias opcionales del admin.
type Options struct {
	// Gatherer habilita GET /metrics.
	Gatherer prometheus.Gatherer
	Logger   *zap.Logger
}

type handler struct {
	rt  *nslog.Runtime
	log *zap.Logger
}

// NewHandler expone un runtime para inspección y reconfiguración en vivo:
//
//	GET  /healthz
//	GET  /v1/logging
//	PUT  /v1/logging        {namespaces?, level?, output?, context?}
//	POST /v1/logging/test   {namespace}
//	GET  /metrics           (si hay Gatherer)
func NewHandler(rt *nslog.Runtime, opts Options) http.Handler {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	h := &handler{rt: rt, log: log.Named("admin")}

	r := chi.NewRouter()
	h.Register(r)
	if opts.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{}))
	}
	return r
}

func (h *handler) Register(r chi.Router) {
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		WriteJSON(w, http.StatusOK, map[string]any{"ok": true})
	})
	r.Group(func(r chi.Router) {
		r.Get("/v1/logging", h.get)
		r.Put("/v1/logging", h.put)
		r.Post("/v1/logging/test", h.test)
	})
}

type ruleView struct {
	Glob    string `json:"glob"`
	Disable bool   `json:"disable,omitempty"`
}

type settingsView struct {
	Namespaces string         `json:"namespaces"`
	Rules      []ruleView     `json:"rules"`
	Level      string         `json:"level"`
	Output     string         `json:"output"`
	Context    map[string]any `json:"context"`
	Outputs    []string       `json:"outputs"`
}

func (h *handler) view() settingsView {
	s := h.rt.Snapshot()
	v := settingsView{
		Namespaces: s.Namespaces,
		Rules:      []ruleView{},
		Level:      s.Level.String(),
		Output:     s.Output.Name(),
		Context:    map[string]any{},
		Outputs:    nslog.FormatterNames(),
	}
	// el patrón vigente ya compiló una vez, no puede fallar
	if p, err := nslog.CompilePattern(s.Namespaces); err == nil {
		for _, r := range p.Rules() {
			v.Rules = append(v.Rules, ruleView{Glob: r.Glob, Disable: r.Disable})
		}
	}
	for k, val := range s.GlobalContext {
		v.Context[k] = val
	}
	return v
}

func (h *handler) get(w http.ResponseWriter, _ *http.Request) {
	WriteJSON(w, http.StatusOK, h.view())
}

type settingsBody struct {
	Namespaces *string         `json:"namespaces"`
	Level      *string         `json:"level"`
	Output     *string         `json:"output"`
	Context    *map[string]any `json:"context"`
}

// put aplica un update parcial. Todo se valida antes de tocar el runtime.
func (h *handler) put(w http.ResponseWriter, r *http.Request) {
	var body settingsBody
	if !ReadJSON(w, r, &body) {
		return
	}

	s := h.rt.Snapshot()
	if body.Namespaces != nil {
		s.Namespaces = *body.Namespaces
	}
	if body.Level != nil {
		l, err := nslog.ParseLevel(*body.Level)
		if err != nil {
			WriteError(w, http.StatusBadRequest, "invalid_config", err.Error())
			return
		}
		s.Level = l
	}
	if body.Output != nil {
		f, err := nslog.LookupFormatter(*body.Output)
		if err != nil {
			WriteError(w, http.StatusBadRequest, "invalid_config", err.Error())
			return
		}
		if f.Name() == nslog.OutputPretty {
			// nil: el runtime arma el pretty con su propio modo de color
			f = nil
		}
		s.Output = f
	}
	if body.Context != nil {
		s.GlobalContext = nslog.Fields(*body.Context)
	}

	if err := h.rt.Apply(s); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_config", err.Error())
		return
	}
	v := h.view()
	h.log.Info("logging reconfigured",
		zap.String("namespaces", v.Namespaces),
		zap.String("level", v.Level),
		zap.String("output", v.Output),
	)
	WriteJSON(w, http.StatusOK, v)
}

type testBody struct {
	Namespace string `json:"namespace"`
}

func (h *handler) test(w http.ResponseWriter, r *http.Request) {
	var body testBody
	if !ReadJSON(w, r, &body) {
		return
	}
	if !nslog.ValidNamespace(body.Namespace) {
		WriteError(w, http.StatusBadRequest, "invalid_namespace", "namespace must be a non-empty, ':'-delimited name")
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{
		"namespace": body.Namespace,
		"enabled":   h.rt.NamespaceEnabled(body.Namespace),
	})
}
