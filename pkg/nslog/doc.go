// Package nslog provides namespace-scoped loggers with runtime enablement.
//
// # Design Decisions
//
//   - Runtime: todo el estado compartido (patrón de namespaces, nivel mínimo,
//     contexto global, formatter) vive en un *Runtime con un único lock. Hay
//     uno por defecto (Default) y los tests pueden crear los suyos con NewRuntime.
//   - Namespaces: "ns:*, -ns:internal" habilita ns y todo lo que cuelga de él
//     salvo ns:internal. Las reglas de deshabilitación siempre ganan.
//   - Levels: debug < info < warn < error. El default es error: un proceso sin
//     configurar no hace ruido.
//   - Context: global -> local del logger -> Data de la llamada, merge superficial.
//   - Outputs: "pretty" (consola, con colores en terminal) y "json" (una línea
//     por registro), ambos sobre encoders de zap.
//   - Force: un logger creado con force, o una Entry con Force, siempre se escribe.
//
// # Usage
//
//	nslog.SetNamespaces("namespace:*")
//	nslog.SetLevel("debug")
//	nslog.SetOutputByName(nslog.OutputPretty)
//
//	log := nslog.MustCreateLogger("namespace:subNamespace", false)
//	log.Debug(nslog.Entry{
//	    CorrelationID: "ctxId",
//	    Message:       "Will be logged",
//	    Data:          nslog.Fields{"a": 1},
//	})
//
// Instancias independientes (tests en paralelo):
//
//	rt := nslog.NewRuntime(nslog.WithWriter(&buf))
//	log, _ := rt.CreateLogger("svc:db", false)
package nslog
