package nslog

import (
	"fmt"

	"go.uber.org/zap"
)

// write renderiza y escribe un registro de forma sincrónica. Nada de lo que
// pase acá vuelve al caller: las fallas se degradan y se reportan por diag.
func (rt *Runtime) write(f Formatter, rec Record, outcome string) {
	text := rt.render(f, rec)

	rt.writeMu.Lock()
	_, err := rt.out.Write(text)
	rt.writeMu.Unlock()

	if err != nil {
		rt.metrics.record(rec.Level, OutcomeWriteFailed)
		rt.diag.Warn("write failed",
			zap.String("namespace", rec.Namespace),
			zap.Error(err),
		)
		return
	}
	rt.metrics.record(rec.Level, outcome)
}

func (rt *Runtime) render(f Formatter, rec Record) (text []byte) {
	defer func() {
		if r := recover(); r != nil {
			rt.metrics.renderDegraded(f.Name())
			rt.diag.Warn("formatter panic, using fallback",
				zap.String("formatter", f.Name()),
				zap.String("namespace", rec.Namespace),
				zap.String("panic", fmt.Sprint(r)),
			)
			text = fallbackFormat(rec)
		}
	}()

	text, err := f.Format(rec)
	if err != nil {
		rt.metrics.renderDegraded(f.Name())
		rt.diag.Warn("render degraded",
			zap.String("formatter", f.Name()),
			zap.String("namespace", rec.Namespace),
			zap.Error(err),
		)
	}
	if len(text) == 0 {
		text = fallbackFormat(rec)
	}
	return text
}
