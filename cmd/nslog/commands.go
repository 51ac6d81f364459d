package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dropDatabas3/nslog/internal/config"
	"github.com/dropDatabas3/nslog/pkg/nslog"
)

func newMatchCmd() *cobra.Command {
	var pattern string
	cmd := &cobra.Command{
		Use:   "match --pattern P NAMESPACE...",
		Short: "Evalúa namespaces contra un patrón (imprime NS<TAB>enabled|disabled)",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := nslog.CompilePattern(pattern)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, ns := range args {
				state := "disabled"
				if p.Test(ns) {
					state = "enabled"
				}
				fmt.Fprintf(out, "%s\t%s\n", ns, state)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&pattern, "pattern", "", "patrón de namespaces (ej. \"api:*, -api:health\")")
	_ = cmd.MarkFlagRequired("pattern")
	return cmd
}

func newEmitCmd(a *app) *cobra.Command {
	var (
		namespace  string
		level      string
		message    string
		cid        string
		data       []string
		force      bool
		namespaces string
	)
	cmd := &cobra.Command{
		Use:   "emit",
		Short: "Emite un registro con la config vigente (nivel y namespaces filtran salvo --force)",
		RunE: func(cmd *cobra.Command, args []string) error {
			lvl, err := nslog.ParseLevel(level)
			if err != nil {
				return err
			}
			rt, err := a.newRuntime(cmd.OutOrStdout(), nil)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("namespaces") {
				if err := rt.SetNamespaces(namespaces); err != nil {
					return err
				}
			}

			l, err := rt.CreateLogger(namespace, force)
			if err != nil {
				return err
			}
			if !l.Enabled(lvl) {
				a.diag.Info("record filtered",
					zap.String("namespace", l.Namespace()),
					zap.String("level", lvl.String()),
					zap.String("min_level", rt.MinLevel().String()),
					zap.Bool("namespace_enabled", rt.NamespaceEnabled(l.Namespace())),
				)
			}
			l.Log(lvl, nslog.Entry{
				CorrelationID: cid,
				Message:       message,
				Data:          toFields(config.ParseKV(data)),
			})
			return nil
		},
	}
	cmd.Flags().StringVar(&namespace, "namespace", "", "namespace del logger (ej. api:users)")
	cmd.Flags().StringVar(&level, "level", "info", "nivel: debug|info|warn|error")
	cmd.Flags().StringVar(&message, "message", "", "mensaje")
	cmd.Flags().StringVar(&cid, "cid", "", "correlation id (opcional)")
	cmd.Flags().StringArrayVar(&data, "data", nil, "dato k=v (repetible)")
	cmd.Flags().BoolVar(&force, "force", false, "saltear filtros de nivel y namespace")
	cmd.Flags().StringVar(&namespaces, "namespaces", "", "pisa log.namespaces de la config para esta emisión")
	_ = cmd.MarkFlagRequired("namespace")
	return cmd
}

func newDemoCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "demo",
		Short: "Corre los tres escenarios de ejemplo sobre un runtime nuevo",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDemo(cmd.OutOrStdout(), a.diag, a.cfg.ColorMode())
		},
	}
}

// runDemo no usa la config cargada: arranca de los defaults silenciosos.
func runDemo(w io.Writer, diag *zap.Logger, color nslog.ColorMode) error {
	rt := nslog.NewRuntime(
		nslog.WithWriter(w),
		nslog.WithDiagnostics(diag),
		nslog.WithColor(color),
	)

	fmt.Fprintln(w, "# 1) namespaces=namespace:* level=debug")
	if err := rt.SetNamespaces("namespace:*"); err != nil {
		return err
	}
	if err := rt.SetLevel("debug"); err != nil {
		return err
	}
	rt.SetOutput(nil)
	rt.MustCreateLogger("namespace:subNamespace", false).Debug(nslog.Entry{
		CorrelationID: "ctxId",
		Message:       "Will be logged",
		Data:          nslog.Fields{"a": 1},
	})

	fmt.Fprintln(w, "# 2) namespaces=root:* level=info, debug descartado")
	if err := rt.SetNamespaces("root:*"); err != nil {
		return err
	}
	if err := rt.SetLevel("info"); err != nil {
		return err
	}
	rt.MustCreateLogger("root:testing", false).Debug(nslog.Entry{Message: "Will not be logged"})

	fmt.Fprintln(w, "# 3) global context version=2.0.0 namespaces=* level=info")
	rt.SetGlobalContext(nslog.Fields{"version": "2.0.0"})
	if err := rt.SetNamespaces("*"); err != nil {
		return err
	}
	if err := rt.SetLevel("info"); err != nil {
		return err
	}
	rt.MustCreateLogger("ns", false).Warn(nslog.Entry{
		Message: "msg",
		Data:    nslog.Fields{"x": 1},
	})
	return nil
}

func toFields(kv map[string]string) nslog.Fields {
	if len(kv) == 0 {
		return nil
	}
	f := make(nslog.Fields, len(kv))
	for k, v := range kv {
		f[strings.TrimSpace(k)] = v
	}
	return f
}
