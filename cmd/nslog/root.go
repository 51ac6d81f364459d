package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dropDatabas3/nslog/internal/config"
	"github.com/dropDatabas3/nslog/internal/observability/logger"
	"github.com/dropDatabas3/nslog/pkg/nslog"
)

// app es el estado compartido entre subcomandos, armado en PersistentPreRunE.
type app struct {
	configPath string
	envFile    string
	verbose    bool

	cfg  *config.Config
	diag *zap.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "nslog",
		Short:         "Logging por namespaces: probar patrones, emitir registros y admin en vivo",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init()
		},
	}

	root.PersistentFlags().StringVar(&a.configPath, "config", envOr("CONFIG_PATH", ""), "ruta a config YAML (env CONFIG_PATH); vacío = defaults + env")
	root.PersistentFlags().StringVar(&a.envFile, "env-file", ".env", "ruta a .env (si existe, se carga)")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "diagnósticos a nivel info")

	root.AddCommand(newMatchCmd())
	root.AddCommand(newEmitCmd(a))
	root.AddCommand(newDemoCmd(a))
	root.AddCommand(newServeCmd(a))
	return root
}

func (a *app) init() error {
	if a.envFile != "" && fileExists(a.envFile) {
		if err := godotenv.Load(a.envFile); err != nil {
			return fmt.Errorf("dotenv %s: %w", a.envFile, err)
		}
	}

	cfg, err := config.Load(a.configPath)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	a.cfg = cfg

	lvl := "warn"
	if a.verbose {
		lvl = "info"
	}
	diag, err := logger.New(logger.Config{Env: cfg.App.Env, Level: lvl, Name: "nslog"})
	if err != nil {
		return fmt.Errorf("diagnostics: %w", err)
	}
	a.diag = diag
	return nil
}

// newRuntime arma un runtime sobre w con la config cargada. reg puede ser nil.
func (a *app) newRuntime(w io.Writer, reg prometheus.Registerer) (*nslog.Runtime, error) {
	opts := []nslog.Option{
		nslog.WithDiagnostics(a.diag),
		nslog.WithColor(a.cfg.ColorMode()),
	}
	if w != nil {
		opts = append(opts, nslog.WithWriter(w))
	}
	if reg != nil {
		m, err := nslog.NewMetrics(reg)
		if err != nil {
			return nil, fmt.Errorf("metrics: %w", err)
		}
		opts = append(opts, nslog.WithMetrics(m))
	}

	rt := nslog.NewRuntime(opts...)
	if err := a.cfg.ApplyTo(rt); err != nil {
		return nil, err
	}
	return rt, nil
}

func envOr(k, def string) string {
	if v := strings.TrimSpace(os.Getenv(k)); v != "" {
		return v
	}
	return def
}

func fileExists(p string) bool {
	st, err := os.Stat(p)
	return err == nil && !st.IsDir()
}
