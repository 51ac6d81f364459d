package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/dropDatabas3/nslog/internal/admin"
	"github.com/dropDatabas3/nslog/pkg/nslog"
)

const shutdownTimeout = 5 * time.Second

func newServeCmd(a *app) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Levanta el admin HTTP sobre el runtime por defecto del proceso",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("addr") {
				addr = a.cfg.Admin.Addr
			}

			var (
				reg      *prometheus.Registry
				gatherer prometheus.Gatherer
			)
			if a.cfg.Admin.Metrics {
				reg = prometheus.NewRegistry()
				gatherer = reg
			}
			var registerer prometheus.Registerer
			if reg != nil {
				registerer = reg
			}

			rt, err := a.newRuntime(nil, registerer)
			if err != nil {
				return err
			}
			nslog.SetDefault(rt)

			h := admin.NewHandler(rt, admin.Options{Gatherer: gatherer, Logger: a.diag})

			ln, err := net.Listen("tcp", addr)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			rt.MustCreateLogger("nslog:admin", false).Info(nslog.Entry{
				Message: "admin listening",
				Data:    nslog.Fields{"addr": ln.Addr().String(), "metrics": a.cfg.Admin.Metrics},
			})
			return serveAdmin(ctx, ln, h, a.diag)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", ":9090", "dirección del admin (default: admin.addr de la config)")
	return cmd
}

// serveAdmin sirve h en ln hasta que ctx se cancele y después hace shutdown
// ordenado. Un error de Serve también corta el grupo.
func serveAdmin(ctx context.Context, ln net.Listener, h http.Handler, diag *zap.Logger) error {
	srv := &http.Server{
		Handler:           h,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		diag.Info("admin serving", zap.String("addr", ln.Addr().String()))
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shCtx); err != nil {
			diag.Warn("admin shutdown", zap.Error(err))
			return err
		}
		diag.Info("admin stopped")
		return nil
	})
	return g.Wait()
}
