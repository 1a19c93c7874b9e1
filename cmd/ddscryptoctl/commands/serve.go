package commands

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/secdds/ddscrypto/internal/logger"
	"github.com/secdds/ddscrypto/pkg/audit"
	"github.com/secdds/ddscrypto/pkg/config"
	"github.com/secdds/ddscrypto/pkg/crypto"
	promcollector "github.com/secdds/ddscrypto/pkg/metrics/prometheus"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run a resident registry with a Prometheus metrics endpoint and audit trail",
	Long: `serve keeps a single Registry resident in the process until
interrupted. When metrics are enabled in the configuration it exposes
the registry's Prometheus metrics over HTTP, and when the audit trail
is enabled it records every registration and unregistration in a
GORM-backed audit log; both are disabled in the built-in defaults.

It registers and unregisters a demonstration participant/data writer
pair on a fixed interval so the metrics endpoint has something to show;
this is a diagnostic harness, not a network-facing DDS participant.`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadServeConfig()
	if err != nil {
		return err
	}

	opts, shutdownAudit, err := buildRegistryOptions(cfg)
	if err != nil {
		return err
	}
	defer shutdownAudit()

	srv, metricsDone := startMetricsServer(cfg)
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if srv != nil {
			_ = srv.Shutdown(ctx)
		}
	}()

	reg := crypto.NewRegistry(opts...)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	demoDone := make(chan struct{})
	go runDemoLoop(ctx, reg, demoDone)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	logger.Info("serve running, press Ctrl+C to stop", logger.Operation("serve"))

	select {
	case <-sigChan:
		logger.Info("shutdown signal received", logger.Operation("serve"))
		cancel()
		<-demoDone
	case err := <-metricsDone:
		cancel()
		<-demoDone
		if err != nil {
			return err
		}
	}

	logger.Info("serve stopped", logger.Operation("serve"))
	return nil
}

func loadServeConfig() (*config.Config, error) {
	if ConfigFile() == "" {
		return config.DefaultConfig(), nil
	}
	return config.Load(ConfigFile())
}

func buildRegistryOptions(cfg *config.Config) (opts []crypto.RegistryOption, shutdown func(), err error) {
	shutdown = func() {}

	if cfg.Metrics.Enabled {
		reg := prometheus.NewRegistry()
		if collector := promcollector.NewCollector(reg); collector != nil {
			opts = append(opts, crypto.WithMetrics(collector))
		}
		promRegistry = reg
	}

	if cfg.Audit.Enabled {
		log, openErr := audit.Open(cfg.Audit.DSN)
		if openErr != nil {
			return nil, shutdown, openErr
		}
		opts = append(opts, crypto.WithAudit(log))
		shutdown = func() { _ = log.Close() }
	}

	return opts, shutdown, nil
}

// promRegistry is read by the metrics handler. It stays nil when metrics
// are disabled, in which case startMetricsServer serves no /metrics
// endpoint at all.
var promRegistry *prometheus.Registry

func startMetricsServer(cfg *config.Config) (*http.Server, <-chan error) {
	done := make(chan error, 1)
	if !cfg.Metrics.Enabled {
		return nil, done
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(promRegistry, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: cfg.Metrics.ListenAddr, Handler: mux}

	go func() {
		logger.Info("metrics endpoint listening", logger.Operation("serve"))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			done <- err
			return
		}
		done <- nil
	}()

	return srv, done
}

// runDemoLoop registers and unregisters a fixed demonstration
// participant and data writer every few seconds until ctx is
// cancelled, so the resident registry's metrics and audit trail
// have continuous activity to show.
func runDemoLoop(ctx context.Context, reg *crypto.Registry, done chan<- struct{}) {
	defer close(done)

	ticker := time.NewTicker(3 * time.Second)
	defer ticker.Stop()

	attrs := crypto.ParticipantSecurityAttributes{PluginParticipantAttrs: crypto.PluginParticipantIsValid}
	endpointAttrs := crypto.EndpointSecurityAttributes{PluginEndpointAttrs: crypto.PluginEndpointIsValid}

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p, err := reg.RegisterLocalParticipant(ctx, crypto.IdentityHandle(1), crypto.PermissionsHandle(1), nil, attrs)
			if err != nil {
				logger.Warn("demo participant registration failed", logger.Err(err))
				continue
			}
			w, err := reg.RegisterLocalDataWriter(ctx, p, nil, endpointAttrs)
			if err != nil {
				logger.Warn("demo data writer registration failed", logger.Err(err))
				reg.UnregisterParticipant(ctx, p)
				continue
			}
			reg.UnregisterDataWriter(ctx, w)
			reg.UnregisterParticipant(ctx, p)
		}
	}
}
