// internal/pkg/bootstrap/app.go
package bootstrap

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"syscall"
	"time"

	zlog "github.com/rs/zerolog/log"

	"github.com/klausterra/alpha-se-1/internal/pkg/logger"
	"github.com/klausterra/alpha-se-1/internal/pkg/metrics"
	"github.com/klausterra/alpha-se-1/internal/pkg/nacos"
	"github.com/klausterra/alpha-se-1/internal/tracing"
)

// Runnable is a background component (Kafka consumer, ticker job, hub) whose
// lifetime is bound to the service.
type Runnable interface {
	Start(ctx context.Context) error
	Stop(ctx context.Context)
}

// Lifecycle collects runnables and cleanup hooks registered while wiring.
type Lifecycle struct {
	mu        sync.Mutex
	runnables []Runnable
	closers   []func(ctx context.Context)
}

func (l *Lifecycle) Add(r Runnable) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.runnables = append(l.runnables, r)
}

// OnStop registers cleanup run after all runnables stopped, last-in first-out.
func (l *Lifecycle) OnStop(fn func(ctx context.Context)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.closers = append(l.closers, fn)
}

type AppCtx struct {
	Mux       *http.ServeMux
	Nacos     *nacos.Client // nil unless infra.nacos.enabled
	Config    *Config
	Lifecycle *Lifecycle
	NodeID    string
}

// AppInfo holds what differs between the binaries.
type AppInfo struct {
	ServiceName      string
	Port             int // 0 means app.port from config
	RegisterHandlers func(appCtx AppCtx) error
}

// Init loads the configuration named by CONFIG_FILE.
func Init() (*Config, error) {
	return LoadConfig(getEnv("CONFIG_FILE", "configs/config.yaml"))
}

// StartService wires the shared infrastructure, runs the service and shuts it
// down gracefully on SIGINT/SIGTERM.
func StartService(info AppInfo) {
	// 1. Configuration and logging
	cfg, err := Init()
	if err != nil {
		zlog.Fatal().Err(err).Msg("failed to load configuration")
	}
	logger.Setup(info.ServiceName, cfg.App.LogLevel)
	port := info.Port
	if port == 0 {
		port = cfg.App.Port
	}
	nodeID := info.ServiceName + "-" + strconv.Itoa(os.Getpid())
	if host, err := os.Hostname(); err == nil {
		nodeID = info.ServiceName + "-" + host + "-" + strconv.Itoa(port)
	}

	// 2. Tracer
	tp, err := tracing.InitTracerProvider(info.ServiceName, cfg.Infra.Jaeger.Endpoint)
	if err != nil {
		zlog.Fatal().Err(err).Msg("failed to initialize tracer provider")
	}

	// 3. Optional service registration
	var namingClient *nacos.Client
	var ip string
	if cfg.Infra.Nacos.Enabled {
		namingClient, err = nacos.NewNacosClient(cfg.Infra.Nacos.Addrs, cfg.Infra.Nacos.Namespace, cfg.Infra.Nacos.Group)
		if err != nil {
			zlog.Fatal().Err(err).Msg("failed to initialize nacos client")
		}
		if ip, err = GetOutboundIP(); err != nil {
			zlog.Fatal().Err(err).Msg("failed to get outbound IP address")
		}
		if err := namingClient.RegisterServiceInstance(info.ServiceName, ip, port); err != nil {
			zlog.Fatal().Err(err).Msg("failed to register service with nacos")
		}
	}

	// 4. Routes and background components
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mux.Handle("GET /metrics", metrics.Handler())

	lifecycle := &Lifecycle{}
	if info.RegisterHandlers != nil {
		if err := info.RegisterHandlers(AppCtx{Mux: mux, Nacos: namingClient, Config: cfg, Lifecycle: lifecycle, NodeID: nodeID}); err != nil {
			zlog.Fatal().Err(err).Msg("failed to wire service")
		}
	}

	runCtx, stopRunnables := context.WithCancel(context.Background())
	for _, r := range lifecycle.runnables {
		if err := r.Start(runCtx); err != nil {
			zlog.Fatal().Err(err).Msg("failed to start background component")
		}
	}

	server := &http.Server{
		Addr:              ":" + strconv.Itoa(port),
		Handler:           metrics.Middleware(mux),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		zlog.Info().Str("service", info.ServiceName).Int("port", port).Msg("✅ HTTP server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zlog.Fatal().Err(err).Str("addr", server.Addr).Msg("could not listen")
		}
	}()

	// 5. Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zlog.Info().Str("service", info.ServiceName).Msg("🛑 Shutting down service...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// a. leave the registry first so no new traffic arrives
	if namingClient != nil {
		if err := namingClient.DeregisterServiceInstance(info.ServiceName, ip, port); err != nil {
			zlog.Error().Err(err).Msg("error deregistering from Nacos")
		}
		namingClient.Close()
	}

	// b. stop HTTP, then background components, then shared clients
	if err := server.Shutdown(ctx); err != nil {
		zlog.Error().Err(err).Msg("error shutting down http server")
	}
	stopRunnables()
	for i := len(lifecycle.runnables) - 1; i >= 0; i-- {
		lifecycle.runnables[i].Stop(ctx)
	}
	for i := len(lifecycle.closers) - 1; i >= 0; i-- {
		lifecycle.closers[i](ctx)
	}

	// c. flush buffered spans
	if err := tp.Shutdown(ctx); err != nil {
		zlog.Error().Err(err).Msg("error shutting down tracer provider")
	}

	zlog.Info().Str("service", info.ServiceName).Msg("✅ Service gracefully shut down.")
}

// GetOutboundIP returns the local address used for outbound traffic.
func GetOutboundIP() (string, error) {
	conn, err := net.Dial("udp", "8.8.8.8:80")
	if err != nil {
		return "", err
	}
	defer conn.Close()
	return conn.LocalAddr().(*net.UDPAddr).IP.String(), nil
}
