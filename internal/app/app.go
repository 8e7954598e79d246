package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/clambin/go-common/slackbot"
	"github.com/clambin/go-common/taskmanager"
	"github.com/clambin/go-common/taskmanager/httpserver"
	promserver "github.com/clambin/go-common/taskmanager/prometheus"
	"github.com/clambin/warmup-bridge/internal/bot"
	"github.com/clambin/warmup-bridge/internal/bridge"
	"github.com/clambin/warmup-bridge/internal/collector"
	"github.com/clambin/warmup-bridge/internal/executor"
	"github.com/clambin/warmup-bridge/internal/health"
	"github.com/clambin/warmup-bridge/internal/host"
	"github.com/clambin/warmup-bridge/internal/integration"
	"github.com/clambin/warmup-bridge/internal/mqtt"
	"github.com/clambin/warmup-bridge/internal/poller"
	"github.com/clambin/warmup-bridge/internal/recorder"
	"github.com/clambin/warmup-bridge/internal/warmuptools"
	"github.com/clambin/warmup-bridge/pkg/warmup"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/viper"
)

// App runs all components of the bridge
type App struct {
	Host        *host.Host
	Integration *integration.Integration
	Entries     *host.EntryStore
	Poller      *poller.EntityPoller
	tasks       []taskmanager.Task
	logger      *slog.Logger
}

func New(ctx context.Context, cfg *viper.Viper, version string, registry prometheus.Registerer, logger *slog.Logger) (*App, error) {
	a := makeApp(cfg, version, registry, logger)

	// History recorder
	if url := cfg.GetString("influxdb.url"); url != "" {
		r, err := recorder.Connect(ctx, recorder.Config{
			URL:           url,
			Token:         cfg.GetString("influxdb.token"),
			Org:           cfg.GetString("influxdb.org"),
			Bucket:        cfg.GetString("influxdb.bucket"),
			FlushInterval: cfg.GetDuration("influxdb.flushInterval"),
		}, a.Poller, logger.With("component", "recorder"))
		if err != nil {
			return nil, fmt.Errorf("recorder: %w", err)
		}
		a.tasks = append(a.tasks, r)
	}

	// MQTT bridge
	if broker := cfg.GetString("mqtt.broker"); broker != "" {
		m, err := mqtt.New(mqtt.Config{
			BrokerURL:       broker,
			ClientID:        cfg.GetString("mqtt.clientId"),
			Username:        cfg.GetString("mqtt.username"),
			Password:        cfg.GetString("mqtt.password"),
			BaseTopic:       cfg.GetString("mqtt.baseTopic"),
			DiscoveryPrefix: cfg.GetString("mqtt.discoveryPrefix"),
			QoS:             byte(cfg.GetUint("mqtt.qos")),
		}, a.Host, a.Poller, logger.With("component", "mqtt"))
		if err != nil {
			return nil, err
		}
		a.tasks = append(a.tasks, m)
	}

	return a, nil
}

// NewAPIFactory returns an APIFactory whose clients record their calls in registry
func NewAPIFactory(registry prometheus.Registerer) bridge.APIFactory {
	m := warmuptools.NewWarmupCallMetrics("warmup", "bridge", prometheus.Labels{"application": "warmup"})
	if registry != nil {
		registry.MustRegister(m)
	}
	return bridge.DefaultFactory(warmup.WithHTTPClient(warmuptools.GetInstrumentedHTTPClient(nil, m)))
}

func makeApp(cfg *viper.Viper, version string, registry prometheus.Registerer, l *slog.Logger) *App {
	// Executor
	exec := executor.New(cfg.GetInt("executor.workers"), l.With("component", "executor"))
	if registry != nil {
		registry.MustRegister(exec)
	}

	// Host & integration
	h := host.New(exec, l.With("component", "host"))
	i := integration.New(NewAPIFactory(registry), l.With("component", "integration"))
	h.Register(i)

	a := App{
		Host:        h,
		Integration: i,
		Entries:     host.NewEntryStore(cfg.GetString("entries")),
		logger:      l,
	}

	// Poller
	a.Poller = poller.New(h, cfg.GetDuration("poller.interval"), cfg.GetInt("poller.parallel"), l.With("component", "poller"))
	a.tasks = append(a.tasks, a.Poller)

	// Collector
	coll := &collector.Collector{Poller: a.Poller, Logger: l.With("component", "collector")}
	if registry != nil {
		registry.MustRegister(coll)
	}
	a.tasks = append(a.tasks, coll)

	// Prometheus Server
	a.tasks = append(a.tasks, promserver.New(promserver.WithAddr(cfg.GetString("exporter.addr"))))

	// Health Endpoint
	hc := health.New(a.Poller, l.With("component", "health"))
	a.tasks = append(a.tasks, hc)
	r := http.NewServeMux()
	r.Handle("/health", hc)
	a.tasks = append(a.tasks, httpserver.New(cfg.GetString("health.addr"), r))

	// Slackbot
	if token := cfg.GetString("slack.token"); token != "" {
		b := slackbot.New(
			token,
			slackbot.WithName("warmupBot "+version),
			slackbot.WithLogger(l.With(slog.String("component", "slackbot"))),
		)
		a.tasks = append(a.tasks,
			b,
			bot.New(h, b, a.Poller, l.With(slog.String("component", "warmupbot"))),
		)
	}

	return &a
}

// Run sets up all stored config entries and runs all tasks until ctx is canceled or a task fails
func (a *App) Run(ctx context.Context) error {
	entries, err := a.Entries.Load()
	if err != nil {
		return fmt.Errorf("entries: %w", err)
	}
	if len(entries) == 0 {
		a.logger.Warn("no Warmup accounts configured. run 'warmup login' to add one")
	}
	for _, entry := range entries {
		if err = a.Host.SetupEntry(ctx, entry); err != nil {
			a.logger.Error("failed to set up account", "entry", entry.EntryID, "title", entry.Title, "err", err)
		}
	}

	err = taskmanager.New(a.tasks...).Run(ctx)

	for _, entry := range entries {
		if _, ok := a.Integration.Bridge(entry.EntryID); ok {
			_, _ = a.Host.UnloadEntry(context.Background(), entry.EntryID)
		}
	}
	return err
}
