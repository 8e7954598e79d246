package app

import (
	"bytes"
	"context"
	"log/slog"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_makeApp(t *testing.T) {
	testCases := []struct {
		name   string
		config string
		length int
	}{
		{
			name: "minimal",
			config: `
health:
  addr: :9091
`,
			length: 5,
		},
		{
			name: "slack",
			config: `
health:
  addr: :9091
slack:
  token: 1234
`,
			length: 7,
		},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := viper.New()
			cfg.SetConfigType("yaml")
			require.NoError(t, cfg.ReadConfig(bytes.NewBufferString(tt.config)))

			a := makeApp(cfg, "1.0", prometheus.NewPedanticRegistry(), slog.New(slog.DiscardHandler))
			assert.Len(t, a.tasks, tt.length)
			assert.NotNil(t, a.Host)
			assert.NotNil(t, a.Poller)
		})
	}
}

func TestNew_MQTT(t *testing.T) {
	cfg := viper.New()
	cfg.Set("mqtt.broker", "tcp://127.0.0.1:1883")
	a, err := New(t.Context(), cfg, "1.0", prometheus.NewPedanticRegistry(), slog.New(slog.DiscardHandler))
	require.NoError(t, err)
	assert.Len(t, a.tasks, 6)

	cfg.Set("mqtt.qos", 2)
	_, err = New(t.Context(), cfg, "1.0", prometheus.NewPedanticRegistry(), slog.New(slog.DiscardHandler))
	assert.Error(t, err)
}

func TestApp_Run(t *testing.T) {
	entries := filepath.Join(t.TempDir(), "entries.yaml")
	// an entry without credentials fails to set up, but does not stop the application
	require.NoError(t, os.WriteFile(entries, []byte(`entries:
  - entry_id: "1"
    domain: warmup
    title: warmup
    version: 1
    data: {}
`), 0600))

	healthAddr := freeAddr(t)
	cfg := viper.New()
	cfg.Set("entries", entries)
	cfg.Set("exporter.addr", "127.0.0.1:0")
	cfg.Set("health.addr", healthAddr)
	cfg.Set("poller.interval", time.Hour)

	a, err := New(t.Context(), cfg, "1.0", prometheus.NewPedanticRegistry(), slog.New(slog.DiscardHandler))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(t.Context())
	errCh := make(chan error)
	go func() { errCh <- a.Run(ctx) }()

	assert.Eventually(t, func() bool { return len(a.Poller.Source.EntityIDs()) == 0 }, time.Second, 10*time.Millisecond)
	_, ok := a.Integration.Bridge("1")
	assert.False(t, ok)

	// no rooms: health reports the service as unavailable
	assert.Eventually(t, func() bool {
		resp, err := http.Get("http://" + healthAddr + "/health")
		if err != nil {
			return false
		}
		_ = resp.Body.Close()
		return resp.StatusCode == http.StatusServiceUnavailable
	}, time.Second, 10*time.Millisecond)

	cancel()
	assert.NoError(t, <-errCh)
}

func TestApp_Run_InvalidEntries(t *testing.T) {
	entries := filepath.Join(t.TempDir(), "entries.yaml")
	require.NoError(t, os.WriteFile(entries, []byte(`not: [valid`), 0600))

	cfg := viper.New()
	cfg.Set("entries", entries)
	a := makeApp(cfg, "1.0", nil, slog.New(slog.DiscardHandler))
	assert.Error(t, a.Run(t.Context()))
}

func freeAddr(t *testing.T) string {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := l.Addr().String()
	require.NoError(t, l.Close())
	return addr
}
