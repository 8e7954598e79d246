package cmd

import (
	"errors"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/clambin/go-common/charmer"
	"github.com/clambin/warmup-bridge/internal/cmd/monitor"
	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	configFilename string
	RootCmd        = cobra.Command{
		Use:   "warmup",
		Short: "Bridge for Warmup thermostats",
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			slog.SetDefault(newLogger(cmd.ErrOrStderr(), viper.GetString("log.format"), viper.GetBool("debug")))
		},
	}
)

var args = charmer.Arguments{
	"debug":                charmer.Argument{Default: false, Help: "Log debug messages"},
	"log.format":           charmer.Argument{Default: "text", Help: "Log format (text|json)"},
	"entries":              charmer.Argument{Default: defaultEntriesPath(), Help: "File holding the configured Warmup accounts"},
	"executor.workers":     charmer.Argument{Default: 4, Help: "Maximum number of concurrent Warmup API calls"},
	"exporter.addr":        charmer.Argument{Default: ":9090", Help: "Address of Prometheus exporter"},
	"poller.interval":      charmer.Argument{Default: 30 * time.Second, Help: "Poller interval"},
	"poller.parallel":      charmer.Argument{Default: 4, Help: "Number of rooms updated in parallel"},
	"health.addr":          charmer.Argument{Default: ":8080", Help: "Address of /health endpoint"},
	"slack.token":          charmer.Argument{Default: "", Help: "Slack token"},
	"mqtt.broker":          charmer.Argument{Default: "", Help: "MQTT broker URL (e.g. tcp://localhost:1883)"},
	"mqtt.clientId":        charmer.Argument{Default: "warmup-bridge", Help: "MQTT client ID"},
	"mqtt.username":        charmer.Argument{Default: "", Help: "MQTT username"},
	"mqtt.password":        charmer.Argument{Default: "", Help: "MQTT password"},
	"mqtt.baseTopic":       charmer.Argument{Default: "warmup", Help: "MQTT base topic"},
	"mqtt.discoveryPrefix": charmer.Argument{Default: "homeassistant", Help: "Home Assistant MQTT discovery prefix"},
	"mqtt.qos":             charmer.Argument{Default: 0, Help: "MQTT QoS (0 or 1)"},
	"influxdb.url":         charmer.Argument{Default: "", Help: "InfluxDB URL"},
	"influxdb.token":       charmer.Argument{Default: "", Help: "InfluxDB token"},
	"influxdb.org":         charmer.Argument{Default: "", Help: "InfluxDB organisation"},
	"influxdb.bucket":      charmer.Argument{Default: "warmup", Help: "InfluxDB bucket"},
}

func init() {
	cobra.OnInitialize(initConfig)
	RootCmd.PersistentFlags().StringVar(&configFilename, "config", "", "Configuration file")
	if err := charmer.SetPersistentFlags(&RootCmd, viper.GetViper(), args); err != nil {
		panic("failed to set flags: " + err.Error())
	}

	RootCmd.AddCommand(&monitor.Cmd, loginCmd, roomsCmd, removeCmd)
}

func defaultEntriesPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = "."
	}
	return filepath.Join(dir, "warmup-bridge", "entries.yaml")
}

func initConfig() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Warn("failed to load .env file", "err", err)
	}

	if configFilename != "" {
		viper.SetConfigFile(configFilename)
	} else {
		viper.AddConfigPath("/etc/warmup-bridge/")
		viper.AddConfigPath("$HOME/.warmup-bridge")
		viper.AddConfigPath(".")
		viper.SetConfigName("config")
	}

	if err := charmer.SetDefaults(viper.GetViper(), args); err != nil {
		panic("failed to set viper defaults: " + err.Error())
	}

	viper.SetEnvPrefix("WARMUP_BRIDGE")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFilename != "" || !errors.As(err, &notFound) {
			slog.Error("failed to read config file", "err", err)
			os.Exit(1)
		}
	}
}

func newLogger(w io.Writer, format string, debug bool) *slog.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	switch format {
	case "json":
		return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
	default:
		return slog.New(tint.NewHandler(w, &tint.Options{Level: level, TimeFormat: time.DateTime}))
	}
}
