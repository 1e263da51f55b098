package config

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	flag "github.com/spf13/pflag"
)

const (
	defaultDir         = "./"
	defaultAddr        = "127.0.0.1:4221"
	defaultLogLevel    = "info"
	defaultServiceName = "pebble"
)

// Config is read once at startup and never changes afterwards.
type Config struct {
	// Dir is the base directory of the files route.
	Dir         string
	Addr        string
	LogLevel    slog.Level
	ServiceName string
}

// Parse reads flags from args, which excludes the program name.
// Usage and parse errors are written to output.
func Parse(name string, args []string, output io.Writer) (Config, error) {
	var (
		cfg      Config
		logLevel string
	)

	flags := flag.NewFlagSet(name, flag.ContinueOnError)
	flags.SetOutput(output)
	flags.SortFlags = false

	flags.StringVar(&cfg.Dir, "dir", defaultDir, "Base directory for the files route")
	flags.StringVarP(&cfg.Addr, "addr", "a", defaultAddr, "Address to listen on")
	flags.StringVarP(&logLevel, "log-level", "l", defaultLogLevel, "One of debug, info, warn, error")
	flags.StringVar(&cfg.ServiceName, "service-name", defaultServiceName, "Service name reported to OpenTelemetry")

	if err := flags.Parse(args); err != nil {
		return Config{}, err
	}
	if flags.NArg() > 0 {
		return Config{}, fmt.Errorf("config: unexpected arguments %v", flags.Args())
	}

	if err := cfg.LogLevel.UnmarshalText([]byte(strings.TrimSpace(logLevel))); err != nil {
		return Config{}, fmt.Errorf("config: invalid log level %q", logLevel)
	}
	if cfg.Dir == "" {
		cfg.Dir = defaultDir
	}

	return cfg, nil
}
