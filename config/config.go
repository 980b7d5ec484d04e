// Package config builds the immutable startup configuration from a .env
// file, the environment and command-line flags, in increasing precedence.
package config

import (
	"errors"
	"flag"
	"fmt"
	"net"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/freekieb7/webroute/http"
	"github.com/freekieb7/webroute/validation"
)

const (
	DefaultHost        = "0.0.0.0"
	DefaultPort        = 8080
	DefaultStaticRoot  = "webroot"
	DefaultServiceName = "webroute"
)

type Config struct {
	Host         string
	Port         int
	StaticRoot   string
	Workers      int
	MethodPolicy http.MethodPolicy
	PathPolicy   http.PathPolicy

	ServiceName  string
	OTLPEndpoint string
}

func Default() Config {
	return Config{
		Host:         DefaultHost,
		Port:         DefaultPort,
		StaticRoot:   DefaultStaticRoot,
		Workers:      http.DefaultWorkers,
		MethodPolicy: http.MethodPolicySilent,
		PathPolicy:   http.PathPolicyConfined,
		ServiceName:  DefaultServiceName,
	}
}

// Load reads ./.env (if present), the environment and args.
func Load(args []string) (Config, error) {
	return LoadFrom(".env", args)
}

func LoadFrom(envFile string, args []string) (Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("config: load %s: %w", envFile, err)
		}
	}

	cfg := Default()
	if err := cfg.fromEnv(); err != nil {
		return Config{}, err
	}
	if err := cfg.fromFlags(args); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (cfg *Config) fromEnv() error {
	if v, ok := os.LookupEnv("WEBROUTE_HOST"); ok {
		cfg.Host = v
	}
	if v, ok := os.LookupEnv("WEBROUTE_STATIC_ROOT"); ok {
		cfg.StaticRoot = v
	}
	if v, ok := os.LookupEnv("OTEL_SERVICE_NAME"); ok {
		cfg.ServiceName = v
	}
	if v, ok := os.LookupEnv("OTEL_EXPORTER_OTLP_ENDPOINT"); ok {
		cfg.OTLPEndpoint = v
	}

	if v, ok := os.LookupEnv("WEBROUTE_PORT"); ok {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("config: WEBROUTE_PORT: %w", err)
		}
		cfg.Port = port
	}
	if v, ok := os.LookupEnv("WEBROUTE_WORKERS"); ok {
		workers, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("config: WEBROUTE_WORKERS: %w", err)
		}
		cfg.Workers = workers
	}

	if v, ok := os.LookupEnv("WEBROUTE_METHOD_POLICY"); ok {
		policy, err := http.ParseMethodPolicy(v)
		if err != nil {
			return fmt.Errorf("config: WEBROUTE_METHOD_POLICY: %w", err)
		}
		cfg.MethodPolicy = policy
	}
	if v, ok := os.LookupEnv("WEBROUTE_PATH_POLICY"); ok {
		policy, err := http.ParsePathPolicy(v)
		if err != nil {
			return fmt.Errorf("config: WEBROUTE_PATH_POLICY: %w", err)
		}
		cfg.PathPolicy = policy
	}

	return nil
}

func (cfg *Config) fromFlags(args []string) error {
	fs := flag.NewFlagSet("webroute", flag.ContinueOnError)

	methodPolicy := cfg.MethodPolicy.String()
	pathPolicy := cfg.PathPolicy.String()

	fs.StringVar(&cfg.Host, "host", cfg.Host, "interface to listen on")
	fs.IntVar(&cfg.Port, "port", cfg.Port, "TCP port to listen on")
	fs.StringVar(&cfg.StaticRoot, "root", cfg.StaticRoot, "directory static files are served from")
	fs.IntVar(&cfg.Workers, "workers", cfg.Workers, "number of connection workers")
	fs.StringVar(&methodPolicy, "method-policy", methodPolicy, "response to non-GET methods: silent or explicit")
	fs.StringVar(&pathPolicy, "path-policy", pathPolicy, "static path mapping: confined or raw")

	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	var err error
	if cfg.MethodPolicy, err = http.ParseMethodPolicy(methodPolicy); err != nil {
		return fmt.Errorf("config: -method-policy: %w", err)
	}
	if cfg.PathPolicy, err = http.ParsePathPolicy(pathPolicy); err != nil {
		return fmt.Errorf("config: -path-policy: %w", err)
	}

	return nil
}

func (cfg Config) Validate() error {
	violations := validation.ValidateMap(
		map[string]any{
			"port":          cfg.Port,
			"static_root":   cfg.StaticRoot,
			"workers":       cfg.Workers,
			"method_policy": cfg.MethodPolicy.String(),
			"path_policy":   cfg.PathPolicy.String(),
			"service_name":  cfg.ServiceName,
		},
		map[string][]string{
			"port":          {"min:0", "max:65535"},
			"static_root":   {"required"},
			"workers":       {"min:1", "max:4096"},
			"method_policy": {"in:silent|explicit"},
			"path_policy":   {"in:confined|raw"},
			"service_name":  {"required"},
		},
	)

	if !violations.IsEmpty() {
		return fmt.Errorf("config: invalid configuration: %w", violations)
	}
	return nil
}

// Addr is the listen address in host:port form.
func (cfg Config) Addr() string {
	return net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port))
}

// ServerOptions maps the configuration onto the server's options.
func (cfg Config) ServerOptions() http.Options {
	return http.Options{
		Name:         cfg.ServiceName,
		Workers:      cfg.Workers,
		StaticRoot:   cfg.StaticRoot,
		MethodPolicy: cfg.MethodPolicy,
		PathPolicy:   cfg.PathPolicy,
	}
}
