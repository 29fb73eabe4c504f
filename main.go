package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/n0madic/go-legacyrelay/internal/config"
	"github.com/n0madic/go-legacyrelay/internal/logging"
	"github.com/n0madic/go-legacyrelay/internal/server"
)

const usage = "Usage: go-legacyrelay <command> [flags]"

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, usage)
		fmt.Fprintln(os.Stderr, "Commands: serve, info")
		os.Exit(1)
	}

	switch os.Args[1] {
	case "serve":
		os.Exit(cmdServe(os.Args[2:]))
	case "info":
		os.Exit(cmdInfo(os.Args[2:]))
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", os.Args[1])
		fmt.Fprintln(os.Stderr, "Commands: serve, info")
		os.Exit(1)
	}
}

// loadConfig reads the dotenv file named by -env-file, then the environment,
// then applies any flags given explicitly on the command line.
func loadConfig(fs *flag.FlagSet, args []string, bind func(*config.ServerConfig) func(*flag.Flag)) (*config.ServerConfig, error) {
	envFile := fs.String("env-file", ".env", "Dotenv file to load before reading the environment")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if err := config.LoadDotEnv(*envFile); err != nil {
		return nil, fmt.Errorf("load %s: %w", *envFile, err)
	}
	cfg := config.DefaultFromEnv()
	fs.Visit(bind(cfg))
	return cfg, nil
}

func cmdServe(args []string) int {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	host := fs.String("host", config.DefaultHost, "Bind host")
	port := fs.Int("port", config.DefaultPort, "Listen port")
	verbose := fs.Bool("verbose", false, "Enable verbose logging")
	debug := fs.Bool("debug", false, "Dump raw inbound and backend HTTP traffic")
	withMetrics := fs.Bool("metrics", false, "Expose Prometheus metrics on /metrics")

	cfg, err := loadConfig(fs, args, func(c *config.ServerConfig) func(*flag.Flag) {
		return func(f *flag.Flag) {
			switch f.Name {
			case "host":
				c.Host = *host
			case "port":
				c.Port = *port
			case "verbose":
				c.Verbose = *verbose
			case "debug":
				c.Debug = *debug
			case "metrics":
				c.Metrics = *withMetrics
			}
		}
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	logCloser := logging.Setup(logging.Options{Verbose: cfg.Verbose || cfg.Debug, File: cfg.LogFile})
	defer logCloser.Close()

	if cfg.APIKey == "" {
		slog.Warn("API_KEY is not set; backend requests will be rejected")
	}

	srv := server.New(cfg)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Fprintln(os.Stderr, "\nShutting down...")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(ctx)
	}()

	slog.Info("legacy relay starting",
		"host", cfg.Host,
		"port", cfg.Port,
		"base_url", cfg.BaseURL,
		"upstream_timeout", cfg.UpstreamTimeout,
		"metrics", cfg.Metrics,
	)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server error", "error", err)
		return 1
	}
	return 0
}

type infoOutput struct {
	Host            string `json:"host"`
	Port            int    `json:"port"`
	BaseURL         string `json:"base_url"`
	UpstreamTimeout string `json:"upstream_timeout"`
	APIKey          string `json:"api_key"`
	Verbose         bool   `json:"verbose"`
	Debug           bool   `json:"debug"`
	Metrics         bool   `json:"metrics"`
	LogFile         string `json:"log_file,omitempty"`
}

func cmdInfo(args []string) int {
	fs := flag.NewFlagSet("info", flag.ExitOnError)
	jsonOut := fs.Bool("json", false, "Print the effective configuration as JSON")

	cfg, err := loadConfig(fs, args, func(*config.ServerConfig) func(*flag.Flag) {
		return func(*flag.Flag) {}
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	out := infoOutput{
		Host:            cfg.Host,
		Port:            cfg.Port,
		BaseURL:         cfg.BaseURL,
		UpstreamTimeout: cfg.UpstreamTimeout.String(),
		APIKey:          cfg.MaskedAPIKey(),
		Verbose:         cfg.Verbose,
		Debug:           cfg.Debug,
		Metrics:         cfg.Metrics,
		LogFile:         cfg.LogFile,
	}

	if *jsonOut {
		data, _ := json.MarshalIndent(out, "", "  ")
		fmt.Println(string(data))
		return 0
	}

	key := out.APIKey
	if key == "" {
		key = "<not set>"
	}
	fmt.Println("Legacy relay configuration")
	fmt.Printf("  Listen:           %s:%d\n", out.Host, out.Port)
	fmt.Printf("  Backend:          %s\n", out.BaseURL)
	fmt.Printf("  Backend timeout:  %s\n", out.UpstreamTimeout)
	fmt.Printf("  API key:          %s\n", key)
	fmt.Printf("  Verbose:          %t\n", out.Verbose)
	fmt.Printf("  Debug:            %t\n", out.Debug)
	fmt.Printf("  Metrics:          %t\n", out.Metrics)
	if out.LogFile != "" {
		fmt.Printf("  Log file:         %s\n", out.LogFile)
	}
	return 0
}
