package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"

	"calentry/internal/config"
	appLog "calentry/internal/log"
	"calentry/internal/store"
	"calentry/internal/web"
)

type flagConfig struct {
	configPath string
	listen     string
	debug      bool
}

func main() {
	flags := parseFlags()
	if flags.debug {
		appLog.SetLevel(appLog.LevelDebug)
	}
	appLog.Info("calentry starting", "version", "0.1.0")

	conf, err := config.Load(flags.configPath)
	if err != nil {
		appLog.Error("failed to load config", err, "config_path", flags.configPath)
		os.Exit(1)
	}

	// CLI --listen overrides the config file if provided.
	if flags.listen != "" {
		conf.Listen = flags.listen
	}

	appLog.Info("effective config",
		"listen", conf.Listen,
		"default_page_size", conf.DefaultPageSize,
		"export_cron", conf.ExportCron,
		"export_path", conf.ExportPath,
		"basic_auth", conf.BasicAuth != nil,
	)

	// Root context with cancellation on SIGINT/SIGTERM.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		appLog.Info("signal received, shutting down", "signal", sig.String())
		cancel()
	}()

	// One store per process: this binary hosts a single user session.
	st := store.New()
	srv := web.NewServer(conf, st)

	// Scheduled export: periodically snapshot the event list to a file.
	// Nothing is ever read back; this is a one-way export.
	var sched *cron.Cron
	if conf.ExportCron != "" && conf.ExportPath != "" {
		sched = cron.New()
		_, err := sched.AddFunc(conf.ExportCron, func() {
			if err := srv.ExportToFile(conf.ExportPath); err != nil {
				appLog.Error("scheduled export failed", err, "path", conf.ExportPath)
				return
			}
			appLog.Debug("scheduled export written", "path", conf.ExportPath)
		})
		if err != nil {
			appLog.Error("invalid export cron expression", err, "cron", conf.ExportCron)
			os.Exit(1)
		}
		sched.Start()
		appLog.Info("scheduled export enabled", "cron", conf.ExportCron, "path", conf.ExportPath)
	}

	httpSrv := &http.Server{
		Addr:    conf.Listen,
		Handler: srv.Handler(),
	}
	go func() {
		appLog.Info("starting HTTP server", "listen", "http://"+conf.Listen)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLog.Error("HTTP server failed", err)
			cancel()
		}
	}()

	<-ctx.Done()

	if sched != nil {
		sched.Stop()
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		appLog.Error("HTTP shutdown failed", err)
	}
	appLog.Info("calentry exiting")
}

func parseFlags() flagConfig {
	var cfg flagConfig

	flag.StringVar(&cfg.configPath, "config", "/etc/calentry/config.yaml", "Path to config file")
	flag.StringVar(&cfg.listen, "listen", "", "HTTP listen address (overrides config if set)")
	flag.BoolVar(&cfg.debug, "debug", false, "Enable debug logging")

	flag.Parse()

	return cfg
}
