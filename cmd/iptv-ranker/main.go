package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"

	"iptv-ranker/internal/handlers"
	"iptv-ranker/internal/logging"
	"iptv-ranker/internal/memory"
	"iptv-ranker/internal/metrics"
	"iptv-ranker/internal/middleware"
	"iptv-ranker/internal/pipeline"
	"iptv-ranker/internal/probe"
	"iptv-ranker/internal/progress"
	"iptv-ranker/internal/startup"
	"iptv-ranker/internal/validator"
)

func main() {
	startTime := time.Now()

	memory.ConfigureFromEnv()

	config, err := startup.LoadConfig()
	if err != nil {
		startup.LogFatal("Configuration error: %v", err)
	}

	metrics.InitializeMetrics()
	metrics.SetAppInfo(startup.Version, startup.Commit, startup.GoVersion)

	if err := logging.OpenDiagnostics(config.DiagnosticsLog); err != nil {
		startup.LogFatal("Failed to open diagnostics log: %v", err)
	}
	defer func() {
		if err := logging.CloseDiagnostics(); err != nil {
			logging.Warn("Failed to close diagnostics log: %v", err)
		}
	}()

	runConfig := pipelineConfig(config)

	if !config.Serve {
		if err := runOnce(runConfig, config.Progress); err != nil {
			logging.Error("Run failed: %v", err)
			_ = logging.CloseDiagnostics()
			os.Exit(1)
		}
		return
	}

	serve(config, runConfig, startTime)
}

// pipelineConfig maps the loaded settings onto a run configuration.
func pipelineConfig(config *startup.Config) pipeline.Config {
	return pipeline.Config{
		TemplateFile:   config.TemplateFile,
		Sources:        config.Sources,
		CandidateFiles: config.CandidateFiles,
		OutputDir:      config.OutputDir,
		M3UName:        config.M3UName,
		TXTName:        config.TXTName,
		CSVName:        config.CSVName,
		SQLiteExport:   config.SQLiteExport,
		GroupOrder:     config.GroupOrder,
		StampURL:       config.StampURL,
		ChannelCap:     config.ChannelCap,
		Validator: validator.Config{
			AvailabilityWorkers: config.AvailabilityWorkers,
			LatencyWorkers:      config.LatencyWorkers,
			AvailabilityTimeout: config.AvailabilityTimeout,
			LatencyTimeout:      config.LatencyTimeout,
		},
		ProbeMethod:    config.ProbeMethod,
		ProbeReadBytes: config.ProbeReadBytes,
		UserAgent:      probe.DefaultUserAgent,
		FetchWorkers:   config.FetchWorkers,
		FetchTimeout:   config.FetchTimeout,
	}
}

// runOnce performs a single run, canceling it on SIGINT or SIGTERM.
func runOnce(runConfig pipeline.Config, progressMode string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	reporter := progress.New(os.Stderr, progress.ParseMode(progressMode))
	events := make(chan validator.Event, 256)
	done := make(chan struct{})
	go func() {
		defer close(done)
		reporter.Consume(events)
	}()

	startup.LogRunStarted("cli")
	runConfig.Events = events
	_, err := pipeline.Run(ctx, runConfig)
	close(events)
	<-done
	return err
}

func serve(config *startup.Config, runConfig pipeline.Config, startTime time.Time) {
	runner := pipeline.NewRunner(runConfig, config.RunInterval)
	runner.SetOnRunComplete(func(s pipeline.Summary) {
		logging.Info("Serving %d channels from run started %s", s.Channels, s.StartedAt.Format(time.RFC3339))
	})
	runner.Start()

	h := handlers.New(runner)
	router := setupRouter(h)
	startup.LogHTTPRoutes(router)

	accessLog := middleware.DefaultAccessLogConfig()
	accessLog.LogHealthChecks = config.LogHealthChecks
	handler := middleware.Compression(middleware.DefaultCompressionConfig())(
		middleware.AccessLog(accessLog)(router))

	srv := &http.Server{
		Addr:              ":" + config.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	shutdownDone := make(chan struct{})
	go func() {
		defer close(shutdownDone)
		handleShutdown(srv, runner)
	}()

	startup.LogServerStarted(startup.ServerConfig{
		Port:            config.Port,
		RunInterval:     config.RunInterval,
		StartupDuration: time.Since(startTime),
	})
	if err := srv.ListenAndServe(); err != http.ErrServerClosed {
		startup.LogFatal("Server error: %v", err)
	}
	<-shutdownDone
}

func setupRouter(h *handlers.Handlers) *mux.Router {
	r := mux.NewRouter()
	r.Use(middleware.Metrics(middleware.DefaultMetricsConfig()))

	// Health and version
	r.HandleFunc("/health", h.HealthCheck).Methods("GET")
	r.HandleFunc("/healthz", h.HealthCheck).Methods("GET")
	r.HandleFunc("/livez", h.LivenessCheck).Methods("GET", "HEAD")
	r.HandleFunc("/readyz", h.ReadinessCheck).Methods("GET")
	r.HandleFunc("/version", h.GetVersion).Methods("GET")
	r.Handle("/metrics", h.MetricsHandler()).Methods("GET")

	// Artifacts
	r.HandleFunc("/playlist.m3u", h.ServeArtifact(pipeline.FormatM3U)).Methods("GET", "HEAD")
	r.HandleFunc("/playlist.txt", h.ServeArtifact(pipeline.FormatTXT)).Methods("GET", "HEAD")
	r.HandleFunc("/export.csv", h.ServeArtifact(pipeline.FormatCSV)).Methods("GET", "HEAD")
	r.HandleFunc("/export.db", h.ServeArtifact(pipeline.FormatSQLite)).Methods("GET", "HEAD")

	// API
	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/summary", h.GetSummary).Methods("GET")
	api.HandleFunc("/channels", h.ListChannels).Methods("GET")
	api.HandleFunc("/channels/{name}", h.GetChannel).Methods("GET")
	api.HandleFunc("/run", h.TriggerRun).Methods("POST")

	return r
}

func handleShutdown(srv *http.Server, runner *pipeline.Runner) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan

	startup.LogShutdownInitiated(sig.String())

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	startup.LogShutdownStep("Shutting down HTTP server")
	if err := srv.Shutdown(ctx); err != nil {
		logging.Warn("Server shutdown error: %v", err)
	} else {
		startup.LogShutdownStepComplete("HTTP server stopped")
	}

	startup.LogShutdownStep("Stopping runner")
	runner.Stop()
	startup.LogShutdownStepComplete("Runner stopped")

	startup.LogShutdownComplete()
}
