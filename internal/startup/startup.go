package startup

import (
	"fmt"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"iptv-ranker/internal/logging"
	"iptv-ranker/internal/workers"
)

// Build metadata, set with -ldflags "-X iptv-ranker/internal/startup.Version=..."
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
	GoVersion = runtime.Version()
)

// BuildInfo is the build metadata reported by /version and the app_info metric.
type BuildInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildTime string `json:"buildTime"`
	GoVersion string `json:"goVersion"`
	OS        string `json:"os"`
	Arch      string `json:"arch"`
}

// GetBuildInfo returns the build metadata of the running binary.
func GetBuildInfo() BuildInfo {
	return BuildInfo{
		Version:   Version,
		Commit:    Commit,
		BuildTime: BuildTime,
		GoVersion: GoVersion,
		OS:        runtime.GOOS,
		Arch:      runtime.GOARCH,
	}
}

// Upper bound applied to derived probe pool sizes
const maxProbeWorkers = 200

// Config holds all application configuration
type Config struct {
	ConfigFile string

	// Inputs
	TemplateFile   string
	Sources        []string
	CandidateFiles []string

	// Outputs
	OutputDir      string
	M3UName        string
	TXTName        string
	CSVName        string
	SQLiteExport   string
	DiagnosticsLog string
	GroupOrder     []string
	StampURL       string
	ChannelCap     int

	// Probing
	AvailabilityWorkers int
	LatencyWorkers      int
	AvailabilityTimeout time.Duration
	LatencyTimeout      time.Duration
	ProbeMethod         string
	ProbeReadBytes      int

	// Source fetching
	FetchWorkers int
	FetchTimeout time.Duration

	// Serve mode
	Serve           bool
	Port            string
	RunInterval     time.Duration
	LogHealthChecks bool

	Progress string
}

// LoadConfig loads configuration from the optional CONFIG_FILE and from
// environment variables, which take precedence over the file.
func LoadConfig() (*Config, error) {
	printBanner()
	logSystemInfo()

	section("CONFIGURATION")

	file := &FileConfig{}
	configFile := getEnv("CONFIG_FILE", "")
	if configFile != "" {
		loaded, err := LoadFile(configFile)
		if err != nil {
			return nil, err
		}
		file = loaded
		logging.Info("  CONFIG_FILE:           %s", configFile)
	}

	config := &Config{
		ConfigFile:     configFile,
		TemplateFile:   getEnv("TEMPLATE_FILE", orDefault(file.Template, "moban.txt")),
		Sources:        getEnvList("SOURCES", file.Sources),
		CandidateFiles: getEnvList("CANDIDATE_FILES", file.CandidateFiles),

		OutputDir:      getEnv("OUTPUT_DIR", orDefault(file.OutputDir, ".")),
		M3UName:        getEnv("M3U_NAME", orDefault(file.Output.M3U, "iptv4.m3u")),
		TXTName:        getEnv("TXT_NAME", orDefault(file.Output.TXT, "iptv4.txt")),
		CSVName:        getEnv("CSV_NAME", orDefault(file.Output.CSV, "valid_streams.csv")),
		SQLiteExport:   getEnv("SQLITE_EXPORT", file.Output.SQLite),
		DiagnosticsLog: getEnv("DIAGNOSTICS_LOG", orDefault(file.Output.DiagnosticsLog, "iptv4_error.log")),
		GroupOrder:     getEnvList("GROUP_ORDER", file.GroupOrder),
		StampURL:       getEnv("STAMP_URL", file.StampURL),
		ChannelCap:     getEnvInt("CHANNEL_CAP", orDefaultInt(file.Output.ChannelCap, 10)),

		AvailabilityWorkers: getEnvInt("AVAILABILITY_WORKERS", orDefaultInt(file.Probe.AvailabilityWorkers, 50)),
		LatencyWorkers:      getEnvInt("LATENCY_WORKERS", orDefaultInt(file.Probe.LatencyWorkers, 20)),
		AvailabilityTimeout: getEnvDuration("AVAILABILITY_TIMEOUT", fileDuration(file.Probe.AvailabilityTimeout, 5*time.Second)),
		LatencyTimeout:      getEnvDuration("LATENCY_TIMEOUT", fileDuration(file.Probe.LatencyTimeout, 5*time.Second)),
		ProbeMethod:         strings.ToUpper(getEnv("PROBE_METHOD", orDefault(file.Probe.Method, "GET"))),
		ProbeReadBytes:      getEnvInt("PROBE_READ_BYTES", file.Probe.ReadBytes),

		FetchWorkers: getEnvInt("FETCH_WORKERS", orDefaultInt(file.Fetch.Workers, 5)),
		FetchTimeout: getEnvDuration("FETCH_TIMEOUT", fileDuration(file.Fetch.Timeout, 5*time.Second)),

		Serve:           getEnvBool("SERVE", file.Serve.Enabled),
		Port:            getEnv("PORT", orDefault(file.Serve.Port, "8080")),
		RunInterval:     getEnvDuration("RUN_INTERVAL", fileDuration(file.Serve.Interval, 6*time.Hour)),
		LogHealthChecks: getEnvBool("LOG_HEALTH_CHECKS", false),

		Progress: getEnv("PROGRESS", "auto"),
	}

	// Zero or negative pool sizes mean "size from available CPUs".
	config.AvailabilityWorkers = workers.ForNetwork(config.AvailabilityWorkers, maxProbeWorkers)
	config.LatencyWorkers = workers.ForNetwork(config.LatencyWorkers, maxProbeWorkers)
	config.FetchWorkers = workers.Resolve(config.FetchWorkers, 1.0, 0)

	if config.ProbeMethod != "GET" && config.ProbeMethod != "HEAD" {
		logging.Warn("  Invalid PROBE_METHOD %q, using default: GET", config.ProbeMethod)
		config.ProbeMethod = "GET"
	}
	if config.ProbeReadBytes < 0 {
		config.ProbeReadBytes = 0
	}

	config.logSettings()

	section("DIRECTORY SETUP")

	outputDir, err := filepath.Abs(config.OutputDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve output directory path: %w", err)
	}
	config.OutputDir = outputDir
	logging.Info("  Output directory (absolute): %s", outputDir)

	// A bad output directory is reported again, as an error, by the run itself.
	if err := prepareOutputDir(outputDir); err != nil {
		logging.Warn("  Output directory issue: %v", err)
	} else {
		logging.Info("  [OK] Output directory is writable")
	}

	if config.DiagnosticsLog != "" && !filepath.IsAbs(config.DiagnosticsLog) {
		config.DiagnosticsLog = filepath.Join(outputDir, config.DiagnosticsLog)
	}
	if config.SQLiteExport != "" && !filepath.IsAbs(config.SQLiteExport) {
		config.SQLiteExport = filepath.Join(outputDir, config.SQLiteExport)
	}

	return config, nil
}

func (c *Config) logSettings() {
	logging.Info("  TEMPLATE_FILE:         %s", c.TemplateFile)
	logging.Info("  SOURCES:               %d", len(c.Sources))
	logging.Info("  CANDIDATE_FILES:       %d", len(c.CandidateFiles))
	logging.Info("  OUTPUT_DIR:            %s", c.OutputDir)
	logging.Info("  M3U_NAME:              %s", c.M3UName)
	logging.Info("  TXT_NAME:              %s", c.TXTName)
	logging.Info("  CSV_NAME:              %s", c.CSVName)
	logging.Info("  SQLITE_EXPORT:         %s", displayOptional(c.SQLiteExport))
	logging.Info("  DIAGNOSTICS_LOG:       %s", displayOptional(c.DiagnosticsLog))
	logging.Info("  CHANNEL_CAP:           %d", c.ChannelCap)
	logging.Info("  AVAILABILITY_WORKERS:  %d", c.AvailabilityWorkers)
	logging.Info("  LATENCY_WORKERS:       %d", c.LatencyWorkers)
	logging.Info("  AVAILABILITY_TIMEOUT:  %v", c.AvailabilityTimeout)
	logging.Info("  LATENCY_TIMEOUT:       %v", c.LatencyTimeout)
	logging.Info("  PROBE_METHOD:          %s", c.ProbeMethod)
	logging.Info("  PROBE_READ_BYTES:      %d", c.ProbeReadBytes)
	logging.Info("  FETCH_WORKERS:         %d", c.FetchWorkers)
	logging.Info("  FETCH_TIMEOUT:         %v", c.FetchTimeout)
	logging.Info("  SERVE:                 %v", c.Serve)
	if c.Serve {
		logging.Info("  PORT:                  %s", c.Port)
		logging.Info("  RUN_INTERVAL:          %v", c.RunInterval)
	}
	logging.Info("  PROGRESS:              %s", c.Progress)
	logging.Info("  LOG_LEVEL:             %s", logging.GetLevel())
}

func displayOptional(v string) string {
	if v == "" {
		return "DISABLED"
	}
	return v
}

