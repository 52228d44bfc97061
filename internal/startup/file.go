package startup

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// FileConfig is the optional YAML configuration file. It carries the lists
// that do not fit comfortably in environment variables. Every scalar here can
// still be overridden by its environment variable.
type FileConfig struct {
	Sources        []string `yaml:"sources"`
	CandidateFiles []string `yaml:"candidate_files"`
	GroupOrder     []string `yaml:"group_order"`

	Template  string `yaml:"template"`
	OutputDir string `yaml:"output_dir"`
	StampURL  string `yaml:"stamp_url"`

	Output OutputFileConfig `yaml:"output"`
	Probe  ProbeFileConfig  `yaml:"probe"`
	Fetch  FetchFileConfig  `yaml:"fetch"`
	Serve  ServeFileConfig  `yaml:"serve"`
}

// OutputFileConfig names the artifacts.
type OutputFileConfig struct {
	M3U            string `yaml:"m3u"`
	TXT            string `yaml:"txt"`
	CSV            string `yaml:"csv"`
	SQLite         string `yaml:"sqlite"`
	DiagnosticsLog string `yaml:"diagnostics_log"`
	ChannelCap     int    `yaml:"channel_cap"`
}

// ProbeFileConfig bounds stream probing.
type ProbeFileConfig struct {
	AvailabilityWorkers int    `yaml:"availability_workers"`
	LatencyWorkers      int    `yaml:"latency_workers"`
	AvailabilityTimeout string `yaml:"availability_timeout"`
	LatencyTimeout      string `yaml:"latency_timeout"`
	Method              string `yaml:"method"`
	ReadBytes           int    `yaml:"read_bytes"`
}

// FetchFileConfig bounds source downloads.
type FetchFileConfig struct {
	Workers int    `yaml:"workers"`
	Timeout string `yaml:"timeout"`
}

// ServeFileConfig controls serve mode.
type ServeFileConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Port     string `yaml:"port"`
	Interval string `yaml:"interval"`
}

// LoadFile reads and parses a YAML configuration file.
func LoadFile(filename string) (*FileConfig, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg FileConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return &cfg, nil
}
