// Package startup handles application initialization, configuration loading,
// and startup/shutdown logging.
//
// # Configuration
//
// Configuration comes from environment variables via [LoadConfig], layered
// over an optional YAML file named by CONFIG_FILE (see [FileConfig]).
// Environment variables win over the file; the file wins over defaults.
//
// Inputs:
//   - TEMPLATE_FILE: Preferred channel order, one name per line (default: moban.txt)
//   - SOURCES: Comma-separated remote M3U URLs
//   - CANDIDATE_FILES: Comma-separated local CSV or M3U candidate lists
//
// Outputs:
//   - OUTPUT_DIR: Directory receiving the artifacts (default: .)
//   - M3U_NAME, TXT_NAME, CSV_NAME: Artifact file names (default: iptv4.m3u,
//     iptv4.txt, valid_streams.csv)
//   - SQLITE_EXPORT: SQLite copy of the ranked export (default: disabled)
//   - DIAGNOSTICS_LOG: Probe failure log (default: iptv4_error.log, empty disables)
//   - GROUP_ORDER: Comma-separated section order of the grouped listing
//   - STAMP_URL: Endpoint paired with the update timestamp in the listing
//   - CHANNEL_CAP: Streams kept per channel, 0 or less for no cap (default: 10)
//
// Probing:
//   - AVAILABILITY_WORKERS, LATENCY_WORKERS: Pool sizes, 0 derives them from
//     GOMAXPROCS (default: 50 and 20)
//   - AVAILABILITY_TIMEOUT, LATENCY_TIMEOUT: Per-probe deadline (default: 5s)
//   - PROBE_METHOD: GET or HEAD (default: GET)
//   - PROBE_READ_BYTES: Body bytes to read as confirmation, 0 disables (default: 0)
//   - FETCH_WORKERS, FETCH_TIMEOUT: Source download pool and deadline (default: 5, 5s)
//
// Serve mode:
//   - SERVE: Keep running and serve the artifacts over HTTP (default: false)
//   - PORT: HTTP port (default: 8080)
//   - RUN_INTERVAL: Time between runs (default: 6h)
//   - LOG_HEALTH_CHECKS: Log health check requests (default: false)
//
// Other:
//   - PROGRESS: auto, bar, log or off (default: auto)
//   - LOG_LEVEL: debug, info, warn, error (default: info); DEBUG=true forces debug
//   - MEMORY_LIMIT, MEMORY_RATIO: Container memory limit used to derive
//     GOMEMLIMIT (see the memory package)
//
// # Build Information
//
// Build-time variables are injected via ldflags and exposed via [GetBuildInfo].
//
// # Lifecycle Logging
//
// Sectioned log output for a consistent startup and shutdown transcript:
//   - [LogRunStarted]: Start of a validation run
//   - [LogHTTPRoutes]: Registered HTTP routes (debug level)
//   - [LogServerStarted]: Server endpoints and startup duration
//   - [LogShutdownInitiated]: Graceful shutdown start
//   - [LogShutdownComplete]: Shutdown completion
package startup
