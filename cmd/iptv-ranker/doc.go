// Command iptv-ranker builds a ranked IPTV playlist from public sources.
//
// A run ingests candidate streams from remote playlists and local files,
// probes every distinct endpoint for availability, times the reachable ones,
// orders channels by a template of preferred names and writes the result as
// an M3U playlist, a grouped TXT listing, a CSV export and optionally a
// SQLite database.
//
// # Modes
//
// By default the command performs one run and exits non-zero when the run
// fails. With SERVE=true it keeps running: a run starts at boot and then
// every RUN_INTERVAL, and the latest artifacts are served over HTTP:
//
//   - /playlist.m3u, /playlist.txt, /export.csv, /export.db
//   - /api/summary, /api/channels, /api/channels/{name}
//   - POST /api/run to start a run on demand
//   - /health, /livez, /readyz, /version and /metrics
//
// # Configuration
//
// Settings come from environment variables, an optional YAML file named by
// CONFIG_FILE, and defaults, in that order of precedence. See the startup
// package for the full list.
//
// # Graceful Shutdown
//
// SIGINT and SIGTERM cancel the run in flight. A canceled run writes no
// artifacts, so the previous output stays in place. In serve mode the HTTP
// server drains for up to 30 seconds before the runner is stopped.
package main
