package startup

import (
	"fmt"
	"os"
	"runtime"
	"sort"
	"time"

	"github.com/gorilla/mux"

	"iptv-ranker/internal/logging"
)

const rule = "------------------------------------------------------------"

// section starts a titled block of startup or shutdown output.
func section(title string, args ...interface{}) {
	logging.Info("")
	logging.Info(rule)
	logging.Info(title, args...)
	logging.Info(rule)
}

func printBanner() {
	fmt.Println(rule + `
   ___ ___ _______   __    ___          _
  |_ _| _ \_   _\ \ / /   | _ \__ _ _ _ | |_____ _ _
   | ||  _/ | |  \ V /    |   / _' | ' \| / / -_) '_|
  |___|_|   |_|   \_/     |_|_\__,_|_||_|_\_\___|_|
` + rule)
	logging.Info("  Version:    %s (%s, built %s)", Version, Commit, BuildTime)
	logging.Info("  Started:    %s", time.Now().Format(time.RFC1123))
}

func logSystemInfo() {
	section("SYSTEM INFORMATION")
	procs := runtime.GOMAXPROCS(0)
	logging.Info("  Go:              %s on %s/%s", runtime.Version(), runtime.GOOS, runtime.GOARCH)
	logging.Info("  CPUs/GOMAXPROCS: %d/%d", runtime.NumCPU(), procs)
	if procs < runtime.NumCPU() {
		logging.Info("  (Container CPU limit detected, probe pools are sized from GOMAXPROCS)")
	}

	if !logging.IsDebugEnabled() {
		return
	}
	if wd, err := os.Getwd(); err == nil {
		logging.Debug("  Working dir:     %s", wd)
	}
	if hostname, err := os.Hostname(); err == nil {
		logging.Debug("  Hostname:        %s", hostname)
	}
}

// LogRunStarted marks the start of a validation run in the log.
func LogRunStarted(trigger string) {
	section("VALIDATION RUN (%s)", trigger)
}

// RouteInfo describes one registered route.
type RouteInfo struct {
	Method string
	Path   string
	Name   string
}

// GetRoutes lists the routes registered on router, one entry per method.
// Routes without a method restriction are reported with method "*".
func GetRoutes(router *mux.Router) ([]RouteInfo, error) {
	var routes []RouteInfo
	err := router.Walk(func(route *mux.Route, _ *mux.Router, _ []*mux.Route) error {
		path, err := route.GetPathTemplate()
		if err != nil {
			return err
		}
		methods, err := route.GetMethods()
		if err != nil {
			methods = []string{"*"}
		}
		for _, m := range methods {
			routes = append(routes, RouteInfo{Method: m, Path: path, Name: route.GetName()})
		}
		return nil
	})
	return routes, err
}

// LogHTTPRoutes opens the HTTP section and, at debug level, lists the
// registered routes sorted by path.
func LogHTTPRoutes(router *mux.Router) {
	section("HTTP SERVER SETUP")
	if !logging.IsDebugEnabled() {
		return
	}

	routes, err := GetRoutes(router)
	if err != nil {
		logging.Warn("error walking routes: %v", err)
	}
	sort.Slice(routes, func(i, j int) bool {
		if routes[i].Path != routes[j].Path {
			return routes[i].Path < routes[j].Path
		}
		return routes[i].Method < routes[j].Method
	})

	logging.Debug("  %d routes:", len(routes))
	for _, r := range routes {
		logging.Debug("    %-6s %s", r.Method, r.Path)
	}
}

// ServerConfig is what LogServerStarted reports.
type ServerConfig struct {
	Port            string
	RunInterval     time.Duration
	StartupDuration time.Duration
}

// LogServerStarted reports the listening server and its main endpoints.
func LogServerStarted(config ServerConfig) {
	section("SERVER STARTED")
	logging.Info("  Startup time:    %v", config.StartupDuration)
	logging.Info("  Run interval:    %v", config.RunInterval)
	base := "http://localhost:" + config.Port
	logging.Info("  Playlist:        %s/playlist.m3u", base)
	logging.Info("  Listing:         %s/playlist.txt", base)
	logging.Info("  Export:          %s/export.csv", base)
	logging.Info("  Channels:        %s/api/channels", base)
	logging.Info("  Metrics:         %s/metrics", base)
	logging.Info(rule)
}

// LogShutdownInitiated reports the signal that started shutdown.
func LogShutdownInitiated(signal string) {
	section("SHUTDOWN INITIATED (received %s)", signal)
}

// LogShutdownStep reports a shutdown step about to run.
func LogShutdownStep(step string) {
	logging.Debug("  %s...", step)
}

// LogShutdownStepComplete reports a finished shutdown step.
func LogShutdownStepComplete(step string) {
	logging.Info("  [OK] %s", step)
}

// LogShutdownComplete reports the end of shutdown.
func LogShutdownComplete() {
	logging.Info("  [OK] Shutdown complete")
}

// LogFatal logs at fatal level and exits.
func LogFatal(format string, args ...interface{}) {
	logging.Fatal(format, args...)
}
