// Package logging writes leveled, printf-style log lines for the ranker.
//
// Levels, from most to least verbose: DEBUG, INFO, WARN, ERROR and FATAL.
// LOG_LEVEL selects the threshold and DEBUG=true overrides it. At DEBUG every
// failed probe is echoed to the console.
//
// A run's probe failures can also go to a separate diagnostics file opened
// with OpenDiagnostics. The file is truncated on open, so it lists the dead
// endpoints of the latest run only.
package logging
