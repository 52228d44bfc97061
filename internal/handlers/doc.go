// Package handlers provides the HTTP handlers used in serve mode.
//
// It includes handlers for:
//   - The generated playlist, listing and CSV export, with ETag revalidation
//   - Ranked channel and run summary JSON
//   - Triggering a run on demand
//   - Health, readiness, version and Prometheus metrics
package handlers
