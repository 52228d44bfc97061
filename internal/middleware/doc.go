// Package middleware provides the HTTP middleware used in serve mode.
//
// It includes:
//   - An access log written through the logging package
//   - Gzip compression of playlists, listings and JSON
//   - Prometheus request metrics labelled by route template
package middleware
