// Package probe performs single, bounded network checks against a
// candidate's endpoint.
//
// Two probers are provided:
//   - Availability: one request, success only on a 2xx status (and, when
//     ReadBytes is set, at least one body byte)
//   - Latency: one timed GET measuring the wall-clock time from request start
//     to the first response byte
//
// Probers never return errors. Every failure class (DNS, connect, TLS,
// non-success status, deadline) is folded into the Result together with a
// human-readable diagnostic. Deadlines come from the caller's context; the
// probers do not retry.
package probe
