// Package validator drives the availability and latency probes across a
// whole candidate set under bounded concurrency.
//
// A run has two phases, each with its own worker pool and per-probe
// deadline:
//
//  1. Availability: every candidate is probed. Pools here are usually wide
//     since a failing endpoint costs little more than a refused connection.
//  2. Latency: only candidates that passed phase 1 are timed, typically with
//     a narrower pool so that measurements are not skewed by our own load.
//
// A probe's failure, timeout or panic only affects that candidate's outcome.
// Run returns after every dispatched probe resolved. Outcomes are returned in
// input order, which carries no meaning; ordering is the ranking package's job.
//
// Progress is observable through Progress() counters and an optional event
// channel supplied by the caller. Events are sent without blocking; the
// counters are authoritative.
package validator
