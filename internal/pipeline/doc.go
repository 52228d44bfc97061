// Package pipeline runs the whole validation flow once, or periodically in
// serve mode.
//
// A run:
//
//  1. loads the template and checks that sources and the output directory
//     are usable (configuration errors stop the run before any output);
//  2. ingests candidates from local files and remote playlists;
//  3. probes availability, then latency of the reachable streams;
//  4. ranks validated streams against the template;
//  5. renders every artifact to a temporary file and renames them into place
//     only once all of them rendered.
//
// An empty validated set still yields well-formed, empty artifacts.
package pipeline
