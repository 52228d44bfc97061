// Package source collects candidate entries from remote playlists and local
// files into a candidate.Store.
//
// Remote playlists are downloaded through a small bounded pool. A source
// that cannot be downloaded is logged and skipped; a local file that cannot
// be read is an error, since it was named explicitly. Parsed entries are
// normalized and inserted in the order sources are listed, not the order
// downloads finish, so the first-seen entry of a duplicated endpoint does
// not depend on network timing.
package source
