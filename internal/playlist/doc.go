// Package playlist reads and writes the text formats a run consumes and
// produces.
//
// Supported formats:
//   - M3U: extended playlists with #EXTINF attribute lines (tvg-id,
//     tvg-name, tvg-logo, group-title), read from sources and written as the
//     single-endpoint playlist
//   - Grouped TXT: "Group,#genre#" section headers followed by
//     "Name,Endpoint" lines, closed by an update timestamp section
//   - CSV: the ranked export with a trailing speed column, which can be fed
//     back in as the candidate list of a later run
//
// Writers take an io.Writer and do no other I/O. They accept an empty entry
// list and still produce a well-formed document.
package playlist
