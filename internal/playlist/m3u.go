package playlist

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strings"

	"iptv-ranker/internal/candidate"
)

const (
	m3uHeader    = "#EXTM3U"
	extinfPrefix = "#EXTINF"
	maxLineBytes = 1 << 20
)

var attrPattern = regexp.MustCompile(`([A-Za-z0-9_-]+)="([^"]*)"`)

// ParseM3U extracts entries from an extended M3U document. An #EXTINF line
// is paired with the next non-comment line; entries whose endpoint is not an
// http(s) URL are skipped, as are attribute lines without a usable name.
func ParseM3U(r io.Reader) ([]candidate.Entry, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxLineBytes)

	var (
		entries []candidate.Entry
		pending *extinf
	)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		switch {
		case line == "":
			continue
		case strings.HasPrefix(line, extinfPrefix):
			info := parseExtinf(line)
			pending = &info
		case strings.HasPrefix(line, "#"):
			continue
		default:
			if pending == nil {
				continue
			}
			if isHTTPURL(line) && pending.name() != "" {
				entries = append(entries, candidate.New(
					pending.name(), pending.id(), pending.attrs["tvg-logo"], pending.attrs["group-title"], line))
			}
			pending = nil
		}
	}
	if err := scanner.Err(); err != nil {
		return entries, fmt.Errorf("failed to read playlist: %w", err)
	}
	return entries, nil
}

// extinf holds the parsed attributes and display title of an #EXTINF line
type extinf struct {
	attrs   map[string]string
	display string
}

func (e extinf) name() string {
	if n := strings.TrimSpace(e.attrs["tvg-name"]); n != "" {
		return n
	}
	return e.display
}

func (e extinf) id() string {
	if id := strings.TrimSpace(e.attrs["tvg-id"]); id != "" {
		return id
	}
	return strings.TrimSpace(e.attrs["tvg-name"])
}

func parseExtinf(line string) extinf {
	info := extinf{attrs: make(map[string]string)}
	for _, m := range attrPattern.FindAllStringSubmatch(line, -1) {
		key := strings.ToLower(m[1])
		if _, exists := info.attrs[key]; !exists {
			info.attrs[key] = m[2]
		}
	}

	// The title follows the first comma after the last quoted attribute,
	// which keeps commas inside attribute values out of it.
	rest := line
	if i := strings.LastIndex(rest, `"`); i >= 0 {
		rest = rest[i+1:]
	}
	if i := strings.Index(rest, ","); i >= 0 {
		info.display = strings.TrimSpace(rest[i+1:])
	}
	return info
}

func isHTTPURL(s string) bool {
	lower := strings.ToLower(s)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

// attr keeps a value from closing its quoted attribute early.
func attr(v string) string {
	return strings.ReplaceAll(v, `"`, "'")
}

// WriteM3U writes entries as an extended M3U playlist.
func WriteM3U(w io.Writer, entries []candidate.Entry) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, m3uHeader)
	for _, e := range entries {
		fmt.Fprintf(bw, "#EXTINF:-1 tvg-name=\"%s\" tvg-id=\"%s\" tvg-logo=\"%s\" group-title=\"%s\", %s\n",
			attr(e.Name), attr(e.ID), attr(e.Logo), attr(e.Group), e.Name)
		fmt.Fprintln(bw, e.Endpoint)
	}
	return bw.Flush()
}
