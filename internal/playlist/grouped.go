package playlist

import (
	"bufio"
	"fmt"
	"io"
	"time"

	"iptv-ranker/internal/candidate"
)

const (
	genreSuffix  = ",#genre#"
	updatedTitle = "更新时间"
	stampLayout  = "2006-01-02 15:04:05"
)

// DefaultGroupOrder is the section order of the grouped listing. Groups not
// named here follow in first-seen order.
var DefaultGroupOrder = []string{
	"央视频道",
	"卫视频道",
	"影视频道",
	"数字频道",
	"少儿频道",
	"地方频道",
	"港·澳·台",
}

// DefaultStampURL is the placeholder clip attached to the update timestamp
// line. Players list it as a channel, which shows when the file was built.
const DefaultStampURL = "https://vd2.bdstatic.com/mda-phje20fz4z8h126t/720p/h264/1692525385713349507/mda-phje20fz4z8h126t.mp4"

// Layout controls the grouped listing.
type Layout struct {
	// GroupOrder lists groups to emit first, in order.
	GroupOrder []string
	// GeneratedAt is the time written in the trailing update section.
	GeneratedAt time.Time
	// StampURL is paired with the timestamp; DefaultStampURL when empty.
	StampURL string
}

// WriteGrouped writes entries as "Group,#genre#" sections of "Name,Endpoint"
// lines. Entries keep their relative order within a group. Groups without
// entries are omitted; the update section is always written.
func WriteGrouped(w io.Writer, entries []candidate.Entry, layout Layout) error {
	var seen []string
	byGroup := make(map[string][]candidate.Entry)
	for _, e := range entries {
		if _, ok := byGroup[e.Group]; !ok {
			seen = append(seen, e.Group)
		}
		byGroup[e.Group] = append(byGroup[e.Group], e)
	}

	order := make([]string, 0, len(seen))
	placed := make(map[string]bool, len(seen))
	for _, g := range layout.GroupOrder {
		if _, ok := byGroup[g]; ok && !placed[g] {
			order = append(order, g)
			placed[g] = true
		}
	}
	for _, g := range seen {
		if !placed[g] {
			order = append(order, g)
			placed[g] = true
		}
	}

	bw := bufio.NewWriter(w)
	for _, g := range order {
		fmt.Fprintf(bw, "%s%s\n", g, genreSuffix)
		for _, e := range byGroup[g] {
			fmt.Fprintf(bw, "%s,%s\n", e.Name, e.Endpoint)
		}
	}

	stampURL := layout.StampURL
	if stampURL == "" {
		stampURL = DefaultStampURL
	}
	generatedAt := layout.GeneratedAt
	if generatedAt.IsZero() {
		generatedAt = time.Now()
	}
	fmt.Fprintf(bw, "\n%s%s\n", updatedTitle, genreSuffix)
	fmt.Fprintf(bw, "%s,%s\n", generatedAt.Format(stampLayout), stampURL)

	return bw.Flush()
}
