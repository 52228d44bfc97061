package ranking

import (
	"sort"

	"iptv-ranker/internal/candidate"
)

// Channel is one ranked channel and its kept streams, fastest first.
type Channel struct {
	Name    string            `json:"name"`
	Listed  bool              `json:"listed"`
	Streams []candidate.Entry `json:"streams"`
}

// Ranking is the ordered result of Rank.
type Ranking struct {
	channels []Channel
}

// Rank orders the validated entries of entries against tmpl and keeps at
// most k streams per channel. k <= 0 keeps every stream. Entries that are not
// validated are ignored. A nil template treats every channel as unlisted.
func Rank(entries []candidate.Entry, tmpl *Template, k int) Ranking {
	var order []string
	byName := make(map[string][]candidate.Entry)
	for _, e := range entries {
		if !e.Validated() {
			continue
		}
		if _, seen := byName[e.Name]; !seen {
			order = append(order, e.Name)
		}
		byName[e.Name] = append(byName[e.Name], e)
	}

	channels := make([]Channel, 0, len(order))
	for _, name := range order {
		streams := byName[name]
		sort.SliceStable(streams, func(i, j int) bool {
			if streams[i].Latency != streams[j].Latency {
				return streams[i].Latency < streams[j].Latency
			}
			return streams[i].Seq < streams[j].Seq
		})
		if k > 0 && len(streams) > k {
			streams = streams[:k]
		}
		_, listed := tmpl.Position(name)
		channels = append(channels, Channel{Name: name, Listed: listed, Streams: streams})
	}

	// Unlisted channels share one position past the template; the stable sort
	// keeps their first-seen order.
	sort.SliceStable(channels, func(i, j int) bool {
		return rankOf(tmpl, channels[i].Name) < rankOf(tmpl, channels[j].Name)
	})

	return Ranking{channels: channels}
}

func rankOf(tmpl *Template, name string) int {
	if pos, ok := tmpl.Position(name); ok {
		return pos
	}
	return tmpl.Len()
}

// Channels returns the ranked channels.
func (r Ranking) Channels() []Channel {
	out := make([]Channel, len(r.channels))
	copy(out, r.channels)
	return out
}

// Entries returns every kept stream, channel by channel.
func (r Ranking) Entries() []candidate.Entry {
	var out []candidate.Entry
	for _, ch := range r.channels {
		out = append(out, ch.Streams...)
	}
	return out
}

// Fastest returns the first stream of every channel.
func (r Ranking) Fastest() []candidate.Entry {
	out := make([]candidate.Entry, 0, len(r.channels))
	for _, ch := range r.channels {
		if len(ch.Streams) > 0 {
			out = append(out, ch.Streams[0])
		}
	}
	return out
}

// Unlisted returns the names of ranked channels the template does not name,
// in output order.
func (r Ranking) Unlisted() []string {
	var out []string
	for _, ch := range r.channels {
		if !ch.Listed {
			out = append(out, ch.Name)
		}
	}
	return out
}

// Len returns the number of channels.
func (r Ranking) Len() int {
	return len(r.channels)
}
