// Package normalize cleans up entries scraped from public playlists before
// they reach the candidate store: group names are folded onto the listing's
// sections, a few channel names are canonicalized, and notice rows that
// sources embed as fake channels are dropped.
package normalize

import (
	"regexp"
	"strings"

	"iptv-ranker/internal/candidate"
)

var (
	newtvPattern  = regexp.MustCompile(`(?i)newtv`)
	noticePattern = regexp.MustCompile(`(?i)更新日期|日期|请阅读|yuanzl77\.github\.io`)
)

// groupAliases maps exact source group names to listing sections.
var groupAliases = map[string]string{
	"内蒙频道":    "地方频道",
	"浙江频道":    "地方频道",
	"上海频道":    "地方频道",
	"地方":      "地方频道",
	"广东频道":    "地方频道",
	"NewTv":   "数字频道",
	"数字":      "数字频道",
	"NewTV频道": "数字频道",
	"央视":      "央视频道",
	"动画频道":    "少儿频道",
	"港澳台频道":   "港·澳·台",
}

// nameAliases maps exact channel names to their canonical spelling.
var nameAliases = map[string]string{
	"CCTV5PLUS": "CCTV5+",
}

const noticeGroup = "公告"

// Apply returns the normalized entry and whether it should be kept.
func Apply(e candidate.Entry) (candidate.Entry, bool) {
	if strings.Contains(e.Endpoint, ".php") {
		return e, false
	}

	e.Group = Group(e.Group)
	e.Name = Name(e.Name)

	if e.Name == "" || noticePattern.MatchString(e.Name) || e.Group == noticeGroup {
		return e, false
	}
	return e, true
}

// Group folds a source group name onto a listing section.
func Group(group string) string {
	if alias, ok := groupAliases[group]; ok {
		return alias
	}
	if strings.Contains(group, "卫视") {
		return "卫视频道"
	}
	return group
}

// Name canonicalizes a channel name.
func Name(name string) string {
	name = newtvPattern.ReplaceAllString(strings.TrimSpace(name), "NewTv")
	if alias, ok := nameAliases[name]; ok {
		return alias
	}
	return name
}

// All applies Apply to entries and returns the kept ones with the number
// dropped.
func All(entries []candidate.Entry) ([]candidate.Entry, int) {
	kept := entries[:0:0]
	dropped := 0
	for _, e := range entries {
		if n, ok := Apply(e); ok {
			kept = append(kept, n)
		} else {
			dropped++
		}
	}
	return kept, dropped
}
