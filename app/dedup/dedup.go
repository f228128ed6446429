// Package dedup merges stored events from different sources that describe
// the same real-world occurrence. Cross-source duplicate listings are common:
// the same concert is listed by the venue, the city tourism portal and a news
// aggregator. Without this step the published catalog would show
// near-identical triplicate entries.
package dedup

import (
	"regexp"
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"

	"github.com/sebastiankulla/bielefeld-events/app/database"
)

var (
	reNonAlnum    = regexp.MustCompile(`[^a-z0-9 ]+`)
	reMultiSpace  = regexp.MustCompile(`\s+`)
	combiningMark = unicode.Mn
)

// NormalizeTitle normalizes a title for duplicate comparison: lowercase,
// accents stripped (NFKD decomposition with combining marks dropped),
// non-alphanumeric characters replaced with spaces, whitespace collapsed.
func NormalizeTitle(title string) string {
	t := strings.ToLower(strings.TrimSpace(title))
	t = norm.NFKD.String(t)
	t = strings.Map(func(r rune) rune {
		if unicode.Is(combiningMark, r) {
			return -1
		}
		return r
	}, t)
	t = reNonAlnum.ReplaceAllString(t, " ")
	t = reMultiSpace.ReplaceAllString(t, " ")
	return strings.TrimSpace(t)
}

type groupKey struct {
	title string
	day   string
}

// Merge groups events by normalized title and calendar day and collapses each
// group into one merged event. The input order is the arrival order (ascending
// date_start, then insertion order); groups are not re-sorted internally. The
// output is ordered ascending by date_start.
func Merge(events []database.Event) []MergedEvent {
	groups := make(map[groupKey][]database.Event)
	var order []groupKey

	for _, event := range events {
		key := groupKey{
			title: NormalizeTitle(event.Title),
			day:   event.DateStart.Format("2006-01-02"),
		}
		if _, seen := groups[key]; !seen {
			order = append(order, key)
		}
		groups[key] = append(groups[key], event)
	}

	merged := make([]MergedEvent, 0, len(order))
	for _, key := range order {
		merged = append(merged, mergeGroup(groups[key]))
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].DateStart < merged[j].DateStart
	})

	return merged
}

// mergeGroup collapses one group: the primary record is the first in arrival
// order, provenance covers every member, the longest non-empty description
// wins and image/location/category/price take the first non-empty value.
func mergeGroup(group []database.Event) MergedEvent {
	primary := group[0]
	result := fromStored(primary)

	result.Sources = make([]SourceRef, 0, len(group))
	for _, event := range group {
		result.Sources = append(result.Sources, SourceRef{Source: event.Source, URL: event.URL})
	}

	if len(group) == 1 {
		return result
	}

	best := primary
	for _, event := range group[1:] {
		if len(event.Description) > len(best.Description) {
			best = event
		}
	}
	result.Description = best.Description

	result.ImageURL = firstNonEmpty(group, func(e database.Event) string { return e.ImageURL })
	result.Location = firstNonEmpty(group, func(e database.Event) string { return e.Location })
	result.Category = firstNonEmpty(group, func(e database.Event) string { return e.Category })
	result.Price = firstNonEmpty(group, func(e database.Event) string { return e.Price })

	return result
}

func firstNonEmpty(group []database.Event, field func(database.Event) string) string {
	for _, event := range group {
		if value := field(event); value != "" {
			return value
		}
	}
	return ""
}
