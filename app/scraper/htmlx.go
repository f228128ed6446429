package scraper

import (
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// Shared cascading extraction strategies. Each source composes only the
// strategies its markup needs; selector lists are tried as alternatives and
// the first structural match wins.

// Label patterns like "Ort: Forum Bielefeld" in visible text. The value runs
// up to the next line break.
var reLocationLabel = regexp.MustCompile(`(?i)(?:Veranstaltungsort|Ort|Wo)\s*:\s*([^\n\r]+)`)

const minLabelValueLen = 3

// firstText returns the trimmed text of the first selector that matches and
// yields non-empty text.
func firstText(sel *goquery.Selection, selectors ...string) string {
	for _, s := range selectors {
		if text := strings.TrimSpace(sel.Find(s).First().Text()); text != "" {
			return text
		}
	}
	return ""
}

// firstAttr returns the first non-empty value of attr across the selectors.
func firstAttr(sel *goquery.Selection, attr string, selectors ...string) string {
	for _, s := range selectors {
		if v, ok := sel.Find(s).First().Attr(attr); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

// linkHref returns the href of the first matching anchor.
func linkHref(sel *goquery.Selection, selectors ...string) string {
	for _, s := range selectors {
		if href, ok := sel.Find(s).First().Attr("href"); ok && href != "" {
			return href
		}
	}
	return ""
}

// imageSrc returns the image URL of the first matching <img>, preferring
// lazy-loading attributes over src.
func imageSrc(sel *goquery.Selection) string {
	img := sel.Find("img").First()
	if img.Length() == 0 {
		return ""
	}
	for _, attr := range []string{"data-lazy-src", "data-src", "src"} {
		if v, ok := img.Attr(attr); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

// firstNonEmptyLine returns the first non-empty trimmed line of text.
func firstNonEmptyLine(text string) string {
	for _, line := range strings.Split(text, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			return line
		}
	}
	return ""
}

// locationFromText scans visible text for location label patterns
// ("Ort:", "Veranstaltungsort:", "Wo:"). Values shorter than three
// characters are rejected.
func locationFromText(text string) string {
	m := reLocationLabel.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	value := strings.TrimSpace(m[1])
	if len([]rune(value)) < minLabelValueLen {
		return ""
	}
	return value
}

// extractLocation applies the location strategies in priority order:
// structural selectors first, then the free-text label scan.
func extractLocation(card *goquery.Selection) string {
	location := firstText(card,
		".event-location", ".location", ".venue", ".ort",
		"[class*='location']", "[class*='venue']", "[class*='ort']")
	if location != "" {
		return location
	}
	return locationFromText(card.Text())
}

// dateFromElement reads a date from the first matching element, preferring
// a machine-readable datetime attribute over the visible text.
func dateFromElement(card *goquery.Selection, selectors ...string) (time.Time, bool) {
	for _, s := range selectors {
		el := card.Find(s).First()
		if el.Length() == 0 {
			continue
		}
		if attr, ok := el.Attr("datetime"); ok {
			if t, ok := ParseDateTime(attr); ok {
				return t, true
			}
		}
		text := strings.TrimSpace(el.Text())
		if t, ok := ParseDateTime(text); ok {
			return t, true
		}
		if t, ok := FindDate(text); ok {
			return t, true
		}
	}
	return time.Time{}, false
}

// anchorScan is the last-resort strategy for link-only layouts: anchors whose
// enclosing context contains a parseable date become minimal records.
func anchorScan(doc *goquery.Document, base, source string) []Event {
	var events []Event
	seen := make(map[string]bool)

	doc.Find("a[href]").Each(func(_ int, link *goquery.Selection) {
		href, _ := link.Attr("href")
		if href == "" || href == "#" {
			return
		}
		title := strings.TrimSpace(link.Text())
		if len([]rune(title)) < 3 || seen[title] {
			return
		}

		parent := link.Parent()
		if parent.Length() == 0 {
			return
		}
		date, ok := FindDate(parent.Text())
		if !ok {
			return
		}

		seen[title] = true
		events = append(events, Event{
			Title:     title,
			DateStart: date,
			Source:    source,
			URL:       absoluteURL(base, href),
			ImageURL:  resolveImage(link, base),
		})
	})

	return events
}

func resolveImage(sel *goquery.Selection, base string) string {
	if src := imageSrc(sel); src != "" {
		return absoluteURL(base, src)
	}
	return ""
}
