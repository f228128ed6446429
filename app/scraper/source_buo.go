package scraper

import (
	"context"
	"log/slog"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/sebastiankulla/bielefeld-events/app/sources"
)

// Dates like "So., 01.03.2026 19:30 Uhr"
var reBuoDate = regexp.MustCompile(
	`(?i)(?:Mo|Di|Mi|Do|Fr|Sa|So)\.,?\s*` +
		`(\d{1,2})\.(\d{1,2})\.(\d{4})\s+` +
		`(\d{1,2}):(\d{2})\s*(?:Uhr)?`)

// buo scrapes Bühnen und Orchester der Stadt Bielefeld (theater & orchestra).
// The calendar pages use a Tailwind grid: each event sits in a leaf-level
// div.grid with an h2 link to the detail page; the date is in the left-hand
// column text.
type buo struct {
	cfg *sources.Config
}

func newBuo(cfg *sources.Config) Source {
	return &buo{cfg: cfg}
}

func (s *buo) Name() string { return s.cfg.Source.ID }

func (s *buo) Scrape(ctx context.Context, client *Client) ([]Event, error) {
	var events []Event
	seen := make(map[string]bool)

	for _, path := range s.cfg.Settings.Paths {
		doc, err := client.GetDocument(ctx, s.cfg.Source.BaseURL+path)
		if err != nil {
			slog.Warn("Failed to fetch calendar page", "source", s.Name(), "path", path, "error", err)
			continue
		}

		for _, event := range s.extractGrid(doc) {
			key := dedupKey(event)
			if !seen[key] {
				seen[key] = true
				events = append(events, event)
			}
		}
	}

	return finish(events, s.cfg.Defaults), nil
}

func (s *buo) extractGrid(doc *goquery.Document) []Event {
	var events []Event

	doc.Find("div.grid").Each(func(_ int, grid *goquery.Selection) {
		if grid.Find(`a[href*="/theater/veranstaltung/"], a[href*="/philharmoniker/veranstaltung/"]`).Length() == 0 {
			return
		}

		// Only leaf-level event grids; parent wrappers contain several
		// event links through their nested grids.
		eventLinksInside := 0
		grid.Find("div.grid").Each(func(_ int, inner *goquery.Selection) {
			if inner.Find(`a[href*="/veranstaltung/"]`).Length() > 0 {
				eventLinksInside++
			}
		})
		if eventLinksInside > 1 {
			return
		}

		if event, ok := s.parseGridEvent(grid); ok {
			events = append(events, event)
		}
	})

	return events
}

func (s *buo) parseGridEvent(grid *goquery.Selection) (Event, bool) {
	titleLink := grid.Find(`h2 a[href*="/veranstaltung/"]`).First()
	title := strings.TrimSpace(titleLink.Text())
	if len([]rune(title)) < 3 {
		return Event{}, false
	}

	href, _ := titleLink.Attr("href")

	text := strings.TrimSpace(grid.Text())
	date, ok := s.parseDate(text)
	if !ok {
		date, ok = FindDate(text)
	}
	if !ok {
		return Event{}, false
	}

	location := extractLocation(grid)

	// Subtitle / author line
	description := firstText(grid, "h3")

	return Event{
		Title:       title,
		DateStart:   date,
		Source:      s.Name(),
		URL:         absoluteURL(s.cfg.Source.BaseURL, href),
		Description: description,
		Location:    location,
		Category:    s.tagCategory(grid),
	}, true
}

func (s *buo) parseDate(text string) (time.Time, bool) {
	m := reBuoDate.FindStringSubmatch(text)
	if m == nil {
		return time.Time{}, false
	}
	day, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	year, _ := strconv.Atoi(m[3])
	hour, _ := strconv.Atoi(m[4])
	minute, _ := strconv.Atoi(m[5])
	return makeDate(year, time.Month(month), day, hour, minute)
}

// tagCategory joins the short list-item tags ("Schauspiel", "Premiere").
func (s *buo) tagCategory(grid *goquery.Selection) string {
	var tags []string
	grid.Find("ul li").Each(func(_ int, li *goquery.Selection) {
		text := strings.TrimSpace(li.Text())
		if text != "" && len([]rune(text)) < 30 {
			tags = append(tags, text)
		}
	})
	return strings.Join(tags, " / ")
}
