package scraper

import (
	"context"
	"log/slog"

	"github.com/PuerkitoBio/goquery"

	"github.com/sebastiankulla/bielefeld-events/app/sources"
)

// bielefeldMarketing scrapes the official Bielefeld Marketing website. The
// site uses a Drupal masonry layout; generic card selectors and JSON-LD serve
// as fallbacks.
type bielefeldMarketing struct {
	cfg *sources.Config
}

func newBielefeldMarketing(cfg *sources.Config) Source {
	return &bielefeldMarketing{cfg: cfg}
}

func (s *bielefeldMarketing) Name() string { return s.cfg.Source.ID }

func (s *bielefeldMarketing) Scrape(ctx context.Context, client *Client) ([]Event, error) {
	var events []Event
	seen := make(map[string]bool)

	for _, path := range s.cfg.Settings.Paths {
		doc, err := client.GetDocument(ctx, s.cfg.Source.BaseURL+path)
		if err != nil {
			slog.Warn("Failed to fetch listing page", "source", s.Name(), "path", path, "error", err)
			continue
		}

		for _, event := range s.extract(doc) {
			key := dedupKey(event)
			if !seen[key] {
				seen[key] = true
				events = append(events, event)
			}
		}
	}

	return finish(events, s.cfg.Defaults), nil
}

func (s *bielefeldMarketing) extract(doc *goquery.Document) []Event {
	var events []Event

	// Drupal masonry layout first
	containers := doc.Find(".veranstaltung.masonry-view-item")
	if containers.Length() == 0 {
		containers = doc.Find("article, .event-item, .event-card, .event, " +
			".veranstaltung, .termin, .termin-item, " +
			"[class*='event'], [class*='veranstaltung'], " +
			".card, .list-item, .teaser")
	}

	containers.Each(func(_ int, card *goquery.Selection) {
		if event, ok := s.parseCard(card); ok {
			events = append(events, event)
		}
	})

	if len(events) == 0 {
		events = eventsFromJSONLD(doc, s.Name())
	}

	return events
}

func (s *bielefeldMarketing) parseCard(card *goquery.Selection) (Event, bool) {
	// Headings are searched separately so that a wrapping <a> or Drupal
	// field div is not matched before the actual heading.
	title := firstText(card, "h2", "h3", "h4")
	if title == "" {
		title = firstText(card, ".titel", ".title", "[class*='title']", "[class*='titel']")
	}
	if title == "" {
		title = firstText(card, "a[href]")
	}
	if len([]rune(title)) < 3 {
		return Event{}, false
	}

	date, ok := dateFromElement(card, "time", ".datum", ".date", "[class*='date']", "[class*='datum']")
	if !ok {
		date, ok = FindDate(card.Text())
	}
	if !ok {
		return Event{}, false
	}

	base := s.cfg.Source.BaseURL

	// Masonry layouts put images in a sibling wrapper, not inside the text
	// container.
	image := imageSrc(card)
	if image == "" && card.Parent().Length() > 0 {
		image = imageSrc(card.Parent())
	}

	return Event{
		Title:     title,
		DateStart: date,
		Source:    s.Name(),
		URL:       absoluteURL(base, linkHref(card, "a[href]")),
		Description: firstText(card, "p", ".beschreibung", ".text", ".teaser-text",
			"[class*='desc']", "[class*='text']"),
		Location: extractLocation(card),
		Category: firstText(card, ".kategorie", ".category", "[class*='category']", "[class*='kategorie']"),
		ImageURL: absoluteURL(base, image),
	}, true
}
