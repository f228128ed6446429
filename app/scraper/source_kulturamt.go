package scraper

import (
	"context"

	"github.com/PuerkitoBio/goquery"

	"github.com/sebastiankulla/bielefeld-events/app/sources"
)

// kulturamt scrapes the Kulturamt Bielefeld event calendar.
type kulturamt struct {
	cfg *sources.Config
}

func newKulturamt(cfg *sources.Config) Source {
	return &kulturamt{cfg: cfg}
}

func (s *kulturamt) Name() string { return s.cfg.Source.ID }

func (s *kulturamt) Scrape(ctx context.Context, client *Client) ([]Event, error) {
	doc, err := client.GetDocument(ctx, s.cfg.Source.BaseURL+s.cfg.Settings.Paths[0])
	if err != nil {
		return nil, err
	}

	var events []Event
	doc.Find("article, .event-item, .event-card, .event, "+
		".veranstaltung, .termin, [class*='event'], "+
		"[class*='veranstaltung'], [class*='termin'], "+
		".card, .entry, .list-item, .teaser").Each(func(_ int, card *goquery.Selection) {
		if event, ok := s.parseCard(card); ok {
			events = append(events, event)
		}
	})

	if len(events) == 0 {
		events = eventsFromJSONLD(doc, s.Name())
	}

	return finish(events, s.cfg.Defaults), nil
}

func (s *kulturamt) parseCard(card *goquery.Selection) (Event, bool) {
	title := firstText(card, "h2", "h3", "h4", ".title", ".titel",
		"[class*='title']", "[class*='titel']", "a[href]")
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
	return Event{
		Title:     title,
		DateStart: date,
		Source:    s.Name(),
		URL:       absoluteURL(base, linkHref(card, "a[href]")),
		Description: firstText(card, "p", ".beschreibung", ".text", ".description",
			"[class*='desc']", "[class*='text']"),
		Location: extractLocation(card),
		Category: firstText(card, ".kategorie", ".category", "[class*='category']", "[class*='kategorie']"),
		ImageURL: resolveImage(card, base),
	}, true
}
