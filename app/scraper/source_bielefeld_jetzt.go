package scraper

import (
	"context"

	"github.com/PuerkitoBio/goquery"

	"github.com/sebastiankulla/bielefeld-events/app/sources"
)

// bielefeldJetzt scrapes the bielefeld-jetzt.de event listing.
type bielefeldJetzt struct {
	cfg *sources.Config
}

func newBielefeldJetzt(cfg *sources.Config) Source {
	return &bielefeldJetzt{cfg: cfg}
}

func (s *bielefeldJetzt) Name() string { return s.cfg.Source.ID }

func (s *bielefeldJetzt) Scrape(ctx context.Context, client *Client) ([]Event, error) {
	doc, err := client.GetDocument(ctx, s.cfg.Source.BaseURL+s.cfg.Settings.Paths[0])
	if err != nil {
		return nil, err
	}

	var events []Event
	doc.Find("article.event, .event-item, .event-card").Each(func(_ int, card *goquery.Selection) {
		if event, ok := s.parseCard(card); ok {
			events = append(events, event)
		}
	})

	return finish(events, s.cfg.Defaults), nil
}

func (s *bielefeldJetzt) parseCard(card *goquery.Selection) (Event, bool) {
	title := firstText(card, "h2", "h3", ".event-title", ".title")
	if title == "" {
		return Event{}, false
	}

	date, ok := dateFromElement(card, "time", ".event-date", ".date")
	if !ok {
		return Event{}, false
	}

	base := s.cfg.Source.BaseURL
	return Event{
		Title:       title,
		DateStart:   date,
		Source:      s.Name(),
		URL:         absoluteURL(base, linkHref(card, "a[href]")),
		Description: firstText(card, "p", ".event-description", ".description"),
		Location:    firstText(card, ".event-location", ".location", ".venue"),
		Category:    firstText(card, ".event-category", ".category", ".tag"),
		ImageURL:    resolveImage(card, base),
	}, true
}
