package scraper

import (
	"context"

	"github.com/PuerkitoBio/goquery"

	"github.com/sebastiankulla/bielefeld-events/app/sources"
)

// stereo scrapes Stereo Bielefeld (club). The program page ships complete
// JSON-LD, so structured data is the primary strategy and the HTML cards are
// the fallback.
type stereo struct {
	cfg *sources.Config
}

func newStereo(cfg *sources.Config) Source {
	return &stereo{cfg: cfg}
}

func (s *stereo) Name() string { return s.cfg.Source.ID }

func (s *stereo) Scrape(ctx context.Context, client *Client) ([]Event, error) {
	doc, err := client.GetDocument(ctx, s.cfg.Source.BaseURL+s.cfg.Settings.Paths[0])
	if err != nil {
		return nil, err
	}

	events := eventsFromJSONLD(doc, s.Name())
	for i := range events {
		events[i].Description = truncate(events[i].Description, 500)
	}

	if len(events) == 0 {
		doc.Find("article, .event-item, .event-card, .event, "+
			"[class*='event'], .card, .entry").Each(func(_ int, card *goquery.Selection) {
			if event, ok := s.parseCard(card); ok {
				events = append(events, event)
			}
		})
	}

	return finish(events, s.cfg.Defaults), nil
}

func (s *stereo) parseCard(card *goquery.Selection) (Event, bool) {
	title := firstText(card, "h2", "h3", "h4", ".title", "a[href]")
	if len([]rune(title)) < 3 {
		return Event{}, false
	}

	date, ok := dateFromElement(card, "time", ".date", ".datum", "[class*='date']")
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
		ImageURL:  resolveImage(card, base),
	}, true
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
