package scraper

import (
	"context"

	"github.com/PuerkitoBio/goquery"

	"github.com/sebastiankulla/bielefeld-events/app/sources"
)

// nrzp scrapes Nr.z.P. Bielefeld (subculture venue). The Elementor-based page
// has no reliable card markup, so the cascade falls back to JSON-LD and
// finally to scanning anchors with a dated context.
type nrzp struct {
	cfg *sources.Config
}

func newNrzp(cfg *sources.Config) Source {
	return &nrzp{cfg: cfg}
}

func (s *nrzp) Name() string { return s.cfg.Source.ID }

func (s *nrzp) Scrape(ctx context.Context, client *Client) ([]Event, error) {
	doc, err := client.GetDocument(ctx, s.cfg.Source.BaseURL+s.cfg.Settings.Paths[0])
	if err != nil {
		return nil, err
	}

	var events []Event
	doc.Find("article, .event-item, .event-card, .event, "+
		"[class*='event'], .elementor-post, "+
		".card, .entry, .wp-block-post").Each(func(_ int, card *goquery.Selection) {
		if event, ok := s.parseCard(card); ok {
			events = append(events, event)
		}
	})

	if len(events) == 0 {
		events = eventsFromJSONLD(doc, s.Name())
	}
	if len(events) == 0 {
		events = anchorScan(doc, s.cfg.Source.BaseURL, s.Name())
	}

	return finish(events, s.cfg.Defaults), nil
}

func (s *nrzp) parseCard(card *goquery.Selection) (Event, bool) {
	title := firstText(card, "h2", "h3", "h4", ".title", ".event-title",
		"[class*='title']", "a[href]")
	if len([]rune(title)) < 3 {
		return Event{}, false
	}

	date, ok := dateFromElement(card, "time", ".date", ".datum", "[class*='date']", "[class*='datum']")
	if !ok {
		date, ok = FindDate(card.Text())
	}
	if !ok {
		return Event{}, false
	}

	base := s.cfg.Source.BaseURL
	return Event{
		Title:       title,
		DateStart:   date,
		Source:      s.Name(),
		URL:         absoluteURL(base, linkHref(card, "a[href]")),
		Description: firstText(card, "p", ".description", ".text", "[class*='desc']"),
		Category:    s.labelCategory(card),
		ImageURL:    resolveImage(card, base),
	}, true
}

// labelCategory picks the first short label-like span as the category.
func (s *nrzp) labelCategory(card *goquery.Selection) string {
	category := ""
	card.Find("span, .category, [class*='category'], [class*='tag']").
		EachWithBreak(func(_ int, el *goquery.Selection) bool {
			text := firstNonEmptyLine(el.Text())
			if text != "" && len([]rune(text)) < 30 {
				category = text
				return false
			}
			return true
		})
	return category
}
