package scraper

import (
	"context"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/sebastiankulla/bielefeld-events/app/sources"
)

// bunkerUlmenwall scrapes the Bunker Ulmenwall program (sociocultural venue).
// The WordPress theme renders events as kb-post-list items; genre lines like
// "Jazz | Improvisation" carry the category.
type bunkerUlmenwall struct {
	cfg *sources.Config
}

func newBunkerUlmenwall(cfg *sources.Config) Source {
	return &bunkerUlmenwall{cfg: cfg}
}

func (s *bunkerUlmenwall) Name() string { return s.cfg.Source.ID }

func (s *bunkerUlmenwall) Scrape(ctx context.Context, client *Client) ([]Event, error) {
	doc, err := client.GetDocument(ctx, s.cfg.Source.BaseURL+s.cfg.Settings.Paths[0])
	if err != nil {
		return nil, err
	}

	var events []Event
	doc.Find(".kb-post-list-item, article, .event-item, .event, "+
		"[class*='event'], [class*='post-list-item'], "+
		".entry, .card, li.wp-block-post").Each(func(_ int, card *goquery.Selection) {
		if event, ok := s.parseCard(card); ok {
			events = append(events, event)
		}
	})

	if len(events) == 0 {
		events = eventsFromJSONLD(doc, s.Name())
	}

	return finish(events, s.cfg.Defaults), nil
}

func (s *bunkerUlmenwall) parseCard(card *goquery.Selection) (Event, bool) {
	title := firstText(card, "h2", "h3", "h4", ".title", ".entry-title",
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
		Description: firstText(card, "p", ".description", ".excerpt", "[class*='desc']", "[class*='excerpt']"),
		Category:    s.genreCategory(card),
		ImageURL:    resolveImage(card, base),
	}, true
}

// genreCategory picks the first genre from a "Jazz | Improvisation" paragraph.
func (s *bunkerUlmenwall) genreCategory(card *goquery.Selection) string {
	category := ""
	card.Find("p").EachWithBreak(func(_ int, p *goquery.Selection) bool {
		text := strings.TrimSpace(p.Text())
		if strings.Contains(text, "|") && len([]rune(text)) < 100 {
			category = strings.TrimSpace(strings.SplitN(text, "|", 2)[0])
			return false
		}
		return true
	})
	return category
}
