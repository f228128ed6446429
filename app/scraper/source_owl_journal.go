package scraper

import (
	"bytes"
	"context"
	"log/slog"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"

	"github.com/sebastiankulla/bielefeld-events/app/sources"
)

// owlJournal scrapes the OWL Journal regional news portal. The event calendar
// is a WordPress listing; when the HTML yields nothing the site's RSS feed for
// the same section is parsed instead.
type owlJournal struct {
	cfg        *sources.Config
	feedParser *gofeed.Parser
}

func newOwlJournal(cfg *sources.Config) Source {
	return &owlJournal{cfg: cfg, feedParser: gofeed.NewParser()}
}

func (s *owlJournal) Name() string { return s.cfg.Source.ID }

func (s *owlJournal) Scrape(ctx context.Context, client *Client) ([]Event, error) {
	path := s.cfg.Settings.Paths[0]
	doc, err := client.GetDocument(ctx, s.cfg.Source.BaseURL+path)
	if err != nil {
		return nil, err
	}

	var events []Event
	doc.Find("article, .event-item, .veranstaltung").Each(func(_ int, card *goquery.Selection) {
		if event, ok := s.parseCard(card); ok {
			events = append(events, event)
		}
	})

	if len(events) == 0 {
		feedEvents, err := s.scrapeFeed(ctx, client, path)
		if err != nil {
			slog.Warn("RSS fallback failed", "source", s.Name(), "error", err)
		} else {
			events = feedEvents
		}
	}

	return finish(events, s.cfg.Defaults), nil
}

func (s *owlJournal) parseCard(card *goquery.Selection) (Event, bool) {
	title := firstText(card, "h2", "h3", ".entry-title", ".title")
	if title == "" {
		return Event{}, false
	}

	date, ok := dateFromElement(card, "time", ".event-date", ".date", ".datum")
	if !ok {
		return Event{}, false
	}

	base := s.cfg.Source.BaseURL
	return Event{
		Title:       title,
		DateStart:   date,
		Source:      s.Name(),
		URL:         absoluteURL(base, linkHref(card, "a[href]")),
		Description: firstText(card, "p", ".entry-summary", ".excerpt"),
		Location:    firstText(card, ".event-location", ".location", ".ort"),
		ImageURL:    resolveImage(card, base),
	}, true
}

// scrapeFeed parses the WordPress RSS feed for the calendar section. Items
// whose title or summary contains a parseable event date become records; the
// publication date is deliberately ignored, it is not the event date.
func (s *owlJournal) scrapeFeed(ctx context.Context, client *Client, path string) ([]Event, error) {
	data, err := client.Get(ctx, s.cfg.Source.BaseURL+path+"feed/")
	if err != nil {
		return nil, err
	}

	feed, err := s.feedParser.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	var events []Event
	for _, item := range feed.Items {
		if item == nil || item.Title == "" {
			continue
		}
		date, ok := FindDate(item.Title + "\n" + item.Description)
		if !ok {
			continue
		}
		event := Event{
			Title:       item.Title,
			DateStart:   date,
			Source:      s.Name(),
			URL:         item.Link,
			Description: item.Description,
		}
		if item.Image != nil {
			event.ImageURL = item.Image.URL
		}
		if len(item.Categories) > 0 {
			event.Category = item.Categories[0]
			event.Tags = item.Categories
		}
		events = append(events, event)
	}

	return events, nil
}
