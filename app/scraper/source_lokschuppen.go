package scraper

import (
	"context"
	"log/slog"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/sebastiankulla/bielefeld-events/app/sources"
)

var (
	reLokschuppenDate = regexp.MustCompile(`(\d{1,2}\.\d{1,2}\.\d{4})`)
	// Ticket status suffixes appended to the details text
	reTicketStatus = regexp.MustCompile(`(?i)(?:Tickets\s*kaufen|Ausverkauft|Abgesagt|Nur Abendkasse|Verschoben.*?)$`)
)

// lokschuppen scrapes Lokschuppen Bielefeld (event venue). The /event/ page
// lists events in a custom layout: div.event containers with an image link
// and a span.details whose first div holds "<title> <DD.MM.YYYY> [<status>]".
type lokschuppen struct {
	cfg *sources.Config
}

func newLokschuppen(cfg *sources.Config) Source {
	return &lokschuppen{cfg: cfg}
}

func (s *lokschuppen) Name() string { return s.cfg.Source.ID }

func (s *lokschuppen) Scrape(ctx context.Context, client *Client) ([]Event, error) {
	var events []Event
	seen := make(map[string]bool)

	doc, err := client.GetDocument(ctx, s.cfg.Source.BaseURL+s.cfg.Settings.Paths[0])
	if err != nil {
		slog.Warn("Failed to fetch event listing", "source", s.Name(), "error", err)
	} else {
		for _, event := range s.extractEventDivs(doc) {
			key := dedupKey(event)
			if !seen[key] {
				seen[key] = true
				events = append(events, event)
			}
		}
	}

	// Secondary listing page ships JSON-LD
	if len(events) == 0 && len(s.cfg.Settings.Paths) > 1 {
		doc, err := client.GetDocument(ctx, s.cfg.Source.BaseURL+s.cfg.Settings.Paths[1])
		if err != nil {
			return nil, err
		}
		events = eventsFromJSONLD(doc, s.Name())
	}

	return finish(events, s.cfg.Defaults), nil
}

func (s *lokschuppen) extractEventDivs(doc *goquery.Document) []Event {
	archive := doc.Find(".events-archive, .events-grid").First()
	if archive.Length() == 0 {
		return nil
	}

	var events []Event
	archive.Find("div.event").Each(func(_ int, card *goquery.Selection) {
		if event, ok := s.parseEventDiv(card); ok {
			events = append(events, event)
		}
	})
	return events
}

func (s *lokschuppen) parseEventDiv(card *goquery.Selection) (Event, bool) {
	details := card.Find("span.details").First()
	if details.Length() == 0 {
		return Event{}, false
	}
	fullText := strings.TrimSpace(details.Find("div").First().Text())
	if fullText == "" {
		return Event{}, false
	}

	// The details div holds title, date and optional status text in one run.
	title := fullText
	description := ""
	dateLoc := reLokschuppenDate.FindStringIndex(fullText)
	if dateLoc != nil {
		title = strings.TrimSpace(fullText[:dateLoc[0]])
		after := strings.TrimSpace(fullText[dateLoc[1]:])
		after = strings.TrimSpace(reTicketStatus.ReplaceAllString(after, ""))
		if after != "" && after != title {
			description = after
		}
	}
	if len([]rune(title)) < 2 {
		return Event{}, false
	}

	date, ok := FindDate(fullText)
	if !ok {
		date, ok = FindDate(card.Text())
	}
	if !ok {
		return Event{}, false
	}

	href := linkHref(card, "a.img", `a[href*="/event/"]`, "a[href]")

	return Event{
		Title:       title,
		DateStart:   date,
		Source:      s.Name(),
		URL:         absoluteURL(s.cfg.Source.BaseURL, href),
		Description: description,
		ImageURL:    resolveImage(card, s.cfg.Source.BaseURL),
	}, true
}
