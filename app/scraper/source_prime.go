package scraper

import (
	"context"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/sebastiankulla/bielefeld-events/app/sources"
)

// Detail URLs end in a slug like "event-name-06-03-2026".
var rePrimeSlugDate = regexp.MustCompile(`-(\d{2})-(\d{2})-(\d{4})$`)

// prime scrapes Prime Club Bielefeld (nightclub). The Disco2App framework
// renders events as div.event-snippet cards with calendar spans holding a
// year-less day and month; the year is taken from the URL slug when present,
// otherwise inferred.
type prime struct {
	cfg *sources.Config
	now func() time.Time
}

func newPrime(cfg *sources.Config) Source {
	return &prime{cfg: cfg, now: time.Now}
}

func (s *prime) Name() string { return s.cfg.Source.ID }

func (s *prime) Scrape(ctx context.Context, client *Client) ([]Event, error) {
	doc, err := client.GetDocument(ctx, s.cfg.Source.BaseURL+s.cfg.Settings.Paths[0])
	if err != nil {
		return nil, err
	}

	var events []Event
	doc.Find("div.event-snippet").Each(func(_ int, card *goquery.Selection) {
		if event, ok := s.parseSnippet(card); ok {
			events = append(events, event)
		}
	})

	return finish(events, s.cfg.Defaults), nil
}

func (s *prime) parseSnippet(card *goquery.Selection) (Event, bool) {
	title := firstText(card, "h4.title", "h4", "h3.title")
	if len([]rune(title)) < 3 {
		return Event{}, false
	}

	href := linkHref(card, `a[href*="/events/"]`, "a[href]")

	date, ok := s.snippetDate(card, href)
	if !ok {
		date, ok = slugDate(href)
	}
	if !ok {
		return Event{}, false
	}

	return Event{
		Title:     title,
		DateStart: date,
		Source:    s.Name(),
		URL:       absoluteURL(s.cfg.Source.BaseURL, href),
		ImageURL:  resolveImage(card, s.cfg.Source.BaseURL),
	}, true
}

// snippetDate reads the calendar spans. The year is not part of the snippet:
// the URL slug supplies it when available, otherwise the closest future
// occurrence is assumed.
func (s *prime) snippetDate(card *goquery.Selection, href string) (time.Time, bool) {
	dayText := firstText(card, ".event-date-cal-day")
	monthText := strings.TrimSuffix(strings.ToLower(firstText(card, ".event-date-cal-month")), ".")
	if dayText == "" || monthText == "" {
		return time.Time{}, false
	}

	day, err := strconv.Atoi(dayText)
	if err != nil {
		return time.Time{}, false
	}
	month, ok := germanMonths[monthText]
	if !ok {
		return time.Time{}, false
	}

	if m := rePrimeSlugDate.FindStringSubmatch(href); m != nil {
		year, _ := strconv.Atoi(m[3])
		return makeDate(year, month, day, 0, 0)
	}
	return ResolveYearless(day, int(month), 0, 0, s.now())
}

func slugDate(href string) (time.Time, bool) {
	m := rePrimeSlugDate.FindStringSubmatch(href)
	if m == nil {
		return time.Time{}, false
	}
	day, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	year, _ := strconv.Atoi(m[3])
	return makeDate(year, time.Month(month), day, 0, 0)
}
