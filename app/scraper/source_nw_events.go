package scraper

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	readability "codeberg.org/readeck/go-readability"
	"github.com/PuerkitoBio/goquery"

	"github.com/sebastiankulla/bielefeld-events/app/sources"
)

// Cities in the OWL region covered by NW.de
var owlCities = []string{
	"Bielefeld", "Gütersloh", "Herford", "Höxter", "Detmold",
	"Minden", "Paderborn", "Lemgo", "Bad Salzuflen", "Bünde",
	"Löhne", "Rheda-Wiedenbrück", "Bad Oeynhausen", "Porta Westfalica",
	"Lübbecke", "Espelkamp", "Halle", "Warburg", "Brakel",
	"Bad Driburg", "Blomberg", "Bad Lippspringe", "Delbrück",
	"Salzkotten", "Verl", "Harsewinkel", "Rietberg",
	"Enger", "Spenge", "Vlotho", "Kirchlengern",
	"Oerlinghausen", "Lage", "Leopoldshöhe",
}

var (
	// Info box pattern: "Samstag, 7.3., 21 Uhr, Hechelei, Bielefeld;"
	reInfoBox = regexp.MustCompile(
		`(?i)(?:Montag|Dienstag|Mittwoch|Donnerstag|Freitag|Samstag|Sonntag)` +
			`[,\s]+(\d{1,2})\.(\d{1,2})\.` +
			`[,\s]+(\d{1,2})(?:\.(\d{2}))?\s*Uhr` +
			`[,\s]+([^,;.]+)` + // venue
			`[,\s]+([^,;.\n]+?)` + // city
			`\s*[;.\n]`)

	// Price from info box: "Karten (ab 52,50 €)" or "Karten (18,02 €)"
	reKartenPrice = regexp.MustCompile(`Karten\s*\(([^)]*?(\d+[,.]\d{2})\s*€)\)`)

	// Price fallback: "ab 52,50 Euro" / "18,02 €"
	rePrice = regexp.MustCompile(`((?:ab|Ab)\s+)?(\d+[,.]\d{2})\s*(?:Euro|€)`)

	// Weekday + full date: "Freitag, 6. März 2026, 19.30 Uhr"
	reWeekdayFull = regexp.MustCompile(
		`(?i)(?:Montag|Dienstag|Mittwoch|Donnerstag|Freitag|Samstag|Sonntag)` +
			`[,\s]+(\d{1,2})\.\s*([A-Za-zÄÖÜäöü]+)\s+(\d{4})` +
			`(?:[,\s]+(?:um\s+)?(\d{1,2})(?:[:.](\d{2}))?\s*Uhr)?`)

	// Keyword + date ("am 6. April 2026", "Beginn: 20.03.2026 19:30")
	reKeywordMonthDate = regexp.MustCompile(
		`(?i)(?:am|Ab|Beginn|Start|Einlass)[:\s]+(\d{1,2}\.\s*[A-Za-zÄÖÜäöü]+\s+\d{4}` +
			`(?:[,\s]+(?:um\s+)?\d{1,2}[:.]\d{2}\s*(?:Uhr)?)?)`)
	reKeywordNumericDate = regexp.MustCompile(
		`(?i)(?:am|Ab|Beginn|Start|Einlass)[:\s]+(\d{1,2}\.\d{1,2}\.\d{4}` +
			`(?:\s+\d{1,2}[:.]\d{2})?)`)

	// Venue patterns: "in der Rudolf-Oetker-Halle", "Ort: Forum Bielefeld"
	reVenue = regexp.MustCompile(
		`(?:in der|im|Ort:|Veranstaltungsort:)\s+` +
			`((?:[A-ZÄÖÜ][a-zäöüß]+[\s-]*){1,4}` +
			`(?:Halle|Forum|Theater|Museum|Stadion|Arena|Park|Kirche|Zentrum|Haus))`)
)

// Keyword to category mapping, checked in order against meta keywords and
// the leading body text.
var nwCategories = []struct {
	keyword  string
	category string
}{
	{"konzert", "Konzert"}, {"comedy", "Comedy"}, {"kabarett", "Comedy"},
	{"theater", "Theater"}, {"musical", "Musical"}, {"oper", "Oper"},
	{"kino", "Kino"}, {"film", "Kino"},
	{"party", "Party"}, {"festival", "Festival"},
	{"lesung", "Lesung"}, {"ausstellung", "Ausstellung"},
	{"kunst", "Kunst"},
}

// nwEvents harvests event articles from NW.de (Neue Westfälische). The portal
// publishes editorial articles about regional events; actual event details
// (date, venue, price) are embedded in the article body in structured info
// boxes like "Samstag, 7.3., 21 Uhr, Hechelei, Bielefeld;". Article URLs are
// collected from the events listing and the first pages of the Kultur
// section, then each article is visited individually.
type nwEvents struct {
	cfg *sources.Config
	now func() time.Time
}

// Number of Kultur section pages to scan (each has ~10 articles)
const nwKulturPages = 3

func newNwEvents(cfg *sources.Config) Source {
	return &nwEvents{cfg: cfg, now: time.Now}
}

func (s *nwEvents) Name() string { return s.cfg.Source.ID }

func (s *nwEvents) Scrape(ctx context.Context, client *Client) ([]Event, error) {
	var paths []string
	paths = append(paths, s.cfg.Settings.Paths...)
	for page := 1; page <= nwKulturPages; page++ {
		path := "/nachrichten/kultur/kultur"
		if page > 1 {
			path += fmt.Sprintf("?em_index_page=%d", page)
		}
		paths = append(paths, path)
	}

	seen := make(map[string]bool)
	var articleURLs []string
	for _, path := range paths {
		urls, err := s.collectArticleURLs(ctx, client, path)
		if err != nil {
			slog.Warn("Failed to fetch listing page", "source", s.Name(), "path", path, "error", err)
			continue
		}
		for _, u := range urls {
			if !seen[u] {
				seen[u] = true
				articleURLs = append(articleURLs, u)
			}
		}
	}

	slog.Debug("Collected article URLs", "source", s.Name(), "count", len(articleURLs))

	var events []Event
	for _, articleURL := range articleURLs {
		event, ok, err := s.parseArticle(ctx, client, articleURL)
		if err != nil {
			slog.Debug("Could not extract event from article", "source", s.Name(), "url", articleURL, "error", err)
			continue
		}
		if ok {
			events = append(events, event)
		}
	}

	return finish(events, s.cfg.Defaults), nil
}

// collectArticleURLs extracts article URLs from a listing page. NW article
// URLs look like /nachrichten/.../12345678_Title.html.
func (s *nwEvents) collectArticleURLs(ctx context.Context, client *Client, path string) ([]string, error) {
	doc, err := client.GetDocument(ctx, s.cfg.Source.BaseURL+path)
	if err != nil {
		return nil, err
	}

	var urls []string
	seen := make(map[string]bool)
	doc.Find("a[href]").Each(func(_ int, link *goquery.Selection) {
		href, _ := link.Attr("href")
		if strings.Contains(href, "/nachrichten/") && strings.HasSuffix(href, ".html") {
			full := absoluteURL(s.cfg.Source.BaseURL, href)
			if !seen[full] {
				seen[full] = true
				urls = append(urls, full)
			}
		}
	})

	return urls, nil
}

// parseArticle visits an article and extracts event information. The second
// return value is false when the article does not describe a concrete event.
func (s *nwEvents) parseArticle(ctx context.Context, client *Client, articleURL string) (Event, bool, error) {
	body, err := client.Get(ctx, articleURL)
	if err != nil {
		return Event{}, false, err
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return Event{}, false, err
	}

	title := firstText(doc.Selection, "h1", ".article-title", ".headline", "[itemprop='headline']")
	if len([]rune(title)) < 5 {
		return Event{}, false, nil
	}

	bodyText := s.articleText(body, articleURL, doc)

	// Strategy 1: structured info box (most reliable)
	if info, ok := s.parseInfoBox(bodyText); ok {
		return Event{
			Title:       title,
			DateStart:   info.date,
			Source:      s.Name(),
			URL:         articleURL,
			Description: s.description(doc),
			Location:    info.venue,
			City:        info.city,
			Category:    s.category(doc, bodyText),
			ImageURL:    s.image(doc),
			Price:       findKartenPrice(bodyText),
		}, true, nil
	}

	// Strategy 2: dates with German month names in the body text
	date, ok := s.findEventDate(bodyText)
	if !ok {
		return Event{}, false, nil
	}

	return Event{
		Title:       title,
		DateStart:   date,
		Source:      s.Name(),
		URL:         articleURL,
		Description: s.description(doc),
		Location:    findVenue(bodyText),
		City:        findCity(title, bodyText),
		Category:    s.category(doc, bodyText),
		ImageURL:    s.image(doc),
		Price:       findKartenPrice(bodyText),
	}, true, nil
}

// articleText extracts the readable article body. Readability strips
// navigation and related-article noise that would otherwise yield false date
// matches; the raw document text is the fallback.
func (s *nwEvents) articleText(body []byte, articleURL string, doc *goquery.Document) string {
	pageURL, err := url.Parse(articleURL)
	if err == nil {
		if article, err := readability.FromReader(bytes.NewReader(body), pageURL); err == nil {
			if text := strings.TrimSpace(article.TextContent); text != "" {
				return text
			}
		}
	}

	for _, sel := range []string{"article", ".article-body", ".article-content", ".story-body", "main"} {
		if el := doc.Find(sel).First(); el.Length() > 0 {
			return el.Text()
		}
	}
	return doc.Text()
}

type infoBox struct {
	date  time.Time
	venue string
	city  string
}

// parseInfoBox parses the structured info box. The short date format has no
// year, so the year is inferred; events already past yesterday's cutoff are
// skipped.
func (s *nwEvents) parseInfoBox(text string) (infoBox, bool) {
	now := s.now()
	cutoff := startOfDay(now).AddDate(0, 0, -1)

	for _, m := range reInfoBox.FindAllStringSubmatch(text, -1) {
		day, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		hour, _ := strconv.Atoi(m[3])
		minute := 0
		if m[4] != "" {
			minute, _ = strconv.Atoi(m[4])
		}

		date, ok := ResolveYearless(day, month, hour, minute, now)
		if !ok || date.Before(cutoff) {
			continue
		}

		return infoBox{
			date:  date,
			venue: strings.TrimSpace(m[5]),
			city:  strings.TrimSpace(m[6]),
		}, true
	}

	return infoBox{}, false
}

// findEventDate finds the actual event date (not the publication date) in
// article text, preferring explicit weekday and keyword-anchored dates over a
// bare month-name match.
func (s *nwEvents) findEventDate(text string) (time.Time, bool) {
	cutoff := startOfDay(s.now()).AddDate(0, 0, -1)

	if m := reWeekdayFull.FindStringSubmatch(text); m != nil {
		if date, ok := dateFromMonthNameMatch(m); ok && !date.Before(cutoff) {
			return date, true
		}
	}

	for _, re := range []*regexp.Regexp{reKeywordMonthDate, reKeywordNumericDate} {
		if m := re.FindStringSubmatch(text); m != nil {
			if date, ok := ParseDateTime(m[1]); ok && !date.Before(cutoff) {
				return date, true
			}
		}
	}

	// Generic future date with German month name (last resort)
	for _, m := range reMonthName.FindAllStringSubmatch(text, -1) {
		if date, ok := dateFromMonthNameMatch(m); ok && !date.Before(cutoff) {
			return date, true
		}
	}

	return time.Time{}, false
}

func (s *nwEvents) description(doc *goquery.Document) string {
	if content := firstAttr(doc.Selection, "content", `meta[name="description"]`); content != "" {
		return truncate(content, 300)
	}

	description := ""
	doc.Find("article p, .article-body p, main p").EachWithBreak(func(_ int, p *goquery.Selection) bool {
		text := strings.TrimSpace(p.Text())
		if len([]rune(text)) > 20 {
			description = truncate(text, 300)
			return false
		}
		return true
	})
	return description
}

func (s *nwEvents) image(doc *goquery.Document) string {
	if og := firstAttr(doc.Selection, "content", `meta[property="og:image"]`); og != "" {
		return og
	}
	img := doc.Find("article img[src], main img[src]").First()
	if img.Length() == 0 {
		return ""
	}
	for _, attr := range []string{"data-src", "src"} {
		if v, ok := img.Attr(attr); ok && v != "" {
			return absoluteURL(s.cfg.Source.BaseURL, v)
		}
	}
	return ""
}

func (s *nwEvents) category(doc *goquery.Document, text string) string {
	keywords := strings.ToLower(firstAttr(doc.Selection, "content", `meta[name="keywords"]`))
	combined := keywords + " " + strings.ToLower(truncate(text, 500))
	for _, entry := range nwCategories {
		if strings.Contains(combined, entry.keyword) {
			return entry.category
		}
	}
	return "Kultur"
}

func findCity(title, body string) string {
	combined := title + " " + truncate(body, 2000)
	for _, city := range owlCities {
		if strings.Contains(combined, city) {
			return city
		}
	}
	return "Bielefeld"
}

func findVenue(text string) string {
	if m := reVenue.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1])
	}
	return ""
}

// findKartenPrice extracts the ticket price, preferring the "Karten (...)"
// info-box form over a generic amount.
func findKartenPrice(text string) string {
	if m := reKartenPrice.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(strings.ReplaceAll(m[1], "€", "Euro"))
	}
	if m := rePrice.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1] + m[2] + " Euro")
	}
	return ""
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
