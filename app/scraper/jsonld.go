package scraper

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// JSON-LD structured-data fallback. Sites embedding schema.org metadata in
// <script type="application/ld+json"> blocks are parsed directly when no
// event containers are found in the markup.

var ldEventTypes = map[string]bool{
	"Event":        true,
	"MusicEvent":   true,
	"TheaterEvent": true,
	"DanceEvent":   true,
}

// Trailing commas before a closing bracket are a common authoring mistake in
// hand-maintained JSON-LD; they are stripped before decoding.
var reTrailingComma = regexp.MustCompile(`,\s*([}\]])`)

type ldEvent struct {
	Type        string          `json:"@type"`
	Name        string          `json:"name"`
	StartDate   string          `json:"startDate"`
	EndDate     string          `json:"endDate"`
	Description string          `json:"description"`
	URL         string          `json:"url"`
	Location    json.RawMessage `json:"location"`
	Image       json.RawMessage `json:"image"`
}

type ldPlace struct {
	Name    string          `json:"name"`
	Address json.RawMessage `json:"address"`
}

type ldAddress struct {
	Name            string `json:"name"`
	StreetAddress   string `json:"streetAddress"`
	AddressLocality string `json:"addressLocality"`
}

// sanitizeJSONLD strips trailing commas so that slightly malformed blocks
// still decode.
func sanitizeJSONLD(data []byte) []byte {
	return reTrailingComma.ReplaceAll(data, []byte("$1"))
}

// eventsFromJSONLD extracts events from all JSON-LD script blocks in the
// document. Blocks that still fail to decode after sanitization are skipped.
func eventsFromJSONLD(doc *goquery.Document, source string) []Event {
	var events []Event

	doc.Find(`script[type="application/ld+json"]`).Each(func(_ int, script *goquery.Selection) {
		data := sanitizeJSONLD([]byte(script.Text()))

		for _, item := range decodeLDItems(data) {
			if !ldEventTypes[item.Type] {
				continue
			}
			date, ok := ParseDateTime(item.StartDate)
			if !ok {
				continue
			}

			event := Event{
				Title:       strings.TrimSpace(item.Name),
				DateStart:   date,
				Source:      source,
				URL:         item.URL,
				Description: item.Description,
				Location:    ldLocation(item.Location),
				ImageURL:    ldImage(item.Image),
			}
			if end, ok := ParseDateTime(item.EndDate); ok {
				event.DateEnd = &end
			}
			events = append(events, event)
		}
	})

	return events
}

// decodeLDItems accepts a single object or an array of objects.
func decodeLDItems(data []byte) []ldEvent {
	var list []ldEvent
	if err := json.Unmarshal(data, &list); err == nil {
		return list
	}

	var single ldEvent
	if err := json.Unmarshal(data, &single); err == nil {
		return []ldEvent{single}
	}
	return nil
}

// ldLocation handles the three shapes a schema.org location takes in the
// wild: a plain string, a Place object (whose address may itself be a string
// or a PostalAddress object), or an array of either.
func ldLocation(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s)
	}

	var list []json.RawMessage
	if err := json.Unmarshal(raw, &list); err == nil {
		if len(list) == 0 {
			return ""
		}
		return ldLocation(list[0])
	}

	var place ldPlace
	if err := json.Unmarshal(raw, &place); err != nil {
		return ""
	}

	parts := []string{}
	if place.Name != "" {
		parts = append(parts, place.Name)
	}
	if addr := ldAddressString(place.Address); addr != "" {
		parts = append(parts, addr)
	}
	return strings.Join(parts, ", ")
}

func ldAddressString(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s)
	}

	var addr ldAddress
	if err := json.Unmarshal(raw, &addr); err != nil {
		return ""
	}

	var parts []string
	for _, p := range []string{addr.Name, addr.StreetAddress, addr.AddressLocality} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}

// ldImage handles image as a string, an array (first entry) or an ImageObject.
func ldImage(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}

	var list []json.RawMessage
	if err := json.Unmarshal(raw, &list); err == nil {
		if len(list) == 0 {
			return ""
		}
		return ldImage(list[0])
	}

	var obj struct {
		URL string `json:"url"`
	}
	if err := json.Unmarshal(raw, &obj); err == nil {
		return obj.URL
	}
	return ""
}
