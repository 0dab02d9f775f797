package extract

import (
	"context"
	"net/url"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// stubDescription is the generic overview written when no tier could reach
// the site.
const stubDescription = "Venue details could not be extracted from the website."

// stubStrategy synthesizes a minimal record from nothing but the URL. It
// never fails, which makes any ladder ending in it total.
type stubStrategy struct{}

func (stubStrategy) Name() string { return "stub" }

func (stubStrategy) Extract(_ context.Context, site string) (*Extraction, error) {
	return StubRecord(site), nil
}

// StubRecord builds the minimal extraction for an unreachable site: a
// domain-derived venue name, a generic description, and the failed marker.
func StubRecord(site string) *Extraction {
	origin, err := originURL(site)
	if err != nil {
		origin = strings.TrimSpace(site)
	}
	return &Extraction{
		VenueName:   VenueNameFromDomain(site),
		Description: stubDescription,
		SourceURL:   origin,
		Failed:      true,
	}
}

// VenueNameFromDomain derives a display name from a URL's host: scheme and
// www. stripped, TLD dropped, separators spaced out, words title-cased, and
// a "Venue" suffix. "https://sunny-acres-farm.test" becomes
// "Sunny Acres Farm Venue".
func VenueNameFromDomain(site string) string {
	host := hostOf(site)
	host = strings.TrimPrefix(host, "www.")
	if i := strings.LastIndex(host, "."); i > 0 {
		host = host[:i]
	}
	host = strings.Map(func(r rune) rune {
		if r == '-' || r == '_' || r == '.' {
			return ' '
		}
		return r
	}, host)
	host = strings.Join(strings.Fields(host), " ")
	if host == "" {
		return "Unknown Venue"
	}
	return cases.Title(language.English).String(host) + " Venue"
}

func hostOf(site string) string {
	raw := strings.TrimSpace(site)
	if raw == "" {
		return ""
	}
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		// Last resort: strip scheme and path by hand.
		raw = strings.TrimPrefix(strings.TrimPrefix(strings.TrimSpace(site), "https://"), "http://")
		if i := strings.IndexAny(raw, "/?#"); i >= 0 {
			raw = raw[:i]
		}
		return raw
	}
	return u.Hostname()
}
