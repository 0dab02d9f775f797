package extract

import (
	"context"
	"strings"
	"time"
)

// fallbackStrategy re-fetches with browser-style headers to defeat caching
// and naive bot blocking, then applies permissive variants of the same
// patterns over the whole page.
type fallbackStrategy struct {
	fetch     *fetcher
	userAgent string
	timeout   time.Duration
}

func (s *fallbackStrategy) Name() string { return "fallback" }

func (s *fallbackStrategy) Extract(ctx context.Context, site string) (*Extraction, error) {
	origin, err := originURL(site)
	if err != nil {
		return nil, err
	}

	body, err := s.fetch.get(ctx, origin, s.timeout, map[string]string{
		"User-Agent":      s.userAgent,
		"Accept":          "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8",
		"Accept-Language": "en-US,en;q=0.9",
		"Cache-Control":   "no-cache",
		"Pragma":          "no-cache",
	})
	if err != nil {
		return nil, err
	}

	raw := string(body)
	ex := &Extraction{SourceURL: origin}

	applyStructuredData(ex, raw)

	cleaned := cleanHTML(raw)
	text := htmlText(cleaned)

	// Name falls through to the page title, a logo's alt text, and finally
	// the domain itself, so a reachable page always yields some name.
	if ex.VenueName == "" {
		ex.VenueName = titleVenueName(pageTitle(cleaned))
	}
	if ex.VenueName == "" {
		ex.VenueName = logoAltText(raw)
	}
	if ex.VenueName == "" {
		ex.VenueName = firstHeading(cleaned)
	}
	if ex.VenueName == "" {
		ex.VenueName = VenueNameFromDomain(origin)
	}

	if ex.Description == "" {
		ex.Description = metaContent(cleaned, "description")
	}
	if ex.Description == "" {
		ex.Description = metaContent(cleaned, "og:description")
	}
	if ex.Description == "" {
		ex.Description = leadingText(text, 300)
	}

	if ex.ContactEmail == "" {
		ex.ContactEmail = firstEmail(cleaned)
	}
	if ex.ContactPhone == "" {
		ex.ContactPhone = firstPhone(cleaned, text, true)
	}
	if ex.Address == "" {
		ex.Address = firstAddress(text, true)
	}
	ex.ContactName = firstContactName(text)

	if ex.Capacity == 0 {
		ex.Capacity = firstCapacity(text)
	}

	// Full-page scans instead of section-scoped ones.
	ex.EventTypes = detectEventTypes(text)
	ex.Amenities = sectionItems(cleaned, amenityKeywords...)
	ex.PricingInfo = sectionText(cleaned, pricingKeywords...)
	if ex.PricingInfo == "" {
		ex.PricingInfo = dollarLine(text)
	}
	ex.PreferredCaterers = sectionItems(cleaned, catererKeywords...)
	ex.InHouseCatering = classifyCatering(text)

	return ex, nil
}

// leadingText returns the first substantive lines of visible text, up to
// maxLen bytes, as a description of last resort.
func leadingText(text string, maxLen int) string {
	var parts []string
	total := 0
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		// Navigation labels and button text are short; skip them.
		if len(line) < 40 {
			continue
		}
		parts = append(parts, line)
		total += len(line)
		if total >= maxLen {
			break
		}
	}
	out := strings.Join(parts, " ")
	if len(out) > maxLen {
		out = strings.TrimSpace(out[:maxLen])
	}
	return out
}

// dollarLine returns the first line mentioning a dollar figure.
func dollarLine(text string) string {
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if strings.Contains(line, "$") && len(line) >= 10 && len(line) <= 200 {
			return line
		}
	}
	return ""
}
