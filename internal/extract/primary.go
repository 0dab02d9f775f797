package extract

import (
	"context"
	"strings"
	"time"

	"github.com/rotisserie/eris"
)

// primaryStrategy is the cheap first attempt: one polite fetch of the
// site's origin, structured metadata first, then pattern matching over the
// cleaned markup.
type primaryStrategy struct {
	fetch     *fetcher
	userAgent string
	timeout   time.Duration
	minBody   int
}

func (s *primaryStrategy) Name() string { return "primary" }

func (s *primaryStrategy) Extract(ctx context.Context, site string) (*Extraction, error) {
	origin, err := originURL(site)
	if err != nil {
		return nil, err
	}

	body, err := s.fetch.get(ctx, origin, s.timeout, map[string]string{
		"User-Agent": s.userAgent,
		"Accept":     "text/html,application/xhtml+xml",
	})
	if err != nil {
		return nil, err
	}
	if len(body) < s.minBody {
		return nil, eris.Errorf("extract: primary: implausibly small response (%d bytes) from %s", len(body), origin)
	}

	raw := string(body)
	ex := &Extraction{SourceURL: origin}

	// Structured metadata lives in script tags, so it is read from the raw
	// markup before scripts are stripped.
	applyStructuredData(ex, raw)

	cleaned := cleanHTML(raw)
	text := htmlText(cleaned)

	if ex.VenueName == "" {
		ex.VenueName = metaContent(cleaned, "og:site_name")
	}
	if ex.VenueName == "" {
		ex.VenueName = titleVenueName(pageTitle(cleaned))
	}
	if ex.VenueName == "" {
		ex.VenueName = firstHeading(cleaned)
	}

	if ex.Description == "" {
		ex.Description = metaContent(cleaned, "description")
	}
	if ex.Description == "" {
		ex.Description = metaContent(cleaned, "og:description")
	}

	if ex.ContactEmail == "" {
		ex.ContactEmail = firstEmail(cleaned)
	}
	if ex.ContactPhone == "" {
		ex.ContactPhone = firstPhone(cleaned, text, false)
	}
	if ex.Address == "" {
		ex.Address = firstAddress(text, false)
	}
	ex.ContactName = firstContactName(text)

	if ex.Capacity == 0 {
		ex.Capacity = firstCapacity(text)
	}

	eventText := text
	if items := sectionItems(cleaned, eventSectionKeys...); len(items) > 0 {
		eventText += "\n" + strings.Join(items, ", ")
	}
	ex.EventTypes = detectEventTypes(eventText)

	ex.Amenities = sectionItems(cleaned, amenityKeywords...)
	ex.PricingInfo = sectionText(cleaned, pricingKeywords...)
	ex.PreferredCaterers = sectionItems(cleaned, catererKeywords...)
	ex.InHouseCatering = classifyCatering(text)

	return ex, nil
}
