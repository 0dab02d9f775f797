package extract

import (
	"regexp"
	"strconv"
	"strings"
)

// Contact patterns. The permissive variants belong to the fallback tier.
var (
	mailtoRe = regexp.MustCompile(`(?i)mailto:([^"'?\s<>]+)`)
	emailRe  = regexp.MustCompile(`[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`)

	telHrefRe    = regexp.MustCompile(`(?i)href\s*=\s*["']tel:([+\d\-().\s]+)["']`)
	phoneLabelRe = regexp.MustCompile(`(?i)(?:phone|tel|call us|call)[:.]?\s*((?:\+?1[-.\s]?)?\(?\d{3}\)?[-.\s]?\d{3}[-.\s]?\d{4})`)
	phoneRe      = regexp.MustCompile(`(?:\+?1[-.\s]?)?\(?\d{3}\)?[-.\s]?\d{3}[-.\s]?\d{4}`)
	phoneLooseRe = regexp.MustCompile(`\+?\d[\d\-().\s]{7,16}\d`)

	addressLabelRe = regexp.MustCompile(`(?i)address[:\s]\s*([^<\n]{10,150})`)
	streetRe       = regexp.MustCompile(`(?i)\b\d{1,5}\s+[A-Za-z0-9.'\- ]{2,50}\b(?:street|st|avenue|ave|road|rd|boulevard|blvd|drive|dr|lane|ln|way|court|ct|circle|cir|place|pl|highway|hwy|parkway|pkwy|trail|trl)\b\.?(?:,?\s*[A-Za-z.'\- ]{2,40},?\s*[A-Z]{2}\s*\d{5}(?:-\d{4})?)?`)
	poBoxRe        = regexp.MustCompile(`(?i)\bP\.?O\.?\s*Box\s+\d+[^<\n]{0,80}`)

	contactNameRe = regexp.MustCompile(`(?:(?i:contact|event manager|event coordinator|venue manager|venue coordinator|sales manager))\s*[:\-]\s*([A-Z][a-zA-Z'\-]+(?:\s+[A-Z][a-zA-Z'\-]+){1,2})`)

	capacityRe = regexp.MustCompile(`(?i)\b(?:capacity|accommodates?|seat(?:s|ing)?|hosts?|up to)\b\D{0,12}(\d{2,5})\s*(?:guests?|people|persons?|attendees?|seated|standing)?`)
)

// placeholderEmailParts filter out service, template, and asset addresses
// that match the email regex but never belong to the venue.
var placeholderEmailParts = []string{
	"example.",
	"yourdomain",
	"youremail",
	"your@",
	"email@",
	"test@",
	"no-reply",
	"noreply",
	"donotreply",
	"sentry.",
	"wixpress",
	"godaddy",
	"squarespace",
	"cloudflare",
	".png",
	".jpg",
	".jpeg",
	".gif",
	".svg",
	".webp",
	".css",
	".js",
}

// cleanEmail lowercases and vets one candidate address.
func cleanEmail(raw string) string {
	e := strings.ToLower(strings.TrimSpace(raw))
	if e == "" || !strings.Contains(e, "@") {
		return ""
	}
	for _, part := range placeholderEmailParts {
		if strings.Contains(e, part) {
			return ""
		}
	}
	if !emailRe.MatchString(e) {
		return ""
	}
	return e
}

// firstEmail prefers mailto: hrefs over bare in-text matches.
func firstEmail(markup string) string {
	for _, m := range mailtoRe.FindAllStringSubmatch(markup, 10) {
		if e := cleanEmail(m[1]); e != "" {
			return e
		}
	}
	for _, m := range emailRe.FindAllString(markup, 20) {
		if e := cleanEmail(m); e != "" {
			return e
		}
	}
	return ""
}

// firstPhone extracts a phone number, preferring tel: hrefs, then labeled
// numbers, then bare matches scored by surrounding context. The permissive
// mode accepts shorter international-ish sequences.
func firstPhone(markup, text string, permissive bool) string {
	if m := telHrefRe.FindStringSubmatch(markup); m != nil {
		if p := tidyPhone(m[1], permissive); p != "" {
			return p
		}
	}
	if m := phoneLabelRe.FindStringSubmatch(text); m != nil {
		if p := tidyPhone(m[1], permissive); p != "" {
			return p
		}
	}

	re := phoneRe
	if permissive {
		re = phoneLooseRe
	}
	matches := re.FindAllStringIndex(text, 10)
	if len(matches) == 0 {
		return ""
	}
	// Too many bare matches means a directory page, not a contact number.
	if !permissive && len(matches) > 5 {
		return ""
	}

	best, bestScore := "", -1000
	for _, idx := range matches {
		p := tidyPhone(text[idx[0]:idx[1]], permissive)
		if p == "" {
			continue
		}
		score := phoneContextScore(text, idx[0], idx[1])
		if best == "" || score > bestScore {
			best, bestScore = p, score
		}
	}
	return best
}

// phoneContextScore scores a match position by nearby keywords: contact-ish
// words boost, fax/support-ish words penalize. Searches ±100 chars.
func phoneContextScore(text string, start, end int) int {
	lo := max(start-100, 0)
	hi := min(end+100, len(text))
	window := strings.ToLower(text[lo:hi])
	score := 0
	for _, kw := range []string{"phone", "call", "tel", "contact", "reach us", "office"} {
		if strings.Contains(window, kw) {
			score++
		}
	}
	for _, kw := range []string{"fax", "toll-free", "toll free", "support", "helpline"} {
		if strings.Contains(window, kw) {
			score--
		}
	}
	return score
}

// tidyPhone trims a raw match and enforces a digit-count floor: 10 in
// strict mode, 7 in permissive mode.
func tidyPhone(raw string, permissive bool) string {
	p := strings.TrimSpace(raw)
	digits := 0
	for _, r := range p {
		if r >= '0' && r <= '9' {
			digits++
		}
	}
	minDigits := 10
	if permissive {
		minDigits = 7
	}
	if digits < minDigits || digits > 15 {
		return ""
	}
	return p
}

// firstAddress finds a street address via explicit labels first, then
// street-suffix patterns. Length bounds reject CSS and script noise.
func firstAddress(text string, permissive bool) string {
	if m := addressLabelRe.FindStringSubmatch(text); m != nil {
		if a := tidyAddress(m[1], permissive); a != "" {
			return a
		}
	}
	if m := streetRe.FindString(text); m != "" {
		if a := tidyAddress(m, permissive); a != "" {
			return a
		}
	}
	if permissive {
		if m := poBoxRe.FindString(text); m != "" {
			if a := tidyAddress(m, true); a != "" {
				return a
			}
		}
	}
	return ""
}

func tidyAddress(raw string, permissive bool) string {
	a := strings.TrimSpace(strings.Trim(strings.TrimSpace(raw), ".,;"))
	minLen, maxLen := 10, 150
	if permissive {
		minLen, maxLen = 8, 200
	}
	if len(a) < minLen || len(a) > maxLen {
		return ""
	}
	// Reject selector-ish noise that sneaks past the regex.
	if strings.ContainsAny(a, "{}<>=") {
		return ""
	}
	return a
}

// firstContactName pulls a person name from labeled contact lines.
func firstContactName(text string) string {
	m := contactNameRe.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(m[1])
}

// firstCapacity returns the first plausible guest-count figure.
func firstCapacity(text string) int {
	for _, m := range capacityRe.FindAllStringSubmatch(text, 5) {
		n, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		if n >= 10 && n <= 50000 {
			return n
		}
	}
	return 0
}

// eventTypeVocab maps page keywords to canonical singular labels. Keywords
// are singular substrings so plural page copy matches too; iterating the
// fixed table deduplicates and orders the output.
var eventTypeVocab = []struct {
	keyword string
	label   string
}{
	{"wedding", "Wedding"},
	{"corporate", "Corporate"},
	{"conference", "Conference"},
	{"reception", "Reception"},
	{"gala", "Gala"},
	{"banquet", "Banquet"},
	{"birthday", "Birthday"},
	{"anniversar", "Anniversary"},
	{"party", "Party"},
	{"parties", "Party"},
	{"meeting", "Meeting"},
	{"retreat", "Retreat"},
	{"fundraiser", "Fundraiser"},
	{"reunion", "Reunion"},
	{"shower", "Shower"},
	{"rehearsal dinner", "Rehearsal Dinner"},
}

// detectEventTypes scans text for the fixed event vocabulary, returning
// deduplicated singular labels in vocabulary order.
func detectEventTypes(text string) []string {
	lower := strings.ToLower(text)
	seen := make(map[string]bool)
	var types []string
	for _, v := range eventTypeVocab {
		if seen[v.label] {
			continue
		}
		if strings.Contains(lower, v.keyword) {
			seen[v.label] = true
			types = append(types, v.label)
		}
	}
	return types
}

// Catering phrasing. In-house phrases win over external ones.
var (
	inHousePhrases = []string{
		"in-house catering",
		"in house catering",
		"on-site catering",
		"onsite catering",
		"our culinary team",
		"our catering team",
		"our executive chef",
	}
	externalPhrases = []string{
		"outside caterers welcome",
		"outside caterers are welcome",
		"outside catering welcome",
		"outside catering is welcome",
		"external caterers",
		"preferred caterer",
		"approved caterer",
		"bring your own caterer",
		"caterer of your choice",
	}
)

// classifyCatering reads the page's catering stance. Nil means the page
// gave no signal either way.
func classifyCatering(text string) *bool {
	lower := strings.ToLower(text)
	for _, p := range inHousePhrases {
		if strings.Contains(lower, p) {
			v := true
			return &v
		}
	}
	for _, p := range externalPhrases {
		if strings.Contains(lower, p) {
			v := false
			return &v
		}
	}
	return nil
}

// Labeled-section keyword sets.
var (
	amenityKeywords  = []string{"amenities", "facilities", "features", "what we offer", "included in your rental"}
	pricingKeywords  = []string{"pricing", "rates", "packages", "rental fees", "investment"}
	catererKeywords  = []string{"preferred caterer", "approved caterer", "catering partners", "preferred vendors"}
	eventSectionKeys = []string{"events we host", "event types", "types of events", "occasions", "celebrations"}
)

// sectionText renders a labeled section's text, bounded for storage.
func sectionText(markup string, keywords ...string) string {
	sec := sectionAfter(markup, keywords...)
	if sec == "" {
		return ""
	}
	text := htmlText(sec)
	text = strings.TrimSpace(strings.ReplaceAll(text, "\n", " "))
	if len(text) < minItemLen {
		return ""
	}
	if len(text) > 300 {
		text = strings.TrimSpace(text[:300])
	}
	return text
}
