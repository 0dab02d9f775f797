package extract

import (
	"html"
	"regexp"
	"strings"
)

var (
	scriptRe   = regexp.MustCompile(`(?is)<script\b[^>]*>.*?</script>`)
	styleRe    = regexp.MustCompile(`(?is)<style\b[^>]*>.*?</style>`)
	noscriptRe = regexp.MustCompile(`(?is)<noscript\b[^>]*>.*?</noscript>`)
	commentRe  = regexp.MustCompile(`(?s)<!--.*?-->`)

	// hiddenRes remove elements whose opening tag marks them invisible.
	// One pattern per tag because RE2 has no backreferences; the non-greedy
	// close means nested same-tag markup ends the cut early, which is the
	// accepted looseness of regex scraping.
	hiddenRes = buildHiddenRes()

	tagRe   = regexp.MustCompile(`<[^>]*>`)
	spaceRe = regexp.MustCompile(`[ \t\r\f]+`)
	blankRe = regexp.MustCompile(`\n{2,}`)

	titleRe   = regexp.MustCompile(`(?is)<title[^>]*>(.*?)</title>`)
	h1Re      = regexp.MustCompile(`(?is)<h1[^>]*>(.*?)</h1>`)
	headingRe = regexp.MustCompile(`(?i)<h[1-6][^>]*>`)
	liRe      = regexp.MustCompile(`(?is)<li[^>]*>(.*?)</li>`)
	logoImgRe = regexp.MustCompile(`(?i)<img[^>]*logo[^>]*>`)
	altAttrRe = regexp.MustCompile(`(?i)alt\s*=\s*"([^"]+)"`)
)

func buildHiddenRes() []*regexp.Regexp {
	tags := []string{"div", "span", "section", "aside", "p", "ul", "li", "footer", "nav"}
	res := make([]*regexp.Regexp, 0, len(tags))
	for _, tag := range tags {
		res = append(res, regexp.MustCompile(
			`(?is)<`+tag+`\b[^>]*(?:\shidden\b|display:\s*none|visibility:\s*hidden)[^>]*>.*?</`+tag+`>`))
	}
	return res
}

// cleanHTML strips scripts, styles, comments, and hidden elements while
// keeping the remaining markup intact for structural helpers.
func cleanHTML(markup string) string {
	markup = scriptRe.ReplaceAllString(markup, " ")
	markup = styleRe.ReplaceAllString(markup, " ")
	markup = noscriptRe.ReplaceAllString(markup, " ")
	markup = commentRe.ReplaceAllString(markup, " ")
	for _, re := range hiddenRes {
		markup = re.ReplaceAllString(markup, " ")
	}
	return markup
}

// htmlText reduces markup to visible text: tags removed, entities decoded,
// whitespace collapsed, block-ish tags turned into line breaks.
func htmlText(markup string) string {
	for _, tag := range []string{"</p>", "</div>", "</li>", "</h1>", "</h2>", "</h3>", "</h4>", "</h5>", "</h6>", "<br>", "<br/>", "<br />"} {
		markup = strings.ReplaceAll(markup, tag, tag+"\n")
	}
	text := tagRe.ReplaceAllString(markup, " ")
	text = html.UnescapeString(text)
	text = spaceRe.ReplaceAllString(text, " ")

	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}
	text = strings.Join(lines, "\n")
	text = blankRe.ReplaceAllString(text, "\n")
	return strings.TrimSpace(text)
}

// pageTitle returns the <title> contents, entity-decoded and trimmed.
func pageTitle(markup string) string {
	m := titleRe.FindStringSubmatch(markup)
	if m == nil {
		return ""
	}
	return inlineText(m[1])
}

// inlineText flattens an inline fragment: tags out, entities decoded,
// whitespace collapsed to single spaces.
func inlineText(fragment string) string {
	s := html.UnescapeString(tagRe.ReplaceAllString(fragment, " "))
	s = spaceRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// titleVenueName extracts a venue name from a page title by taking the
// longest delimiter-separated segment ("Home | Sunny Acres Farm" keeps the
// farm, not the nav label).
func titleVenueName(title string) string {
	if title == "" {
		return ""
	}
	best := ""
	for _, seg := range strings.FieldsFunc(title, func(r rune) bool {
		return r == '|' || r == '—' || r == '–' || r == '·'
	}) {
		seg = strings.TrimSpace(seg)
		if len(seg) > len(best) {
			best = seg
		}
	}
	return best
}

// firstHeading returns the first <h1> text.
func firstHeading(markup string) string {
	m := h1Re.FindStringSubmatch(markup)
	if m == nil {
		return ""
	}
	return inlineText(m[1])
}

// logoAltText returns the alt text of the first logo-looking image.
func logoAltText(markup string) string {
	img := logoImgRe.FindString(markup)
	if img == "" {
		return ""
	}
	m := altAttrRe.FindStringSubmatch(img)
	if m == nil {
		return ""
	}
	alt := strings.TrimSpace(html.UnescapeString(m[1]))
	if strings.EqualFold(alt, "logo") {
		return ""
	}
	return strings.TrimSpace(strings.TrimSuffix(strings.TrimSuffix(alt, "Logo"), "logo"))
}

// metaContent returns the content attribute of a meta tag matched by its
// name or property attribute. Both attribute orders are handled.
func metaContent(markup, name string) string {
	q := regexp.QuoteMeta(name)
	nameFirst := regexp.MustCompile(`(?is)<meta[^>]*(?:name|property)\s*=\s*["']` + q + `["'][^>]*content\s*=\s*["']([^"']*)["']`)
	if m := nameFirst.FindStringSubmatch(markup); m != nil {
		return strings.TrimSpace(html.UnescapeString(m[1]))
	}
	contentFirst := regexp.MustCompile(`(?is)<meta[^>]*content\s*=\s*["']([^"']*)["'][^>]*(?:name|property)\s*=\s*["']` + q + `["']`)
	if m := contentFirst.FindStringSubmatch(markup); m != nil {
		return strings.TrimSpace(html.UnescapeString(m[1]))
	}
	return ""
}

// listItems returns the cleaned text of each <li> in the markup, bounded
// to plausible label lengths.
func listItems(markup string) []string {
	var items []string
	for _, m := range liRe.FindAllStringSubmatch(markup, maxSectionItems) {
		item := inlineText(m[1])
		if len(item) < minItemLen || len(item) > maxItemLen {
			continue
		}
		items = append(items, item)
	}
	return items
}

const (
	maxSectionItems = 12
	maxSectionLen   = 2500
	minItemLen      = 3
	maxItemLen      = 80
)

// sectionAfter returns the markup window following the first occurrence of
// any keyword, cut at the next heading tag or maxSectionLen.
func sectionAfter(markup string, keywords ...string) string {
	lower := strings.ToLower(markup)
	for _, kw := range keywords {
		idx := strings.Index(lower, kw)
		if idx < 0 {
			continue
		}
		rest := markup[idx+len(kw):]
		if m := headingRe.FindStringIndex(rest); m != nil {
			rest = rest[:m[0]]
		}
		if len(rest) > maxSectionLen {
			rest = rest[:maxSectionLen]
		}
		return rest
	}
	return ""
}

// sectionItems scrapes a labeled section: list items first, then a
// delimiter split of the section's text.
func sectionItems(markup string, keywords ...string) []string {
	sec := sectionAfter(markup, keywords...)
	if sec == "" {
		return nil
	}
	if items := listItems(sec); len(items) > 0 {
		return items
	}
	return splitDelimited(htmlText(sec))
}

// splitDelimited breaks free text on list-ish delimiters and keeps
// label-sized pieces.
func splitDelimited(text string) []string {
	parts := strings.FieldsFunc(text, func(r rune) bool {
		return r == ',' || r == ';' || r == '•' || r == '|' || r == '\n'
	})
	var items []string
	for _, p := range parts {
		p = strings.TrimSpace(strings.Trim(p, ".-–"))
		if len(p) < minItemLen || len(p) > maxItemLen {
			continue
		}
		items = append(items, p)
		if len(items) >= maxSectionItems {
			break
		}
	}
	return items
}
