package extract

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanHTML_StripsInvisibleContent(t *testing.T) {
	t.Parallel()

	markup := `<html><head>
<script>var tracker = "secret";</script>
<style>.x { color: red }</style>
</head><body>
<!-- deploy marker -->
<noscript>enable javascript</noscript>
<div hidden>hidden attribute text</div>
<span style="display:none">inline hidden text</span>
<p style="visibility: hidden">invisible paragraph</p>
<p>Visible copy stays.</p>
</body></html>`

	text := htmlText(cleanHTML(markup))
	assert.Contains(t, text, "Visible copy stays.")
	assert.NotContains(t, text, "secret")
	assert.NotContains(t, text, "color: red")
	assert.NotContains(t, text, "deploy marker")
	assert.NotContains(t, text, "enable javascript")
	assert.NotContains(t, text, "hidden attribute text")
	assert.NotContains(t, text, "inline hidden text")
	assert.NotContains(t, text, "invisible paragraph")
}

func TestHTMLText_DecodesAndCollapses(t *testing.T) {
	t.Parallel()

	markup := `<p>Rosemary &amp; Rye</p><p>  spaced   out  </p><div>block</div>`
	got := htmlText(markup)
	assert.Equal(t, "Rosemary & Rye\nspaced out\nblock", got)
}

func TestPageTitle(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Grand Oak Hall", pageTitle(`<title> Grand Oak Hall </title>`))
	assert.Equal(t, "A &amp; B", pageTitle(`<title>A &amp;amp; B</title>`))
	assert.Empty(t, pageTitle(`<h1>no title tag</h1>`))
}

func TestTitleVenueName_KeepsLongestSegment(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"Home | Sunny Acres Farm", "Sunny Acres Farm"},
		{"Sunny Acres Farm — Weddings & Events Near Riverton", "Weddings & Events Near Riverton"},
		{"Cedar Loft Events", "Cedar Loft Events"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, titleVenueName(tt.in))
		})
	}
}

func TestFirstHeading(t *testing.T) {
	t.Parallel()

	markup := `<h1 class="hero"><span>Grand</span> Oak Hall</h1><h1>Second</h1>`
	assert.Equal(t, "Grand Oak Hall", firstHeading(markup))
	assert.Empty(t, firstHeading("<h2>only smaller headings</h2>"))
}

func TestLogoAltText(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Cedar Loft",
		logoAltText(`<img src="/img/logo.svg" alt="Cedar Loft Logo">`))
	assert.Empty(t, logoAltText(`<img src="/img/logo.svg" alt="logo">`),
		"a bare 'logo' alt carries no name")
	assert.Empty(t, logoAltText(`<img src="/img/hero.jpg" alt="Cedar Loft">`),
		"non-logo images are ignored")
}

func TestMetaContent_BothAttributeOrders(t *testing.T) {
	t.Parallel()

	nameFirst := `<meta name="description" content="A historic hall.">`
	contentFirst := `<meta content="A historic hall." name="description">`
	property := `<meta property="og:site_name" content="Grand Oak Hall">`

	assert.Equal(t, "A historic hall.", metaContent(nameFirst, "description"))
	assert.Equal(t, "A historic hall.", metaContent(contentFirst, "description"))
	assert.Equal(t, "Grand Oak Hall", metaContent(property, "og:site_name"))
	assert.Empty(t, metaContent(nameFirst, "og:site_name"))
}

func TestListItems_Bounds(t *testing.T) {
	t.Parallel()

	markup := `<ul>
<li>On-site parking</li>
<li><b>Bridal</b> suite</li>
<li>x</li>
<li>` + strings.Repeat("x", 100) + `</li>
</ul>`
	got := listItems(markup)
	assert.Equal(t, []string{"On-site parking", "Bridal suite"}, got)
}

func TestSectionAfter_CutsAtNextHeading(t *testing.T) {
	t.Parallel()

	markup := `<h2>Amenities</h2><ul><li>Parking</li></ul><h2>Pricing</h2><p>$100</p>`
	sec := sectionAfter(markup, "amenities")
	assert.Contains(t, sec, "Parking")
	assert.NotContains(t, sec, "$100")
	assert.Empty(t, sectionAfter(markup, "catering"))
}

func TestSectionItems_FallsBackToDelimiterSplit(t *testing.T) {
	t.Parallel()

	markup := `<h2>What we offer</h2><p>Tables, chairs; linens • a sound system</p><h2>Next</h2>`
	got := sectionItems(markup, "what we offer")
	assert.Equal(t, []string{"Tables", "chairs", "linens", "a sound system"}, got)
}

func TestSplitDelimited_BoundsAndTrim(t *testing.T) {
	t.Parallel()

	got := splitDelimited("Tables., chairs , x, linens")
	assert.Equal(t, []string{"Tables", "chairs", "linens"}, got)
}
