package extract

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"
)

var jsonLDRe = regexp.MustCompile(`(?is)<script[^>]*type\s*=\s*["']application/ld\+json["'][^>]*>(.*?)</script>`)

// ldBlock is the subset of an ld+json description we care about. Address
// and capacity arrive in several shapes, so they unmarshal as any.
type ldBlock struct {
	Type        any       `json:"@type"`
	Graph       []ldBlock `json:"@graph"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Telephone   string    `json:"telephone"`
	Email       string    `json:"email"`
	Address     any       `json:"address"`
	Capacity    any       `json:"maximumAttendeeCapacity"`
}

// orgTypes are the @type values treated as describing the business itself.
var orgTypes = map[string]bool{
	"organization":  true,
	"localbusiness": true,
	"eventvenue":    true,
	"place":         true,
	"restaurant":    true,
	"foodservice":   true,
}

// applyStructuredData merges machine-readable metadata blocks into ex.
// Each block is unmarshalled independently so one malformed block never
// aborts the rest. Blocks typed as an organization win over untyped ones.
func applyStructuredData(ex *Extraction, markup string) {
	var org, anyNamed *ldBlock

	for _, m := range jsonLDRe.FindAllStringSubmatch(markup, -1) {
		for _, block := range decodeLDBlocks(m[1]) {
			if block.Name == "" && block.Description == "" && block.Telephone == "" {
				continue
			}
			if anyNamed == nil {
				b := block
				anyNamed = &b
			}
			if org == nil && isOrgType(block.Type) {
				b := block
				org = &b
			}
		}
	}

	chosen := org
	if chosen == nil {
		chosen = anyNamed
	}
	if chosen == nil {
		return
	}

	if ex.VenueName == "" {
		ex.VenueName = strings.TrimSpace(chosen.Name)
	}
	if ex.Description == "" {
		ex.Description = strings.TrimSpace(chosen.Description)
	}
	if ex.ContactPhone == "" {
		ex.ContactPhone = strings.TrimSpace(chosen.Telephone)
	}
	if ex.ContactEmail == "" {
		ex.ContactEmail = cleanEmail(strings.TrimPrefix(strings.TrimSpace(chosen.Email), "mailto:"))
	}
	if ex.Address == "" {
		ex.Address = ldAddress(chosen.Address)
	}
	if ex.Capacity == 0 {
		ex.Capacity = ldInt(chosen.Capacity)
	}
}

// decodeLDBlocks parses one script body, which may hold an object, an
// array, or a @graph wrapper. A parse failure yields nothing.
func decodeLDBlocks(raw string) []ldBlock {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}

	var single ldBlock
	if err := json.Unmarshal([]byte(raw), &single); err == nil {
		if len(single.Graph) > 0 {
			return single.Graph
		}
		return []ldBlock{single}
	}

	var list []ldBlock
	if err := json.Unmarshal([]byte(raw), &list); err == nil {
		return list
	}
	return nil
}

func isOrgType(t any) bool {
	switch v := t.(type) {
	case string:
		return orgTypes[strings.ToLower(v)]
	case []any:
		for _, item := range v {
			if s, ok := item.(string); ok && orgTypes[strings.ToLower(s)] {
				return true
			}
		}
	}
	return false
}

// ldAddress renders a string or PostalAddress-shaped value as one line.
func ldAddress(v any) string {
	switch a := v.(type) {
	case string:
		return strings.TrimSpace(a)
	case map[string]any:
		parts := make([]string, 0, 4)
		for _, key := range []string{"streetAddress", "addressLocality", "addressRegion", "postalCode"} {
			if s, ok := a[key].(string); ok && strings.TrimSpace(s) != "" {
				parts = append(parts, strings.TrimSpace(s))
			}
		}
		return strings.Join(parts, ", ")
	}
	return ""
}

// ldInt coerces a JSON number or numeric string to int.
func ldInt(v any) int {
	switch n := v.(type) {
	case float64:
		if n > 0 {
			return int(n)
		}
	case string:
		if i, err := strconv.Atoi(strings.TrimSpace(n)); err == nil && i > 0 {
			return i
		}
	}
	return 0
}
