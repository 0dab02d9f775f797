package notionlead

import (
	"context"
	"strings"

	"github.com/jomei/notionapi"
	"github.com/rotisserie/eris"

	"github.com/sells-group/venue-scout/internal/model"
)

// QueryAll fetches all pages from a Notion database, handling pagination.
// Rate limiting is enforced by the Client (3 req/s by default).
func QueryAll(ctx context.Context, c Client, dbID string, filter *notionapi.DatabaseQueryRequest) ([]notionapi.Page, error) {
	var all []notionapi.Page

	req := &notionapi.DatabaseQueryRequest{}
	if filter != nil {
		req.Filter = filter.Filter
		req.Sorts = filter.Sorts
		req.PageSize = filter.PageSize
	}

	for {
		resp, err := c.QueryDatabase(ctx, dbID, req)
		if err != nil {
			return nil, eris.Wrap(err, "notionlead: query all page")
		}

		all = append(all, resp.Results...)

		if !resp.HasMore {
			break
		}

		next := &notionapi.DatabaseQueryRequest{StartCursor: resp.NextCursor}
		if filter != nil {
			next.Filter = filter.Filter
			next.Sorts = filter.Sorts
			next.PageSize = filter.PageSize
		}
		req = next
	}

	return all, nil
}

// QueryVenueLeads fetches every page from the venue database and maps it to
// a lead. Pages without a name are dropped.
func QueryVenueLeads(ctx context.Context, c Client, dbID string) ([]model.Lead, error) {
	pages, err := QueryAll(ctx, c, dbID, nil)
	if err != nil {
		return nil, eris.Wrap(err, "notionlead: query venue leads")
	}

	leads := make([]model.Lead, 0, len(pages))
	for _, page := range pages {
		lead := LeadFromPage(page)
		if lead.Name == "" {
			continue
		}
		leads = append(leads, lead)
	}
	return leads, nil
}

// LeadFromPage maps a venue database page to a lead. Recognized properties:
// Name (title), Website (url), Address (rich text), Contact (rich text),
// Email (email), Phone (phone number).
func LeadFromPage(page notionapi.Page) model.Lead {
	lead := model.Lead{Status: model.LeadStatusNew}

	if prop, ok := page.Properties["Name"]; ok {
		if tp, ok := prop.(*notionapi.TitleProperty); ok {
			lead.Name = plainText(tp.Title)
		}
	}
	if prop, ok := page.Properties["Website"]; ok {
		if up, ok := prop.(*notionapi.URLProperty); ok {
			lead.Website = up.URL
		}
	}
	if prop, ok := page.Properties["Address"]; ok {
		if rtp, ok := prop.(*notionapi.RichTextProperty); ok {
			lead.Address = plainText(rtp.RichText)
		}
	}
	if prop, ok := page.Properties["Contact"]; ok {
		if rtp, ok := prop.(*notionapi.RichTextProperty); ok {
			lead.ContactName = plainText(rtp.RichText)
		}
	}
	if prop, ok := page.Properties["Email"]; ok {
		if ep, ok := prop.(*notionapi.EmailProperty); ok {
			lead.ContactEmail = ep.Email
		}
	}
	if prop, ok := page.Properties["Phone"]; ok {
		if pp, ok := prop.(*notionapi.PhoneNumberProperty); ok {
			lead.ContactPhone = pp.PhoneNumber
		}
	}

	return lead
}

func plainText(rts []notionapi.RichText) string {
	var b strings.Builder
	for _, rt := range rts {
		b.WriteString(rt.PlainText)
	}
	return strings.TrimSpace(b.String())
}
