package salesforce

import (
	"context"
	"fmt"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/venue-scout/internal/model"
)

// SFLead is the subset of the Salesforce Lead object the promoter reads.
type SFLead struct {
	ID      string `json:"Id" salesforce:"Id"`
	Company string `json:"Company" salesforce:"Company"`
	Website string `json:"Website" salesforce:"Website"`
	Email   string `json:"Email" salesforce:"Email"`
	Phone   string `json:"Phone" salesforce:"Phone"`
}

// leadFields are the SOQL fields selected for Lead queries.
var leadFields = []string{"Id", "Company", "Website", "Email", "Phone"}

// maxReasonsInDescription caps how many scoring reasons land in the
// Salesforce Description field.
const maxReasonsInDescription = 5

// FindLeadByWebsite queries Salesforce for a Lead matching the given website.
// Returns nil if no lead is found.
func FindLeadByWebsite(ctx context.Context, c Client, website string) (*SFLead, error) {
	soql := fmt.Sprintf(
		"SELECT %s FROM Lead WHERE Website = '%s' LIMIT 1",
		strings.Join(leadFields, ", "),
		escapeSoql(website),
	)

	var leads []SFLead
	if err := c.Query(ctx, soql, &leads); err != nil {
		return nil, eris.Wrap(err, fmt.Sprintf("sf: find lead by website %s", website))
	}
	if len(leads) == 0 {
		return nil, nil
	}
	return &leads[0], nil
}

// UpsertLead pushes a scored venue lead into Salesforce: update when a Lead
// with the same website already exists, insert otherwise. Returns the
// Salesforce record id.
func UpsertLead(ctx context.Context, c Client, lead model.Lead) (string, error) {
	if lead.Name == "" {
		return "", eris.New("sf: lead name is required")
	}

	fields := leadToFields(lead)

	if lead.Website != "" {
		existing, err := FindLeadByWebsite(ctx, c, lead.Website)
		if err != nil {
			return "", err
		}
		if existing != nil {
			if err := c.UpdateOne(ctx, "Lead", existing.ID, fields); err != nil {
				return "", eris.Wrap(err, fmt.Sprintf("sf: upsert lead %s", lead.ID))
			}
			return existing.ID, nil
		}
	}

	id, err := c.InsertOne(ctx, "Lead", fields)
	if err != nil {
		return "", eris.Wrap(err, fmt.Sprintf("sf: upsert lead %s", lead.ID))
	}
	return id, nil
}

// leadToFields maps a venue lead onto Salesforce Lead fields. LastName is
// mandatory on the Lead object; the contact name fills it when present.
func leadToFields(lead model.Lead) map[string]any {
	lastName := lead.ContactName
	if lastName == "" {
		lastName = "Unknown"
	}

	fields := map[string]any{
		"Company":  lead.Name,
		"LastName": lastName,
	}
	if lead.Website != "" {
		fields["Website"] = lead.Website
	}
	if lead.ContactEmail != "" {
		fields["Email"] = lead.ContactEmail
	}
	if lead.ContactPhone != "" {
		fields["Phone"] = lead.ContactPhone
	}
	if desc := leadDescription(lead); desc != "" {
		fields["Description"] = desc
	}
	return fields
}

// leadDescription summarizes the score and its top reasons for the sales team.
func leadDescription(lead model.Lead) string {
	if lead.Score == nil {
		return ""
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Venue score: %d/100 (%s)", *lead.Score, lead.ScoreLabel)

	if lead.Enrichment != nil && lead.Enrichment.Score != nil {
		reasons := lead.Enrichment.Score.Reasons
		if len(reasons) > maxReasonsInDescription {
			reasons = reasons[:maxReasonsInDescription]
		}
		for _, r := range reasons {
			b.WriteString("\n- ")
			b.WriteString(r)
		}
	}
	return b.String()
}

// escapeSoql escapes single quotes in SOQL string literals to prevent injection.
func escapeSoql(s string) string {
	return strings.ReplaceAll(s, "'", "\\'")
}
