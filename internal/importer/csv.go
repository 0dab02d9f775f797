package importer

import (
	"encoding/csv"
	"io"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/venue-scout/internal/model"
)

// columnRoles maps recognized header names (lowercased, trimmed) to lead
// fields. Unknown columns are ignored.
var columnRoles = map[string]string{
	"name":          "name",
	"venue":         "name",
	"venue name":    "name",
	"company":       "name",
	"website":       "website",
	"url":           "website",
	"domain":        "website",
	"address":       "address",
	"contact":       "contact_name",
	"contact name":  "contact_name",
	"email":         "email",
	"contact email": "email",
	"phone":         "phone",
	"contact phone": "phone",
}

// ReadCSV parses leads from a CSV stream. The first row is the header;
// column order is irrelevant. Rows without a name are dropped.
func ReadCSV(r io.Reader) ([]model.Lead, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, eris.Wrap(err, "importer: read csv")
	}
	if len(records) < 2 {
		return nil, nil // header only or empty
	}

	roles := headerRoles(records[0])
	if _, ok := roles["name"]; !ok {
		return nil, eris.New("importer: csv has no name column")
	}

	leads := make([]model.Lead, 0, len(records)-1)
	for _, row := range records[1:] {
		lead := leadFromRow(roles, row)
		if lead.Name == "" {
			continue
		}
		leads = append(leads, lead)
	}
	return leads, nil
}

// headerRoles resolves each recognized column role to its index. The first
// column claiming a role wins.
func headerRoles(header []string) map[string]int {
	roles := make(map[string]int, len(header))
	for i, h := range header {
		role, ok := columnRoles[strings.ToLower(strings.TrimSpace(h))]
		if !ok {
			continue
		}
		if _, taken := roles[role]; taken {
			continue
		}
		roles[role] = i
	}
	return roles
}

func leadFromRow(roles map[string]int, row []string) model.Lead {
	cell := func(role string) string {
		i, ok := roles[role]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	return model.Lead{
		Name:         cell("name"),
		Website:      cell("website"),
		Address:      cell("address"),
		ContactName:  cell("contact_name"),
		ContactEmail: cell("email"),
		ContactPhone: cell("phone"),
		Status:       model.LeadStatusNew,
	}
}
