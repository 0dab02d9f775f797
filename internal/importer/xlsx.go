package importer

import (
	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/venue-scout/internal/model"
)

// ReadXLSX parses leads from the first sheet of an XLSX workbook using the
// same header mapping as ReadCSV.
func ReadXLSX(path string) ([]model.Lead, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "importer: open xlsx")
	}
	if len(f.Sheets) == 0 {
		return nil, eris.New("importer: xlsx has no sheets")
	}

	sheet := f.Sheets[0]
	if len(sheet.Rows) < 2 {
		return nil, nil // header only or empty
	}

	roles := headerRoles(rowToStrings(sheet.Rows[0]))
	if _, ok := roles["name"]; !ok {
		return nil, eris.New("importer: xlsx has no name column")
	}

	leads := make([]model.Lead, 0, len(sheet.Rows)-1)
	for _, row := range sheet.Rows[1:] {
		lead := leadFromRow(roles, rowToStrings(row))
		if lead.Name == "" {
			continue
		}
		leads = append(leads, lead)
	}
	return leads, nil
}

func rowToStrings(row *xlsx.Row) []string {
	cells := make([]string, len(row.Cells))
	for j, cell := range row.Cells {
		cells[j] = cell.String()
	}
	return cells
}
