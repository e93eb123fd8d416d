package leadcsv

import (
	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/leadscore/internal/model"
)

// ParseXLSX reads leads from the first sheet of a workbook. The first row is
// the header and follows the same rules as Parse.
func ParseXLSX(data []byte) ([]model.Lead, error) {
	f, err := xlsx.OpenBinary(data)
	if err != nil {
		return nil, eris.Wrap(err, "leadcsv: open workbook")
	}
	if len(f.Sheets) == 0 {
		return nil, eris.New("leadcsv: workbook has no sheets")
	}

	sheet := f.Sheets[0]
	if len(sheet.Rows) == 0 {
		return nil, eris.New("leadcsv: empty file")
	}

	cols := normalizeHeader(rowToStrings(sheet.Rows[0]))
	if len(cols) == 0 {
		return nil, eris.New("leadcsv: header has no columns")
	}

	leads := []model.Lead{}
	for _, row := range sheet.Rows[1:] {
		if lead, ok := toLead(cols, rowToStrings(row)); ok {
			leads = append(leads, lead)
		}
	}
	return leads, nil
}

func rowToStrings(row *xlsx.Row) []string {
	if row == nil {
		return nil
	}
	cells := make([]string, len(row.Cells))
	for j, cell := range row.Cells {
		cells[j] = cell.String()
	}
	return cells
}
