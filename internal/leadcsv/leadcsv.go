// Package leadcsv reads uploaded lead batches and writes scored results as CSV.
package leadcsv

import (
	"encoding/csv"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/sells-group/leadscore/internal/model"
)

const utf8BOM = "\ufeff"

// ParseFile parses an uploaded lead file, picking the format from the file
// name. Files ending in .xlsx are read as workbooks, anything else as CSV.
func ParseFile(name string, r io.Reader) ([]model.Lead, error) {
	if strings.EqualFold(filepath.Ext(name), ".xlsx") {
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, eris.Wrap(err, "leadcsv: read workbook")
		}
		return ParseXLSX(data)
	}
	return Parse(r)
}

// Parse reads a CSV with a header row into leads keyed by header name.
// Header names are trimmed and lowercased. Short rows leave trailing columns
// absent; blank rows are skipped. A header-only file yields zero leads.
// UTF-16 input with a byte order mark is decoded, as spreadsheet exports
// often produce it.
func Parse(r io.Reader) ([]model.Lead, error) {
	decoded := transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder()))
	reader := csv.NewReader(decoded)
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return nil, eris.New("leadcsv: empty file")
	}
	if err != nil {
		return nil, eris.Wrap(err, "leadcsv: read header")
	}

	cols := normalizeHeader(header)
	if len(cols) == 0 {
		return nil, eris.New("leadcsv: header has no columns")
	}

	leads := []model.Lead{}
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, eris.Wrap(err, "leadcsv: read row")
		}
		if lead, ok := toLead(cols, row); ok {
			leads = append(leads, lead)
		}
	}

	return leads, nil
}

// toLead maps a row onto the normalized columns. Blank rows are rejected.
func toLead(cols, row []string) (model.Lead, bool) {
	if blankRow(row) {
		return nil, false
	}
	lead := make(model.Lead, len(cols))
	for i, col := range cols {
		if col == "" || i >= len(row) {
			continue
		}
		lead[col] = row[i]
	}
	return lead, true
}

func normalizeHeader(header []string) []string {
	cols := make([]string, len(header))
	named := 0
	for i, h := range header {
		if i == 0 {
			h = strings.TrimPrefix(h, utf8BOM)
		}
		cols[i] = strings.ToLower(strings.TrimSpace(h))
		if cols[i] != "" {
			named++
		}
	}
	if named == 0 {
		return nil
	}
	return cols
}

func blankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// resultHeader is the column order of exported results.
var resultHeader = []string{"name", "role", "company", "intent", "score", "reasoning"}

// Write exports scored leads as CSV in the given order.
func Write(w io.Writer, leads []model.ScoredLead) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(resultHeader); err != nil {
		return eris.Wrap(err, "leadcsv: write header")
	}
	for _, l := range leads {
		rec := []string{
			l.Name,
			l.Role,
			l.Company,
			string(l.Intent),
			strconv.Itoa(l.Score),
			l.Reasoning,
		}
		if err := cw.Write(rec); err != nil {
			return eris.Wrap(err, "leadcsv: write row")
		}
	}
	cw.Flush()
	return eris.Wrap(cw.Error(), "leadcsv: flush")
}
