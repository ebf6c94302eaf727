package importer

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"studiobook/models"

	"github.com/xuri/excelize/v2"
)

// Positional column contract for imported sheets. Spreadsheet-derived and
// fragile by nature, so every access below is bounds-checked rather than
// assumed.
const (
	colSequence      = 0  // row sequence number, marks the data start boundary
	colClientName    = 2  // presence means "has a booking"
	colContact       = 4  // contact number
	colTimeLabel     = 5  // time range label, e.g. "9:00-9:30 am"
	colPackage       = 6  // package name
	colBasePrice     = 8  // monetary breakdown begins here
	colAddOns        = 9
	colDiscount      = 10
	colDownAmount    = 11
	colDownReference = 12
	colDownMethod    = 13
	colFullAmount    = 14
	colFullReference = 15
	colFullMethod    = 16
	// column 17 is a free-form remarks cell, not imported
)

// ParseSheet reads the first sheet of an xlsx workbook into import rows.
// Rows above the data boundary (the first row whose sequence column parses
// as a number) are headers and are ignored.
func ParseSheet(r io.Reader) ([]models.ImportRow, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}

	var out []models.ImportRow
	inData := false
	for i, cells := range rows {
		if !inData {
			if _, err := strconv.Atoi(strings.TrimSpace(cell(cells, colSequence))); err == nil {
				inData = true
			} else {
				continue
			}
		}
		out = append(out, models.ImportRow{
			SheetRow:   i + 1,
			ClientName: strings.TrimSpace(cell(cells, colClientName)),
			Contact:    strings.TrimSpace(cell(cells, colContact)),
			TimeLabel:  strings.TrimSpace(cell(cells, colTimeLabel)),
			PackageID:  strings.TrimSpace(cell(cells, colPackage)),
			Payment: models.PaymentBreakdown{
				BasePrice: money(cell(cells, colBasePrice)),
				AddOns:    money(cell(cells, colAddOns)),
				Discount:  money(cell(cells, colDiscount)),
				Downpayment: models.PaymentRecord{
					Amount:     money(cell(cells, colDownAmount)),
					Reference:  strings.TrimSpace(cell(cells, colDownReference)),
					Instrument: strings.TrimSpace(cell(cells, colDownMethod)),
				},
				FullPayment: models.PaymentRecord{
					Amount:     money(cell(cells, colFullAmount)),
					Reference:  strings.TrimSpace(cell(cells, colFullReference)),
					Instrument: strings.TrimSpace(cell(cells, colFullMethod)),
				},
			},
		})
	}
	return out, nil
}

func cell(cells []string, idx int) string {
	if idx < len(cells) {
		return cells[idx]
	}
	return ""
}

// money parses a currency cell tolerantly: separators and currency marks
// are stripped, anything unparseable is zero rather than a row failure.
func money(raw string) float64 {
	s := strings.TrimSpace(raw)
	s = strings.NewReplacer(",", "", "₱", "", "$", "", " ", "").Replace(s)
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}
