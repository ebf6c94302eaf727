package importer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestParseSheet(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetList()[0]

	// Banner and header rows: no numeric sequence, so they sit above the
	// data boundary.
	require.NoError(t, f.SetCellValue(sheet, "A1", "SEPTEMBER 1 BOOKINGS"))
	require.NoError(t, f.SetCellValue(sheet, "A2", "No."))
	require.NoError(t, f.SetCellValue(sheet, "C2", "Client"))

	// Row 3: fully populated booking.
	require.NoError(t, f.SetCellValue(sheet, "A3", 1))
	require.NoError(t, f.SetCellValue(sheet, "C3", "Jane Cruz"))
	require.NoError(t, f.SetCellValue(sheet, "E3", "0917-555-0101"))
	require.NoError(t, f.SetCellValue(sheet, "F3", "9:00-9:30 am"))
	require.NoError(t, f.SetCellValue(sheet, "G3", "Premium"))
	require.NoError(t, f.SetCellValue(sheet, "I3", "1,500.00"))
	require.NoError(t, f.SetCellValue(sheet, "J3", "250"))
	require.NoError(t, f.SetCellValue(sheet, "L3", "500"))
	require.NoError(t, f.SetCellValue(sheet, "M3", "GC-123"))
	require.NoError(t, f.SetCellValue(sheet, "N3", "gcash"))
	require.NoError(t, f.SetCellValue(sheet, "R3", "walk-in, do not call")) // remarks, ignored

	// Row 4: numbered but empty grid cell.
	require.NoError(t, f.SetCellValue(sheet, "A4", 2))

	// Row 5: unparseable money cell falls back to zero.
	require.NoError(t, f.SetCellValue(sheet, "A5", 3))
	require.NoError(t, f.SetCellValue(sheet, "C5", "Maria Santos"))
	require.NoError(t, f.SetCellValue(sheet, "F5", "9:30 AM"))
	require.NoError(t, f.SetCellValue(sheet, "I5", "TBD"))

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	rows, err := ParseSheet(buf)
	require.NoError(t, err)
	require.Len(t, rows, 3, "header rows are not data")

	jane := rows[0]
	assert.Equal(t, 3, jane.SheetRow)
	assert.Equal(t, "Jane Cruz", jane.ClientName)
	assert.Equal(t, "0917-555-0101", jane.Contact)
	assert.Equal(t, "9:00-9:30 am", jane.TimeLabel)
	assert.Equal(t, "Premium", jane.PackageID)
	assert.Equal(t, 1500.0, jane.Payment.BasePrice)
	assert.Equal(t, 250.0, jane.Payment.AddOns)
	assert.Equal(t, 500.0, jane.Payment.Downpayment.Amount)
	assert.Equal(t, "GC-123", jane.Payment.Downpayment.Reference)
	assert.Equal(t, "gcash", jane.Payment.Downpayment.Instrument)

	empty := rows[1]
	assert.Equal(t, 4, empty.SheetRow)
	assert.Empty(t, empty.ClientName)

	maria := rows[2]
	assert.Equal(t, "Maria Santos", maria.ClientName)
	assert.Equal(t, 0.0, maria.Payment.BasePrice, "unparseable money is zero, not a failure")
}

func TestParseSheetNotAWorkbook(t *testing.T) {
	_, err := ParseSheet(strings.NewReader("client,time\nJane,9:00"))
	assert.Error(t, err)
}

func TestMoneyParsing(t *testing.T) {
	cases := map[string]float64{
		"1500":      1500,
		"1,500.00":  1500,
		"₱2,000":    2000,
		"$75.50":    75.5,
		" 300 ":     300,
		"":          0,
		"TBD":       0,
		"follow up": 0,
	}
	for raw, want := range cases {
		assert.Equal(t, want, money(raw), "input %q", raw)
	}
}
