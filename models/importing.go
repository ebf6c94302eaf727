package models

import "time"

// ImportRow is one spreadsheet row after positional extraction. SheetRow is
// the 1-based row number in the source sheet, kept so operators can trace
// every outcome back to the original cell.
type ImportRow struct {
	SheetRow   int              `json:"sheetRow"`
	ClientName string           `json:"clientName"`
	Contact    string           `json:"contact"`
	TimeLabel  string           `json:"timeLabel"`
	PackageID  string           `json:"packageId"`
	Payment    PaymentBreakdown `json:"payment"`
}

// CandidateRow is an import row that carries a client name, with its time
// label resolved (or flagged unresolved) against the canonical grid.
type CandidateRow struct {
	Row       ImportRow `json:"row"`
	SlotIndex int       `json:"slotIndex"` // SlotUnresolved when the label did not match
}

// ImportPlan is the staged result of parsing a sheet. Nothing is written to
// the ledger until an operator confirms the plan and commits it by token.
type ImportPlan struct {
	Token        string         `json:"token"`
	TargetDate   string         `json:"targetDate"`
	Candidates   []CandidateRow `json:"candidates"`
	SkippedEmpty int            `json:"skippedEmpty"` // nameless rows, treated as empty grid cells
	CreatedAt    time.Time      `json:"createdAt"`
}

// RowError records why a single row was not imported. The batch continues
// past row errors; they are collected, never fatal.
type RowError struct {
	SheetRow   int    `json:"sheetRow"`
	ClientName string `json:"clientName,omitempty"`
	Reason     string `json:"reason"`
}

// ImportResult reports exactly which rows were committed and which were
// skipped, so an operator can retry only the remainder after a partial
// failure.
type ImportResult struct {
	Imported []Reservation `json:"imported"`
	Skipped  []RowError    `json:"skipped"`
}
