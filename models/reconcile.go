package models

import "time"

// ReconcileReport summarizes one consistency sweep between the ledger and
// its occupancy mirror. Repairs are the cases with an unambiguous fix;
// escalations need a human decision.
type ReconcileReport struct {
	From                string    `json:"from"`
	To                  string    `json:"to"`
	DanglingRemoved     []string  `json:"danglingRemoved,omitempty"`     // mirror IDs with no ledger record
	MissingCreated      []string  `json:"missingCreated,omitempty"`      // ledger IDs that had no mirror
	StatusResynced      []string  `json:"statusResynced,omitempty"`      // mirrors whose status drifted
	DuplicateBlackouts  []string  `json:"duplicateBlackouts,omitempty"`  // blackout IDs removed (keep-earliest)
	Escalations         []string  `json:"escalations,omitempty"`         // human-queue descriptions
	ReservationsScanned int       `json:"reservationsScanned"`
	StartedAt           time.Time `json:"startedAt"`
	FinishedAt          time.Time `json:"finishedAt"`
}
