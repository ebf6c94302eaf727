// File: utils/constants.go
package utils

// DateFormat is the calendar-day form used everywhere dates cross a
// boundary: ledger documents, mirror keys, blackout entries, cache keys.
const DateFormat = "2006-01-02"

// AvailabilityCachePrefix is the prefix for cached availability views.
const AvailabilityCachePrefix = "availability:"

// ImportPlanCachePrefix is the prefix for staged import plans awaiting
// operator confirmation.
const ImportPlanCachePrefix = "importplan:"
