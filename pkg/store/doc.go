// Package store persists gamification state as two independent JSON
// records: the cumulative stats and the day-scoped engagement ledger.
//
// Each record applies its own day-rollover check against the shared
// calendar-day format, so a mismatch between their stored days cannot
// corrupt either. Writes are atomic (temp file + rename) but
// last-write-wins across processes sharing a data directory; no
// cross-process coordination is provided.
package store
