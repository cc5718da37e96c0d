// Package zone manages lighting zones: their configured base ranges,
// their persisted mirror in SQLite, and the per-zone runtime state
// machine that arbitrates between automatic control, manual holds, and
// wake overrides.
//
// Configuration is the source of truth for zone definitions. The SQLite
// rows exist so operators can audit what the coordinator last ran with;
// they are upserted at startup and never read back into the registry.
//
// Runtime state (manual timers, wake locks) is deliberately volatile: a
// restart returns every zone to automatic control rather than resuming
// a stale hold.
package zone
