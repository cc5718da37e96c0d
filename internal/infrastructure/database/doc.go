// Package database provides the SQLite connection wrapper and the
// embedded-migration runner for Lumen Core.
//
// SQLite holds the durable slice of coordinator state: zone base ranges
// (mirrored from configuration for audit), the global adjustment state
// that must survive restarts, and a short log of recent calculation
// passes. Per-zone runtime state (manual timers, wake flags) is
// deliberately not persisted; the coordinator starts clean on boot.
package database
