// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// The batch drivers (ingest, index, backfill) count per-item failures
// instead of aborting; only failures to enumerate their input are
// returned as errors.
package services
