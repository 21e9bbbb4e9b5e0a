// Package queries contains read-only operations over the engine state.
// Every handler reads one ports.LedgerSnapshot, so a single response never
// mixes state from before and after a concurrent command.
package queries
