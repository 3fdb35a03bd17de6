// Package models defines the core domain entities for Kittyfund.
//
// A GroupBudget is a shared financial target funded jointly by its members
// over a fixed horizon. The horizon is split into repeating Periods
// (daily, weekly or monthly installments), each carrying its own target
// amount and transaction ledger. Members acknowledge their contribution
// for a period with a Confirmation; new members join through the
// Invitation workflow, which materializes a Membership on acceptance.
//
// Entities reference each other by ID string rather than by pointer to
// avoid circular references; the storage layer owns referential integrity.
// Derived values (period activity, lateness, progress) are never stored on
// the entities; they are computed against an injected "now" so reads stay
// deterministic and testable.
package models
