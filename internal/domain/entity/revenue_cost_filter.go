package entity

import "time"

// RevenueCostFilter is a domain-level filter for querying ledger entries.
// Used by repository layer to avoid coupling with delivery DTOs.
type RevenueCostFilter struct {
	From *time.Time
	To   *time.Time
	Type RevenueCostType // empty matches both
}
