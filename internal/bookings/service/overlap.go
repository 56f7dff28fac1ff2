package service

import "reservio/pkg/model"

// ConflictPolicy decides whether two same-day intervals collide.
type ConflictPolicy func(a, b model.TimeInterval) bool

// LegacyConflict is the six-condition policy the booking system has
// always enforced. Two intervals conflict when any of these hold:
//
//  1. a.From lies strictly inside b
//  2. a.To lies strictly inside b
//  3. b.From lies strictly inside a
//  4. b.To lies strictly inside a
//  5. the intervals start at the same minute
//  6. the intervals end at the same minute
//
// Back-to-back bookings (one ends exactly when the other starts) pass,
// and so do a handful of genuinely overlapping shapes the strict
// predicate would reject. Both behaviors are load-bearing for existing
// clients, so the policy is preserved bit for bit.
func LegacyConflict(a, b model.TimeInterval) bool {
	if a.Date != b.Date {
		return false
	}

	return b.ContainsStrict(a.From) ||
		b.ContainsStrict(a.To) ||
		a.ContainsStrict(b.From) ||
		a.ContainsStrict(b.To) ||
		a.From == b.From ||
		a.To == b.To
}

// StrictConflict is the corrected half-open predicate: intervals
// conflict exactly when they share at least one minute. Enabled with
// BOOKING_STRICT_OVERLAP=true.
func StrictConflict(a, b model.TimeInterval) bool {
	if a.Date != b.Date {
		return false
	}

	return a.From < b.To && b.From < a.To
}

// policyFor selects the configured conflict policy.
func policyFor(strict bool) ConflictPolicy {
	if strict {
		return StrictConflict
	}
	return LegacyConflict
}
