// Package rental provides the rental delay data model, the immutable table
// snapshot the analyzer works on, and loaders for CSV and XLSX sources.
package rental

import "strings"

// CheckinType is the check-in flow used for a rental ("mobile", "connect", ...).
type CheckinType string

// Known check-in types.
const (
	CheckinMobile  CheckinType = "mobile"
	CheckinConnect CheckinType = "connect"
)

// Rental states referenced by the analysis.
const (
	StateEnded    = "ended"
	StateCanceled = "canceled"
)

// Record is one row of the rental delay dataset.
type Record struct {
	// RentalID uniquely identifies the rental within a table.
	RentalID int64 `json:"rental_id"`

	// CarID identifies the vehicle. Many rentals share a car.
	CarID int64 `json:"car_id"`

	// CheckinType is the check-in flow used by the driver.
	CheckinType CheckinType `json:"checkin_type"`

	// State is the rental lifecycle state, e.g. "ended" or "canceled".
	State string `json:"state"`

	// DelayAtCheckout is the checkout delay in minutes. Positive means the
	// car came back late, negative early. Nil when not reported.
	DelayAtCheckout *int `json:"delay_at_checkout_in_minutes,omitempty"`

	// PreviousEndedRentalID links the rental to the one immediately before it
	// on the same car. Nil for single rentals.
	PreviousEndedRentalID *int64 `json:"previous_ended_rental_id,omitempty"`

	// TimeDeltaWithPrevious is the scheduled gap in minutes between the
	// previous rental's checkout and this rental's checkin.
	TimeDeltaWithPrevious *int `json:"time_delta_with_previous_rental_in_minutes,omitempty"`
}

// HasPredecessor reports whether the record is the second half of a
// back-to-back pair.
func (r Record) HasPredecessor() bool {
	return r.PreviousEndedRentalID != nil
}

// Canceled reports whether the rental was canceled.
func (r Record) Canceled() bool {
	return r.State == StateCanceled
}

// Timing classifies a checkout relative to its scheduled end.
type Timing string

const (
	TimingEarly   Timing = "early"
	TimingLate    Timing = "late"
	TimingOnTime  Timing = "on-time"
	TimingUnknown Timing = "unknown"
)

// Timing classifies the record's checkout delay.
func (r Record) Timing() Timing {
	if r.DelayAtCheckout == nil {
		return TimingUnknown
	}
	switch d := *r.DelayAtCheckout; {
	case d < 0:
		return TimingEarly
	case d > 0:
		return TimingLate
	default:
		return TimingOnTime
	}
}

// Kind distinguishes single rentals from back-to-back rentals.
type Kind string

const (
	KindSingle     Kind = "single rental"
	KindBackToBack Kind = "back-to-back rental"
)

// Kind reports whether the record follows another rental on the same car.
func (r Record) Kind() Kind {
	if r.HasPredecessor() {
		return KindBackToBack
	}
	return KindSingle
}

// Scope restricts an analysis to one check-in type.
type Scope string

// Supported scopes. The zero value behaves like ScopeAll.
const (
	ScopeAll     Scope = "all"
	ScopeMobile  Scope = Scope(CheckinMobile)
	ScopeConnect Scope = Scope(CheckinConnect)
)

// Scopes lists the scopes accepted on the command line, in display order.
var Scopes = []Scope{ScopeAll, ScopeMobile, ScopeConnect}

// ParseScope maps a string to a Scope. Unrecognized values fall back to
// ScopeAll.
func ParseScope(s string) Scope {
	switch Scope(strings.ToLower(strings.TrimSpace(s))) {
	case ScopeMobile:
		return ScopeMobile
	case ScopeConnect:
		return ScopeConnect
	default:
		return ScopeAll
	}
}

// ValidScope reports whether s names one of the supported scopes, ignoring
// case and surrounding space.
// An empty string is accepted as "all".
func ValidScope(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return true
	}
	for _, sc := range Scopes {
		if Scope(s) == sc {
			return true
		}
	}
	return false
}

// Matches reports whether the record falls within the scope.
func (s Scope) Matches(r Record) bool {
	switch s {
	case ScopeMobile, ScopeConnect:
		return r.CheckinType == CheckinType(s)
	default:
		return true
	}
}

// String returns the scope name, defaulting to "all".
func (s Scope) String() string {
	if s == "" {
		return string(ScopeAll)
	}
	return string(s)
}
