// Package analyzer computes the delay-impact metrics: friction between
// back-to-back rentals, rentals affected by a minimum delay, and the share of
// rentals each owner would lose.
package analyzer

import (
	"errors"
	"fmt"
	"strings"

	"github.com/blackwell-systems/delaywatch/internal/rental"
)

var (
	// ErrInvalidArgument is returned for unknown metrics and bad sweep options.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrEmptyInput is returned when an aggregate has nothing to aggregate.
	ErrEmptyInput = errors.New("empty input")
)

// Metric selects how per-car loss percentages are aggregated.
type Metric string

const (
	MetricMean   Metric = "mean"
	MetricMedian Metric = "median"
	MetricMax    Metric = "max"
)

// Metrics lists the supported aggregation metrics.
var Metrics = []Metric{MetricMean, MetricMedian, MetricMax}

// ParseMetric validates a metric name.
func ParseMetric(s string) (Metric, error) {
	m := Metric(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Metrics {
		if m == known {
			return m, nil
		}
	}
	return "", fmt.Errorf("%w: unknown metric %q (want mean, median or max)", ErrInvalidArgument, s)
}

// FrictionCount is the number of back-to-back rentals disrupted by a late
// checkout, and how many of those ended up canceled.
type FrictionCount struct {
	// Events is the number of rentals whose start slot was overrun.
	Events int `json:"events"`

	// Cancellations is the subset of Events whose rental was canceled.
	Cancellations int `json:"cancellations"`
}

// Ended returns the friction events whose rental still took place.
func (f FrictionCount) Ended() int {
	return f.Events - f.Cancellations
}

// CarLoss is one car's rental loss under a delay threshold.
type CarLoss struct {
	CarID       int64   `json:"car_id"`
	Baseline    int     `json:"baseline"`
	Remaining   int     `json:"remaining"`
	Lost        int     `json:"lost"`
	LossPercent float64 `json:"loss_percent"`
}

// PunctualitySummary is the headline breakdown of checkout timing.
type PunctualitySummary struct {
	// TotalRentals is the number of rentals in the table.
	TotalRentals int `json:"total_rentals"`

	// Late, Early and OnTime count rentals by checkout delay sign.
	Late   int `json:"late"`
	Early  int `json:"early"`
	OnTime int `json:"on_time"`

	// Unknown counts rentals with no reported checkout delay.
	Unknown int `json:"unknown"`

	// LatePercent is Late over rentals with a known delay (0-100).
	LatePercent float64 `json:"late_percent"`

	// SingleRentals and BackToBackRentals split rentals by predecessor link.
	SingleRentals     int `json:"single_rentals"`
	BackToBackRentals int `json:"back_to_back_rentals"`

	// Friction is the friction at a zero threshold over the whole table.
	Friction FrictionCount `json:"friction"`
}

// SweepOptions configures a threshold sweep.
type SweepOptions struct {
	// Start, Stop and Step define thresholds Start, Start+Step, ... <= Stop.
	Start int `json:"start"`
	Stop  int `json:"stop"`
	Step  int `json:"step"`

	// Scope is the check-in scope passed to every operation.
	Scope rental.Scope `json:"scope"`

	// Workers bounds concurrent evaluations. Zero or less means one per CPU.
	Workers int `json:"-"`
}

// DefaultSweepOptions matches the dashboard's 0..360 minute range.
func DefaultSweepOptions() SweepOptions {
	return SweepOptions{Start: 0, Stop: 360, Step: 30, Scope: rental.ScopeAll}
}

// SweepPoint holds all metrics for one threshold.
type SweepPoint struct {
	// Threshold is the minimum delay between rentals, in minutes.
	Threshold int `json:"threshold"`

	// Friction is the friction remaining at this threshold.
	Friction FrictionCount `json:"friction"`

	// Affected is the number of rentals the threshold would hide.
	Affected int `json:"affected"`

	// OwnerShareLoss is the mean owner loss percent at this threshold.
	OwnerShareLoss float64 `json:"owner_share_loss"`
}
