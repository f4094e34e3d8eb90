package mcp

import (
	"context"
	"fmt"

	"github.com/goccy/go-json"

	"github.com/blackwell-systems/delaywatch/internal/analyzer"
	"github.com/blackwell-systems/delaywatch/internal/rental"
)

var (
	noArgsSchema = json.RawMessage(`{"type":"object","properties":{},"additionalProperties":false}`)

	thresholdSchema = json.RawMessage(`{"type":"object","properties":{` +
		`"threshold":{"type":"integer","minimum":0,"description":"Minimum delay between rentals, in minutes"},` +
		`"scope":{"type":"string","enum":["all","mobile","connect"]},` +
		`"ids":{"type":"boolean","description":"Return rental ids instead of counts"}` +
		`},"required":["threshold"],"additionalProperties":false}`)

	ownerSchema = json.RawMessage(`{"type":"object","properties":{` +
		`"threshold":{"type":"integer","minimum":0},` +
		`"scope":{"type":"string","enum":["all","mobile","connect"]},` +
		`"metric":{"type":"string","enum":["mean","median","max"]}` +
		`},"required":["threshold","metric"],"additionalProperties":false}`)

	sweepSchema = json.RawMessage(`{"type":"object","properties":{` +
		`"start":{"type":"integer","minimum":0},` +
		`"stop":{"type":"integer","minimum":0},` +
		`"step":{"type":"integer","minimum":1},` +
		`"scope":{"type":"string","enum":["all","mobile","connect"]}` +
		`},"additionalProperties":false}`)
)

// thresholdArgs are the arguments shared by the threshold tools.
type thresholdArgs struct {
	Threshold *int   `json:"threshold"`
	Scope     string `json:"scope"`
	IDs       bool   `json:"ids"`
	Metric    string `json:"metric"`
}

func (a thresholdArgs) validate() (int, rental.Scope, error) {
	if a.Threshold == nil {
		return 0, "", fmt.Errorf("%w: threshold is required", analyzer.ErrInvalidArgument)
	}
	if *a.Threshold < 0 {
		return 0, "", fmt.Errorf("%w: threshold must be non-negative", analyzer.ErrInvalidArgument)
	}
	if !rental.ValidScope(a.Scope) {
		return 0, "", fmt.Errorf("%w: unknown scope %q", analyzer.ErrInvalidArgument, a.Scope)
	}
	return *a.Threshold, rental.ParseScope(a.Scope), nil
}

// FrictionResult is the compute_friction result.
type FrictionResult struct {
	Threshold     int     `json:"threshold"`
	Scope         string  `json:"scope"`
	Events        int     `json:"events"`
	Cancellations int     `json:"cancellations"`
	RentalIDs     []int64 `json:"rental_ids,omitempty"`
}

// AffectedResult is the compute_affected_rentals result.
type AffectedResult struct {
	Threshold int     `json:"threshold"`
	Scope     string  `json:"scope"`
	Affected  int     `json:"affected"`
	RentalIDs []int64 `json:"rental_ids,omitempty"`
}

// OwnerShareLossResult is the compute_owner_share_loss result.
type OwnerShareLossResult struct {
	Threshold int     `json:"threshold"`
	Scope     string  `json:"scope"`
	Metric    string  `json:"metric"`
	Loss      float64 `json:"owner_share_loss"`
}

func addTools(s *Server) {
	s.registerTool(toolDef{
		Name:        "compute_friction",
		Description: "Count back-to-back rentals disrupted by a late checkout even after adding the delay threshold.",
		InputSchema: thresholdSchema,
		Handler:     s.handleFriction,
	})
	s.registerTool(toolDef{
		Name:        "compute_affected_rentals",
		Description: "Count rentals whose gap to the previous rental is below the threshold and would be hidden from search.",
		InputSchema: thresholdSchema,
		Handler:     s.handleAffected,
	})
	s.registerTool(toolDef{
		Name:        "compute_owner_share_loss",
		Description: "Mean, median or max percentage of rentals car owners would lose to the threshold.",
		InputSchema: ownerSchema,
		Handler:     s.handleOwnerShareLoss,
	})
	s.registerTool(toolDef{
		Name:        "punctuality_summary",
		Description: "Checkout timing breakdown and friction with no delay threshold.",
		InputSchema: noArgsSchema,
		Handler:     s.handleSummary,
	})
	s.registerTool(toolDef{
		Name:        "sweep_thresholds",
		Description: "Friction, affected rentals and mean owner loss for a range of thresholds (default 0 to 360 by 30).",
		InputSchema: sweepSchema,
		Handler:     s.handleSweep,
	})
}

func (s *Server) handleFriction(_ context.Context, raw json.RawMessage) (any, error) {
	var args thresholdArgs
	if err := json.Unmarshal(raw, &args); err != nil {
		return nil, err
	}
	th, scope, err := args.validate()
	if err != nil {
		return nil, err
	}

	fc := analyzer.Friction(s.table, th, scope)
	res := FrictionResult{Threshold: th, Scope: scope.String(), Events: fc.Events, Cancellations: fc.Cancellations}
	if args.IDs {
		res.RentalIDs = analyzer.FrictionIDs(s.table, th, scope)
	}
	return res, nil
}

func (s *Server) handleAffected(_ context.Context, raw json.RawMessage) (any, error) {
	var args thresholdArgs
	if err := json.Unmarshal(raw, &args); err != nil {
		return nil, err
	}
	th, scope, err := args.validate()
	if err != nil {
		return nil, err
	}

	res := AffectedResult{Threshold: th, Scope: scope.String(), Affected: analyzer.AffectedRentals(s.table, th, scope)}
	if args.IDs {
		res.RentalIDs = analyzer.AffectedIDs(s.table, th, scope)
	}
	return res, nil
}

func (s *Server) handleOwnerShareLoss(_ context.Context, raw json.RawMessage) (any, error) {
	var args thresholdArgs
	if err := json.Unmarshal(raw, &args); err != nil {
		return nil, err
	}
	th, scope, err := args.validate()
	if err != nil {
		return nil, err
	}
	metric, err := analyzer.ParseMetric(args.Metric)
	if err != nil {
		return nil, err
	}

	loss, err := analyzer.OwnerShareLoss(s.table, th, scope, metric)
	if err != nil {
		return nil, err
	}
	return OwnerShareLossResult{Threshold: th, Scope: scope.String(), Metric: string(metric), Loss: loss}, nil
}

func (s *Server) handleSummary(_ context.Context, _ json.RawMessage) (any, error) {
	return analyzer.AnalyzePunctuality(s.table), nil
}

func (s *Server) handleSweep(ctx context.Context, raw json.RawMessage) (any, error) {
	opts := analyzer.DefaultSweepOptions()
	var args struct {
		Start *int   `json:"start"`
		Stop  *int   `json:"stop"`
		Step  *int   `json:"step"`
		Scope string `json:"scope"`
	}
	if err := json.Unmarshal(raw, &args); err != nil {
		return nil, err
	}
	if args.Start != nil {
		opts.Start = *args.Start
	}
	if args.Stop != nil {
		opts.Stop = *args.Stop
	}
	if args.Step != nil {
		opts.Step = *args.Step
	}
	if !rental.ValidScope(args.Scope) {
		return nil, fmt.Errorf("%w: unknown scope %q", analyzer.ErrInvalidArgument, args.Scope)
	}
	opts.Scope = rental.ParseScope(args.Scope)

	return analyzer.Sweep(ctx, s.table, opts)
}
