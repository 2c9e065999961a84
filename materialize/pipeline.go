package materialize

import (
	"context"
	"time"

	"github.com/torc-lang/torc/decision"
	"github.com/torc-lang/torc/graphir"
	"github.com/torc-lang/torc/torcerr"
	"github.com/torc-lang/torc/verify"
)

// Report is the accumulated record of a Materialize run: the intermediate
// product of every stage that completed before either success or the
// first stage failure, preserved per §4.4's "stage failures abort the
// pipeline at the failing stage with the accumulated partial report
// preserved for inspection".
type Report struct {
	Canonicalized  *graphir.Graph
	Verification   *verify.Report
	Schedule       Schedule
	Layout         Layout
	ResourceFit    ResourceFitReport
	FailedStage    string
	StageDurations map[string]time.Duration
}

// CheckDecisionBlock implements scenario 6's gate: a Conflicted decision
// blocks materialization outright, before any pipeline stage runs. Callers
// invoke this ahead of Materialize; it is kept separate rather than folded
// into Config so a decision graph (which belongs to the design-state
// surface, not the codegen surface) never has to be threaded through
// config validation.
func CheckDecisionBlock(decisions *decision.Graph) error {
	if decisions != nil && decisions.Blocks() {
		return torcerr.ErrBuildBlockedByConflict
	}
	return nil
}

// Materialize runs g through §4.4's seven-stage pipeline: canonicalize,
// apply config.Transforms, gate on verification under config.GateProfile,
// schedule, lay out, fit resources, and (if config.Codegen is set) emit a
// target artifact. engine supplies the verification gate; a nil engine
// skips straight to scheduling with a zero-value Report.Verification,
// useful for callers that already gated verification upstream.
//
// A stage failure returns the partial Report built so far alongside the
// error; the caller decides whether to inspect it or discard it.
func Materialize(ctx context.Context, g *graphir.Graph, config Config, engine *verify.Engine, metrics *Metrics) (*Report, *Artifact, error) {
	report := &Report{StageDurations: make(map[string]time.Duration)}

	canonical, err := timedGraph(metrics, "canonicalize", func() (*graphir.Graph, error) {
		return Canonicalize(g)
	})
	if err != nil {
		report.FailedStage = "canonicalize"
		metrics.countRun("failed")
		return report, nil, &torcerr.MaterializationError{Stage: "canonicalize", Err: err}
	}
	report.Canonicalized = canonical

	if config.Transforms != nil {
		transformed, err := timedGraph(metrics, "transform", func() (*graphir.Graph, error) {
			return config.Transforms.Apply(canonical)
		})
		if err != nil {
			report.FailedStage = "transform"
			metrics.countRun("failed")
			return report, nil, &torcerr.MaterializationError{Stage: "transform", Err: err}
		}
		report.Canonicalized = transformed
		canonical = transformed
	}

	if engine != nil {
		start := time.Now()
		vreport, err := engine.Verify(ctx, canonical, config.GateProfile)
		report.StageDurations["verify"] = time.Since(start)
		if err != nil {
			report.FailedStage = "verify"
			metrics.countRun("failed")
			return report, nil, &torcerr.MaterializationError{Stage: "verify", Err: err}
		}
		report.Verification = vreport
		if !vreport.Acceptable() {
			report.FailedStage = "verify"
			metrics.countRun("failed")
			return report, nil, &torcerr.MaterializationError{
				Stage: "verify", Message: "verification report not acceptable under gate profile",
			}
		}
	}

	start := time.Now()
	schedule, err := BuildSchedule(canonical)
	report.StageDurations["schedule"] = time.Since(start)
	if err != nil {
		report.FailedStage = "schedule"
		metrics.countRun("failed")
		return report, nil, &torcerr.MaterializationError{Stage: "schedule", Err: err}
	}
	report.Schedule = schedule

	start = time.Now()
	layout := BuildLayout(canonical, schedule, &config.Platform)
	report.StageDurations["layout"] = time.Since(start)
	report.Layout = layout

	start = time.Now()
	fit := FitResources(canonical, layout, &config.Platform)
	report.StageDurations["resource-fit"] = time.Since(start)
	report.ResourceFit = fit
	if config.EnforceResourceFit && !fit.OK() {
		report.FailedStage = "resource-fit"
		metrics.countRun("failed")
		return report, nil, &torcerr.MaterializationError{
			Stage: "resource-fit", Message: fit.Describe(), Err: fit.Violations[0].Unwrap(),
		}
	}

	if config.Codegen == nil {
		metrics.countRun("succeeded")
		return report, nil, nil
	}
	if err := config.Codegen.Validate(); err != nil {
		report.FailedStage = "codegen"
		metrics.countRun("failed")
		return report, nil, &torcerr.MaterializationError{Stage: "codegen", Err: err}
	}

	start = time.Now()
	artifact, _, err := Emit(canonical, schedule, layout, fit, config.Codegen)
	report.StageDurations["codegen"] = time.Since(start)
	if err != nil {
		report.FailedStage = "codegen"
		metrics.countRun("failed")
		return report, nil, err
	}

	metrics.countRun("succeeded")
	return report, artifact, nil
}

func timedGraph(metrics *Metrics, stage string, fn func() (*graphir.Graph, error)) (*graphir.Graph, error) {
	start := time.Now()
	g, err := fn()
	metrics.observeStage(stage, time.Since(start).Seconds())
	return g, err
}
