package verify

import (
	"context"
	"fmt"
	"time"

	"github.com/torc-lang/torc/contract"
	"github.com/torc-lang/torc/graphir"
	"github.com/torc-lang/torc/internal/logging"
	"github.com/torc-lang/torc/ttype"
)

// Severity classifies a diagnostic's user-visible weight, per §7.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
	SeverityInfo
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	case SeverityInfo:
		return "info"
	default:
		return "unknown"
	}
}

// Diagnostic is one report entry: an obligation (or structural finding), a
// severity, a message, a context string naming the offending entity, an
// optional counterexample, and suggestions tuned to the diagnostic's kind.
type Diagnostic struct {
	ObligationID   int
	Severity       Severity
	Message        string
	Context        string
	Counterexample map[string]string
	Suggestions    []string
}

// KindBreakdown tallies one obligation kind's outcomes.
type KindBreakdown struct {
	Total, Verified, Pending, Waived, Failed int
}

// Report is the verification engine's public output (§6 "Verification").
type Report struct {
	Profile     Profile
	Total       int
	Verified    int
	Pending     int
	Waived      int
	Failed      int
	CacheHits   int
	ByKind      map[ttype.ObligationKind]*KindBreakdown
	Diagnostics []Diagnostic
	Obligations []*Obligation
}

// Acceptable reports whether the report's outcome is acceptable under its
// own Profile's rules — the caller, not the engine, decides what "fails the
// run" means (§4.3 "Verification never fails").
func (r *Report) Acceptable() bool {
	if r.Failed > 0 {
		return false
	}
	if r.Pending > 0 && !r.Profile.AllowsUnknown() {
		return false
	}
	waivedCount := 0
	for _, o := range r.Obligations {
		if o.Status == contract.StatusWaived {
			waivedCount++
		}
	}
	return waivedCount <= r.Profile.MaxWaivers()
}

// Engine drives the obligation pipeline: collect, cache lookup, interval
// pre-screen, SMT dispatch, cache store, report.
type Engine struct {
	Cache     *Cache
	Solver    Solver
	Evaluator *FunctionEvaluator
	Metrics   *Metrics
	Logger    *logging.Logger
}

// NewEngine returns an Engine with a fresh in-memory cache and the default
// BoundedSolver.
func NewEngine() *Engine {
	return &Engine{Cache: NewCache(), Solver: NewBoundedSolver()}
}

// Verify runs the full pipeline over g under profile, returning a Report.
// It never returns a pipeline error for obligation outcomes — only a
// genuine setup problem (ctx cancellation) short-circuits with an error;
// every obligation outcome, including Disproven and Unknown, is recorded in
// the returned Report per §4.3's "verification never fails" design.
func (e *Engine) Verify(ctx context.Context, g *graphir.Graph, profile Profile) (*Report, error) {
	obligations, structuralErrs := Collect(g)

	report := &Report{
		Profile: profile,
		ByKind:  make(map[ttype.ObligationKind]*KindBreakdown),
	}

	for _, se := range structuralErrs {
		report.Diagnostics = append(report.Diagnostics, Diagnostic{
			Severity: SeverityError,
			Message:  se.Error(),
			Context:  "structural validation",
		})
		report.Failed++
	}

	if e.Logger != nil {
		e.Logger.Debug("verification collected obligations", "count", len(obligations), "profile", profile.String())
	}

	for _, ob := range obligations {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		e.decide(ctx, ob, profile)
		e.record(report, ob)
	}

	return report, nil
}

func (e *Engine) decide(ctx context.Context, ob *Obligation, profile Profile) {
	if e.Metrics != nil {
		defer func() { e.Metrics.ObligationsTotal.WithLabelValues(ob.Status.String()).Inc() }()
		e.Metrics.CacheLookupsTotal.Inc()
	}
	hash := ContentHash(ob.Kind, ob.Predicate)

	if entry, hit := e.Cache.Lookup(ctx, hash); hit {
		if e.Metrics != nil {
			e.Metrics.CacheHitsTotal.Inc()
		}
		ob.Status = entry.Status
		if entry.Status == contract.StatusVerified {
			ob.Witness = &contract.ProofWitness{ContentHash: hash[:], SolverName: entry.SolverName, ProofData: entry.Witness}
		}
		return
	}

	if verdict, decided := PreScreen(ob.Predicate, ob.Env); decided {
		var counterexample map[string]string
		if !verdict {
			counterexample = PreScreenCounterexample(ob.Env)
		}
		e.finish(ctx, ob, hash, verdict, counterexample, "interval")
		return
	}

	if e.Metrics != nil {
		e.Metrics.SMTCallsTotal.Inc()
	}
	solver := e.Solver
	if solver == nil {
		solver = NewBoundedSolver()
	}
	if bs, ok := solver.(*BoundedSolver); ok && bs.Evaluate == nil {
		bs.Evaluate = e.Evaluator
	}
	start := time.Now()
	result := solver.Solve(ob.Predicate, ob.Env, profile.SMTTimeoutMs())
	if e.Metrics != nil {
		e.Metrics.SMTLatencySeconds.Observe(time.Since(start).Seconds())
	}
	switch result.Verdict {
	case VerdictProven:
		e.finish(ctx, ob, hash, true, nil, solver.Name())
	case VerdictDisproven:
		e.finish(ctx, ob, hash, false, result.Counterexample, solver.Name())
	case VerdictTimeout:
		ob.Status = contract.StatusPending
	default: // VerdictUnknown
		ob.Status = contract.StatusPending
	}
}

func (e *Engine) finish(ctx context.Context, ob *Obligation, hash [32]byte, proven bool, counterexample map[string]string, solverName string) {
	if proven {
		ob.Status = contract.StatusVerified
		ob.Witness = &contract.ProofWitness{ContentHash: hash[:], SolverName: solverName}
		_ = e.Cache.Store(ctx, hash, CacheEntry{Status: contract.StatusVerified, SolverName: solverName})
		return
	}
	ob.Status = contract.StatusPending
	_ = e.Cache.Store(ctx, hash, CacheEntry{Status: contract.StatusPending, SolverName: solverName})
	ob.counterexample = counterexample
}

func (e *Engine) record(report *Report, ob *Obligation) {
	report.Total++
	kb := report.ByKind[ob.Kind]
	if kb == nil {
		kb = &KindBreakdown{}
		report.ByKind[ob.Kind] = kb
	}
	kb.Total++
	report.Obligations = append(report.Obligations, ob)

	switch ob.Status {
	case contract.StatusVerified:
		report.Verified++
		kb.Verified++
		return
	case contract.StatusWaived:
		report.Waived++
		kb.Waived++
		report.Diagnostics = append(report.Diagnostics, Diagnostic{
			ObligationID: ob.ID, Severity: SeverityInfo,
			Message: fmt.Sprintf("obligation %d waived: %s", ob.ID, ob.Description),
			Context: diagContext(ob),
		})
		return
	case contract.StatusAssumed:
		// Assumed obligations fall through to the unresolved-diagnostic path
		// below; whether that's a Warning or a Failed depends on the profile.
	}

	// Pending (unresolved) obligation: whether this is a Warning or a hard
	// Failed depends on the profile's tolerance for Unknown.
	diag := Diagnostic{
		ObligationID:   ob.ID,
		Message:        fmt.Sprintf("obligation %d unresolved: %s", ob.ID, ob.Description),
		Context:        diagContext(ob),
		Counterexample: ob.counterexample,
		Suggestions:    suggestionsFor(ob.Kind),
	}
	if report.Profile.AllowsUnknown() {
		diag.Severity = SeverityWarning
		report.Pending++
		kb.Pending++
	} else {
		diag.Severity = SeverityError
		report.Failed++
		kb.Failed++
	}
	report.Diagnostics = append(report.Diagnostics, diag)
}

func diagContext(ob *Obligation) string {
	if ob.NodeID != "" {
		return "node " + ob.NodeID
	}
	if ob.EdgeID != "" {
		return "edge " + ob.EdgeID
	}
	return ""
}

// suggestionsFor returns kind-specific diagnostic suggestions, per §4.3
// stage 6.
func suggestionsFor(kind ttype.ObligationKind) []string {
	switch kind {
	case ttype.ObligationTypeRefinement:
		return []string{"strengthen precondition", "add clamp"}
	case ttype.ObligationPrecondition:
		return []string{"strengthen precondition", "add runtime guard"}
	case ttype.ObligationPostcondition:
		return []string{"weaken postcondition", "verify implementation matches contract"}
	case ttype.ObligationResourceBound:
		return []string{"tighten resource bound", "profile actual usage"}
	case ttype.ObligationLinearity:
		return []string{"add explicit consumer", "relax linearity discipline"}
	case ttype.ObligationTermination:
		return []string{"provide ranking function", "bound iteration count"}
	default:
		return nil
	}
}

// UnresolvedObligations filters r.Obligations to those not Verified, a
// read-only doctor/inspect style query per SPEC_FULL.md §C item 5.
func UnresolvedObligations(r *Report) []*Obligation {
	var out []*Obligation
	for _, o := range r.Obligations {
		if o.Status != contract.StatusVerified {
			out = append(out, o)
		}
	}
	return out
}
