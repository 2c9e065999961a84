// Package contract implements the contract model: pre/postconditions,
// resource bounds, failure modes and recovery strategies, proof obligations,
// and proof witnesses — the shape a Node attaches to describe what it
// promises and how it fails.
package contract

import (
	"time"

	"github.com/torc-lang/torc/ttype"
)

// RecoveryStrategy names how a failure mode is handled, grounded on the
// original torc-core contract model's four-case recovery enum.
type RecoveryStrategy struct {
	Kind        RecoveryKind
	RetryCount  uint32 // meaningful only for RecoveryRetry
	Fallback    string // meaningful only for RecoveryDegrade: name of the fallback value/path
}

type RecoveryKind int

const (
	RecoveryAbort RecoveryKind = iota
	RecoveryRetry
	RecoveryDegrade
	RecoveryPropagate
)

func (k RecoveryKind) String() string {
	switch k {
	case RecoveryAbort:
		return "abort"
	case RecoveryRetry:
		return "retry"
	case RecoveryDegrade:
		return "degrade"
	case RecoveryPropagate:
		return "propagate"
	default:
		return "unknown"
	}
}

func (r RecoveryStrategy) String() string {
	switch r.Kind {
	case RecoveryRetry:
		return "retry(" + itoa(r.RetryCount) + ")"
	case RecoveryDegrade:
		return "degrade(" + r.Fallback + ")"
	default:
		return r.Kind.String()
	}
}

func itoa(v uint32) string {
	if v == 0 {
		return "0"
	}
	digits := []byte{}
	for v > 0 {
		digits = append([]byte{byte('0' + v%10)}, digits...)
		v /= 10
	}
	return string(digits)
}

// FailureMode names one way a node's contract may be violated at runtime
// and the recovery strategy that applies when it is.
type FailureMode struct {
	Name        string
	Description string
	Recovery    RecoveryStrategy
}

// TimeBound carries best/worst/average-case execution time and an optional
// target, kept as a dedicated struct (rather than folded into one generic
// resource-bounds blob) so time, memory, and energy can each be partially
// specified independently.
type TimeBound struct {
	WorstCaseNs *uint64
	BestCaseNs  *uint64
	AvgCaseNs   *uint64
	TargetNs    *uint64
}

// MemoryBound carries peak/allocated/freed byte counts.
type MemoryBound struct {
	PeakBytes      *uint64
	AllocatedBytes *uint64
	FreedBytes     *uint64
}

// EnergyBound carries a maximum energy budget in microjoules.
type EnergyBound struct {
	MaxMicroJoules *uint64
}

// StackBound carries a maximum stack depth in bytes.
type StackBound struct {
	MaxBytes *uint64
}

// ProofStatus is the discharge state a Contract's proof obligations
// currently sit in.
type ProofStatus int

const (
	StatusVerified ProofStatus = iota
	StatusAssumed
	StatusPending
	StatusWaived
)

func (s ProofStatus) String() string {
	switch s {
	case StatusVerified:
		return "verified"
	case StatusAssumed:
		return "assumed"
	case StatusPending:
		return "pending"
	case StatusWaived:
		return "waived"
	default:
		return "unknown"
	}
}

// ProofWitness is the evidence a solver produced for a discharged
// obligation: which solver, a content hash of the discharged predicate, and
// opaque serialized proof data the solver alone can interpret.
type ProofWitness struct {
	ContentHash []byte
	SolverName  string
	ProofData   []byte
}

// Contract is the full set of promises and failure semantics a Node
// carries.
type Contract struct {
	Preconditions  []ttype.Predicate
	Postconditions []ttype.Predicate

	Time   TimeBound
	Memory MemoryBound
	Energy EnergyBound
	Stack  StackBound

	Effects ttype.EffectSet

	FailureModes    []FailureMode
	DefaultRecovery RecoveryStrategy

	ProofStatus  ProofStatus
	ProofWitness *ProofWitness
}

// ObligationKind mirrors ttype.ObligationKind but is re-exported here so
// callers working purely in the contract package's vocabulary don't need to
// import ttype just to name a kind; the underlying values are identical.
type ObligationKind = ttype.ObligationKind

const (
	ObligationTypeRefinement = ttype.ObligationTypeRefinement
	ObligationPrecondition   = ttype.ObligationPrecondition
	ObligationPostcondition  = ttype.ObligationPostcondition
	ObligationResourceBound  = ttype.ObligationResourceBound
	ObligationLinearity      = ttype.ObligationLinearity
	ObligationTermination    = ttype.ObligationTermination
)

// Waiver records a human decision to accept an unresolved obligation.
// Approver must differ from Author — enforced by NewWaiver, not by the zero
// value, so a zero Waiver is recognizably invalid rather than silently
// self-approved.
type Waiver struct {
	Author         string
	Approver       string
	Justification  string
	SafetyImpact   string
	IssueDate      time.Time
	ExpirationDate *time.Time
}

// ErrSelfApprovedWaiver is returned by NewWaiver when author and approver
// are the same identity.
var ErrSelfApprovedWaiver = errSelfApproved{}

type errSelfApproved struct{}

func (errSelfApproved) Error() string { return "waiver approver must differ from author" }

// NewWaiver constructs a Waiver, rejecting a self-approval.
func NewWaiver(author, approver, justification, safetyImpact string, issueDate time.Time, expiration *time.Time) (*Waiver, error) {
	if author == approver {
		return nil, ErrSelfApprovedWaiver
	}
	return &Waiver{
		Author:         author,
		Approver:       approver,
		Justification:  justification,
		SafetyImpact:   safetyImpact,
		IssueDate:      issueDate,
		ExpirationDate: expiration,
	}, nil
}

// Expired reports whether w's expiration date has passed as of now.
func (w *Waiver) Expired(now time.Time) bool {
	return w.ExpirationDate != nil && now.After(*w.ExpirationDate)
}

// ProofObligation is a single discharge requirement generated anywhere in
// the pipeline (type subtyping, contract evaluation, resource-fit
// scheduling): a kind, the predicate to discharge, a human description, a
// status, and optionally a witness or a waiver.
type ProofObligation struct {
	Kind        ObligationKind
	Predicate   ttype.Predicate
	Description string
	Status      ProofStatus
	Witness     *ProofWitness
	Waiver      *Waiver
}

// FromGenerated lifts a ttype.GeneratedObligation (the output of
// ttype.Compatible) into a pending ProofObligation ready for the
// verification engine.
func FromGenerated(g ttype.GeneratedObligation) ProofObligation {
	return ProofObligation{
		Kind:        g.Kind,
		Predicate:   g.Predicate,
		Description: g.Description,
		Status:      StatusPending,
	}
}
