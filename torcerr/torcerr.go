// Package torcerr defines the closed, kind-tagged error taxonomy shared by
// every layer of the core engine (§7 of the specification).
//
// Leaf conditions are package-level sentinel errors so callers can test them
// with errors.Is. Where an error needs to carry entity-identifying context it
// is wrapped in one of the structured types below, each of which implements
// Unwrap so errors.Is/errors.As still reach the sentinel. ValidationError and
// ValidationErrors are the exception: they wrap no sentinel and have no Unwrap.
package torcerr

import "errors"

// Structural errors (§7 "Structural").
var (
	ErrNodeNotFound       = errors.New("node not found")
	ErrEdgeNotFound       = errors.New("edge not found")
	ErrRegionNotFound     = errors.New("region not found")
	ErrDanglingEdge       = errors.New("dangling edge")
	ErrPortOutOfRange     = errors.New("port out of range")
	ErrDuplicateID        = errors.New("duplicate id")
	ErrDuplicateRegionKid = errors.New("duplicate region child")
)

// Graph-shape errors (§7 "Graph-shape").
var ErrCycleDetected = errors.New("cycle detected")

// Type-system errors (§7 "Type-system").
var (
	ErrTypeMismatch       = errors.New("type mismatch on edge")
	ErrLinearityViolation = errors.New("linearity violation")
	ErrEffectViolation    = errors.New("effect violation")
)

// Verification errors (§7 "Verification").
var (
	ErrObligationUnresolved = errors.New("obligation unresolved")
	ErrSolverTimeout        = errors.New("solver timeout")
	ErrSolverUnknown        = errors.New("solver returned unknown")
	ErrWaiverRejected       = errors.New("waiver rejected")
)

// Materialization errors (§7 "Materialization").
var (
	ErrResourceFitFailure    = errors.New("resource fit failure")
	ErrCodegenFailure        = errors.New("codegen failure")
	ErrTargetInitFailure     = errors.New("target initialization failure")
	ErrLinkFailure           = errors.New("link failure")
	ErrBuildBlockedByConflict = errors.New("build blocked by decision conflicts")
)

// Decision errors (§7 "Decision").
var (
	ErrDecisionNotFound    = errors.New("decision not found")
	ErrInvalidTransition   = errors.New("invalid transition")
	ErrCircularDependency  = errors.New("circular dependency")
)

// Format errors (§7 "Format").
var (
	ErrInvalidMagic       = errors.New("invalid magic")
	ErrUnsupportedVersion = errors.New("unsupported version")
	ErrHashMismatch       = errors.New("hash mismatch")
	ErrFileTooSmall       = errors.New("file too small")
)

// StructuralError names the offending entity for a structural violation.
type StructuralError struct {
	Kind   string // e.g. "edge", "region", "port"
	ID     string
	Detail string
	Err    error
}

func (e *StructuralError) Error() string {
	msg := e.Kind
	if e.ID != "" {
		msg += " " + e.ID
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg + ": " + e.Err.Error()
}

func (e *StructuralError) Unwrap() error { return e.Err }

// LinearityError carries the (node, port, kind, consumer-count) tuple §7 asks for.
type LinearityError struct {
	NodeID    string
	Port      int
	Kind      string
	Consumers int
}

func (e *LinearityError) Error() string {
	return "linearity violation at node " + e.NodeID + ": kind=" + e.Kind
}

func (e *LinearityError) Unwrap() error { return ErrLinearityViolation }

// EffectError names the node and the effect gap.
type EffectError struct {
	NodeID   string
	Declared string
	Required string
}

func (e *EffectError) Error() string {
	return "effect violation at node " + e.NodeID + ": declared=" + e.Declared + " required=" + e.Required
}

func (e *EffectError) Unwrap() error { return ErrEffectViolation }

// TypeMismatchError names the edge and the expected/found types.
type TypeMismatchError struct {
	EdgeID   string
	Expected string
	Found    string
}

func (e *TypeMismatchError) Error() string {
	return "type mismatch on edge " + e.EdgeID + ": expected " + e.Expected + ", found " + e.Found
}

func (e *TypeMismatchError) Unwrap() error { return ErrTypeMismatch }

// MaterializationError names the failing pipeline stage.
type MaterializationError struct {
	Stage   string
	Message string
	Err     error
}

func (e *MaterializationError) Error() string {
	msg := "materialization stage " + e.Stage
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *MaterializationError) Unwrap() error { return e.Err }

// ResourceFitError names the offended resource and the overflow amount.
type ResourceFitError struct {
	Resource string // "flash", "ram", "stack"
	Used     int64
	Budget   int64
}

func (e *ResourceFitError) Error() string {
	return "resource fit failure: " + e.Resource + " overflow"
}

func (e *ResourceFitError) Unwrap() error { return ErrResourceFitFailure }

// DecisionError names the offending decision and transition.
type DecisionError struct {
	DecisionID string
	From       string
	To         string
	Err        error
}

func (e *DecisionError) Error() string {
	msg := "decision " + e.DecisionID
	if e.From != "" || e.To != "" {
		msg += " transition " + e.From + "->" + e.To
	}
	return msg + ": " + e.Err.Error()
}

func (e *DecisionError) Unwrap() error { return e.Err }

// FormatError names the format problem.
type FormatError struct {
	Detail string
	Err    error
}

func (e *FormatError) Error() string {
	msg := e.Err.Error()
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}

func (e *FormatError) Unwrap() error { return e.Err }

// ValidationError is a single field-level validation failure, mirroring the
// teacher's pkg/models.ValidationError.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

// ValidationErrors lets structural/linearity/effect/type-edge validators
// return every finding from a single pass instead of failing on the first.
type ValidationErrors []error

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return "validation failed"
	}
	return e[0].Error()
}

// Empty reports whether there are no accumulated errors.
func (e ValidationErrors) Empty() bool { return len(e) == 0 }

// AsError returns nil if there are no accumulated errors, else e.
func (e ValidationErrors) AsError() error {
	if e.Empty() {
		return nil
	}
	return e
}
