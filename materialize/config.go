package materialize

import "github.com/torc-lang/torc/verify"

// EmitTarget selects what code emission actually produces.
type EmitTarget int

const (
	EmitGraphStats EmitTarget = iota
	EmitIR
	EmitObject
	EmitExecutable
)

func (t EmitTarget) String() string {
	switch t {
	case EmitGraphStats:
		return "graph-stats"
	case EmitIR:
		return "ir"
	case EmitObject:
		return "object"
	case EmitExecutable:
		return "executable"
	default:
		return "unknown"
	}
}

// OptimizationProfile selects the code-emission tradeoff.
type OptimizationProfile int

const (
	OptDebug OptimizationProfile = iota
	OptBalanced
	OptThroughput
	OptMinimalSize
	OptDeterministicTiming
)

func (p OptimizationProfile) String() string {
	switch p {
	case OptDebug:
		return "debug"
	case OptBalanced:
		return "balanced"
	case OptThroughput:
		return "throughput"
	case OptMinimalSize:
		return "minimal-size"
	case OptDeterministicTiming:
		return "deterministic-timing"
	default:
		return "unknown"
	}
}

// CodegenConfig configures the final code-emission stage.
type CodegenConfig struct {
	EmitTarget   EmitTarget
	Optimization OptimizationProfile
	OutputDir    string
	FunctionName string `validate:"required"`
}

// Validate runs struct-tag validation over c.
func (c *CodegenConfig) Validate() error {
	if err := validate.Struct(c); err != nil {
		return describeValidationErrors(err)
	}
	return nil
}

// Config is materialize's top-level input: a target platform, a gate
// profile and obligation-resolution policy, the transform registry, and an
// optional code-generation configuration. EnforceResourceFit selects
// whether a resource-fit violation hard-fails the pipeline or is folded
// into the report as a warning.
type Config struct {
	Platform           PlatformDescription
	GateProfile        verify.Profile
	Transforms         *TransformRegistry
	EnforceResourceFit bool
	Codegen            *CodegenConfig // nil means graph-stats-only, no emission
}

// Artifact is what a successful materialize run produces: paths to any
// emitted files and the primary artifact's byte size.
type Artifact struct {
	Target        EmitTarget
	PrimaryPath   string
	AuxiliaryPaths []string
	PrimaryBytes  int64
}
