package materialize

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/torc-lang/torc/graphir"
	"github.com/torc-lang/torc/torcerr"
)

var printer = message.NewPrinter(language.English)

// instructionBytesPerNode is the heuristic code-size constant for §4.4
// step 6: estimated code size is node count × instructionBytesPerNode.
// Static data is the summed output sizes of literal nodes, with no added
// overhead constant.
const instructionBytesPerNode = 6

// ResourceFitReport is the §4.4 step 6 output: estimated usage against the
// platform's flash, RAM, and stack budgets, with every violation collected
// rather than failing on the first.
type ResourceFitReport struct {
	EstimatedCodeBytes   int64
	StaticDataBytes      int64
	PeakStackBytes       int64
	Violations           []torcerr.ResourceFitError
}

// OK reports whether every resource stayed within budget.
func (r ResourceFitReport) OK() bool {
	return len(r.Violations) == 0
}

// Describe renders a human-readable summary of r using locale-aware
// thousands separators, consistent with how diagnostics elsewhere in the
// pipeline favor readable byte counts over bare integers.
func (r ResourceFitReport) Describe() string {
	return printer.Sprintf("code=%d bytes, static data=%d bytes, peak stack=%d bytes",
		r.EstimatedCodeBytes, r.StaticDataBytes, r.PeakStackBytes)
}

// FitResources compares g's estimated footprint against platform's budget,
// per §4.4 step 6. It never hard-fails itself — every violation is
// collected into the report's Violations slice, and the caller (via
// Config.EnforceResourceFit) decides whether a violation aborts the
// pipeline or is accepted as a warning.
func FitResources(g *graphir.Graph, layout Layout, platform *PlatformDescription) ResourceFitReport {
	nodes := g.Nodes()
	report := ResourceFitReport{
		EstimatedCodeBytes: int64(len(nodes)) * instructionBytesPerNode,
		PeakStackBytes:     layout.PeakStack,
	}
	for _, n := range nodes {
		if n.Kind == graphir.KindLiteral {
			size, _ := TypeSizeAlign(firstOrZero(n.OutputTypes), layout.WordBytes)
			report.StaticDataBytes += size
		}
	}

	used := report.EstimatedCodeBytes + report.StaticDataBytes
	if used > int64(platform.Env.TotalFlash) {
		report.Violations = append(report.Violations, torcerr.ResourceFitError{
			Resource: "flash", Used: used, Budget: int64(platform.Env.TotalFlash),
		})
	}
	if report.StaticDataBytes > int64(platform.Env.TotalRAM) {
		report.Violations = append(report.Violations, torcerr.ResourceFitError{
			Resource: "ram", Used: report.StaticDataBytes, Budget: int64(platform.Env.TotalRAM),
		})
	}
	if platform.Env.StackCap != nil && report.PeakStackBytes > int64(*platform.Env.StackCap) {
		report.Violations = append(report.Violations, torcerr.ResourceFitError{
			Resource: "stack", Used: report.PeakStackBytes, Budget: int64(*platform.Env.StackCap),
		})
	}
	return report
}

func firstOrZero[T any](s []T) T {
	if len(s) == 0 {
		var zero T
		return zero
	}
	return s[0]
}
