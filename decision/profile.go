package decision

import "github.com/torc-lang/torc/verify"

// AdjustProfile implements §4.6's "decision graph's aggregate state also
// modifies the verification profile": any Conflicted decision forces
// Certification; failing that, any Tentative decision lifts the profile
// to at least Integration; otherwise base is returned unchanged.
func AdjustProfile(base verify.Profile, g *Graph) verify.Profile {
	adjusted := base
	for _, d := range g.decisions {
		switch d.state {
		case Conflicted:
			return verify.ProfileCertification
		case Tentative:
			adjusted = verify.Escalate(adjusted, verify.ProfileIntegration)
		}
	}
	return adjusted
}

// Blocks reports whether the decision graph's state should block
// materialization outright (§4.6: "blocks materialization"), i.e. whether
// any decision is Conflicted.
func (g *Graph) Blocks() bool {
	for _, d := range g.decisions {
		if d.state == Conflicted {
			return true
		}
	}
	return false
}
