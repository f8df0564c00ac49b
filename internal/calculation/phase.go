package calculation

import (
	"github.com/finsim/retirement-simulator/internal/domain"
)

// PhaseForAge maps an age to its lifecycle phase for the given inputs.
// The mapping is pure and one-directional in age:
//
//	age <  retirementAge                      -> working
//	retirementAge <= age < rmdStartAge        -> early_retirement
//	rmdStartAge   <= age < lifeExpectancy     -> rmd
//	age >= lifeExpectancy                     -> terminal (estate tail)
//
// A household that retires at or after the RMD start age skips the
// early-retirement phase entirely; it never revisits it.
func PhaseForAge(age int, in domain.SimulationInputs) domain.Phase {
	switch {
	case age < in.RetirementAge && age < in.LifeExpectancy:
		return domain.PhaseWorking
	case age < RMDStartAge && age < in.LifeExpectancy:
		return domain.PhaseEarlyRetirement
	case age < in.LifeExpectancy:
		return domain.PhaseRMD
	default:
		return domain.PhaseTerminal
	}
}

// phaseRank orders phases for transition checks.
func phaseRank(p domain.Phase) int {
	switch p {
	case domain.PhaseWorking:
		return 0
	case domain.PhaseEarlyRetirement:
		return 1
	case domain.PhaseRMD:
		return 2
	default:
		return 3
	}
}

// ValidTransition reports whether moving from one phase to another is
// allowed: staying put or moving forward, never backward.
func ValidTransition(from, to domain.Phase) bool {
	return phaseRank(to) >= phaseRank(from)
}
