package calculation

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/finsim/retirement-simulator/internal/domain"
)

func TestPhaseForAge(t *testing.T) {
	in := domain.SimulationInputs{
		RetirementAge:  65,
		LifeExpectancy: 90,
	}

	tests := []struct {
		age      int
		expected domain.Phase
	}{
		{35, domain.PhaseWorking},
		{64, domain.PhaseWorking},
		{65, domain.PhaseEarlyRetirement},
		{72, domain.PhaseEarlyRetirement},
		{73, domain.PhaseRMD},
		{89, domain.PhaseRMD},
		{90, domain.PhaseTerminal},
		{95, domain.PhaseTerminal},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, PhaseForAge(tt.age, in), "age %d", tt.age)
	}
}

// A household retiring past the RMD start age never sees the
// early-retirement phase.
func TestLateRetirementSkipsEarlyPhase(t *testing.T) {
	in := domain.SimulationInputs{
		RetirementAge:  75,
		LifeExpectancy: 90,
	}

	assert.Equal(t, domain.PhaseWorking, PhaseForAge(74, in))
	assert.Equal(t, domain.PhaseRMD, PhaseForAge(75, in))
}

func TestPhaseTransitionsOneDirectional(t *testing.T) {
	order := []domain.Phase{
		domain.PhaseWorking,
		domain.PhaseEarlyRetirement,
		domain.PhaseRMD,
		domain.PhaseTerminal,
	}

	for i, from := range order {
		for j, to := range order {
			got := ValidTransition(from, to)
			assert.Equal(t, j >= i, got, "%s -> %s", from, to)
		}
	}
}

func TestPhaseFlags(t *testing.T) {
	assert.True(t, domain.PhaseWorking.Accumulating())
	assert.False(t, domain.PhaseWorking.Decumulating())

	assert.True(t, domain.PhaseEarlyRetirement.Decumulating())
	assert.True(t, domain.PhaseRMD.Decumulating())

	assert.False(t, domain.PhaseTerminal.Accumulating())
	assert.False(t, domain.PhaseTerminal.Decumulating())
}
