package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextStatusInPhaseOrdering(t *testing.T) {
	for _, s := range AllStages() {
		next, ok := NextStatusInPhase(s)
		if !ok {
			continue
		}
		p1, _ := PhaseOf(s)
		p2, ok2 := PhaseOf(next)
		require.True(t, ok2, "next of %s must be known", s)
		assert.Equal(t, p1, p2, "next of %s must stay in phase", s)

		o1, _ := Ordinal(s)
		o2, _ := Ordinal(next)
		assert.Greater(t, o2, o1, "next of %s must have greater ordinal", s)
	}
}

func TestFirstStatusOfNextPhase(t *testing.T) {
	for pi, p := range Phases {
		last := p.Stages[len(p.Stages)-1].Stage
		first, ok := FirstStatusOfNextPhase(last)
		if pi == len(Phases)-1 {
			assert.False(t, ok, "last phase has no next")
			continue
		}
		require.True(t, ok)
		assert.Equal(t, Phases[pi+1].Stages[0].Stage, first)
	}
}

func TestUnknownStage(t *testing.T) {
	assert.False(t, Known("BOGUS"))

	_, ok := NextStatusInPhase("BOGUS")
	assert.False(t, ok)
	_, ok = FirstStatusOfNextPhase("BOGUS")
	assert.False(t, ok)
	_, ok = PhaseOf("BOGUS")
	assert.False(t, ok)
}

func TestOutcomeStages(t *testing.T) {
	// outcomes never appear as a ladder step
	next, ok := NextStatusInPhase(StageClosing)
	assert.False(t, ok, "closing is the last ladder stage of tancament, got %s", next)

	assert.ElementsMatch(t, []Stage{StageWon, StageLost}, Outcomes(StageNegotiation))
	assert.Nil(t, Outcomes(StageWon), "no outcomes from an outcome")

	// won crosses into postvenda, lost is terminal
	first, ok := FirstStatusOfNextPhase(StageWon)
	require.True(t, ok)
	assert.Equal(t, StageOnboarding, first)
	assert.True(t, IsTerminal(StageLost))
	assert.False(t, IsTerminal(StageWon))
}

func TestChecklistCatalog(t *testing.T) {
	for _, p := range Phases {
		defs := ChecksOfPhase(p.ID)
		require.NotEmpty(t, defs, "phase %d must carry checks", p.ID)

		required := 0
		for _, d := range defs {
			if d.Required {
				required++
			}
			got, ok := CheckByID(p.ID, d.ID)
			require.True(t, ok)
			assert.Equal(t, d, got)
		}
		assert.Greater(t, required, 0, "phase %d must have at least one required check", p.ID)
	}

	_, ok := CheckByID(PhaseProspeccio, "missing")
	assert.False(t, ok)
}
