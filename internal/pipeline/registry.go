package pipeline

// Stage is a discrete position in the sales pipeline.
type Stage string

const (
	StageNew         Stage = "NEW"
	StageContacted   Stage = "CONTACTED"
	StageQualified   Stage = "QUALIFIED"
	StageProposal    Stage = "PROPOSAL"
	StageNegotiation Stage = "NEGOTIATION"
	StageClosing     Stage = "CLOSING"
	StageWon         Stage = "WON"
	StageLost        Stage = "LOST"
	StageOnboarding  Stage = "ONBOARDING"
	StageFollowUp    Stage = "FOLLOW_UP"
)

// PhaseID identifies a macro-step of the pipeline.
type PhaseID int

const (
	PhaseProspeccio PhaseID = 1
	PhaseTancament  PhaseID = 2
	PhasePostvenda  PhaseID = 3
)

type StageInfo struct {
	Stage Stage  `json:"stage"`
	Label string `json:"label"`
	Color string `json:"color"`
	// Outcome stages (WON/LOST) are reached by an explicit decision, never by
	// the step-forward ladder.
	Outcome bool `json:"outcome,omitempty"`
}

type Phase struct {
	ID     PhaseID     `json:"id"`
	Name   string      `json:"name"`
	Stages []StageInfo `json:"stages"`
}

// Phases is the process-wide stage catalog. Order matters: the slice order of
// phases and of stages inside a phase is the pipeline order.
var Phases = []Phase{
	{
		ID:   PhaseProspeccio,
		Name: "Prospecció",
		Stages: []StageInfo{
			{Stage: StageNew, Label: "Nou", Color: "gray"},
			{Stage: StageContacted, Label: "Contactat", Color: "blue"},
			{Stage: StageQualified, Label: "Qualificat", Color: "cyan"},
		},
	},
	{
		ID:   PhaseTancament,
		Name: "Tancament",
		Stages: []StageInfo{
			{Stage: StageProposal, Label: "Proposta", Color: "yellow"},
			{Stage: StageNegotiation, Label: "Negociació", Color: "orange"},
			{Stage: StageClosing, Label: "Tancant", Color: "purple"},
			{Stage: StageWon, Label: "Guanyat", Color: "green", Outcome: true},
			{Stage: StageLost, Label: "Perdut", Color: "red", Outcome: true},
		},
	},
	{
		ID:   PhasePostvenda,
		Name: "Postvenda",
		Stages: []StageInfo{
			{Stage: StageOnboarding, Label: "Onboarding", Color: "teal"},
			{Stage: StageFollowUp, Label: "Seguiment", Color: "indigo"},
		},
	},
}

// terminal stages take no further transitions; won continues into postvenda
var terminalStages = map[Stage]bool{
	StageLost: true,
}

type stagePos struct {
	phase   PhaseID
	phaseIx int // index into Phases
	stageIx int // index inside the phase
	ordinal int // global position
	info    StageInfo
}

var stageIndex = buildIndex()

func buildIndex() map[Stage]stagePos {
	idx := make(map[Stage]stagePos)
	ord := 0
	for pi, p := range Phases {
		for si, s := range p.Stages {
			idx[s.Stage] = stagePos{
				phase:   p.ID,
				phaseIx: pi,
				stageIx: si,
				ordinal: ord,
				info:    s,
			}
			ord++
		}
	}
	return idx
}

// Known reports whether the stage id belongs to the catalog.
func Known(s Stage) bool {
	_, ok := stageIndex[s]
	return ok
}

// PhaseOf returns the phase a stage belongs to.
func PhaseOf(s Stage) (PhaseID, bool) {
	pos, ok := stageIndex[s]
	if !ok {
		return 0, false
	}
	return pos.phase, true
}

// Ordinal returns the global position of a stage across all phases.
func Ordinal(s Stage) (int, bool) {
	pos, ok := stageIndex[s]
	if !ok {
		return 0, false
	}
	return pos.ordinal, true
}

// Info returns label/color metadata for a stage.
func Info(s Stage) (StageInfo, bool) {
	pos, ok := stageIndex[s]
	if !ok {
		return StageInfo{}, false
	}
	return pos.info, true
}

// StagesOfPhase returns the ordered stage list of a phase, nil if unknown.
func StagesOfPhase(id PhaseID) []StageInfo {
	for _, p := range Phases {
		if p.ID == id {
			out := make([]StageInfo, len(p.Stages))
			copy(out, p.Stages)
			return out
		}
	}
	return nil
}

// AllStages returns every stage in pipeline order.
func AllStages() []Stage {
	out := make([]Stage, 0, len(stageIndex))
	for _, p := range Phases {
		for _, s := range p.Stages {
			out = append(out, s.Stage)
		}
	}
	return out
}

// NextStatusInPhase returns the next non-outcome stage inside the same phase,
// or "" if s is the last ladder stage of its phase, an outcome, or unknown.
func NextStatusInPhase(s Stage) (Stage, bool) {
	pos, ok := stageIndex[s]
	if !ok || pos.info.Outcome {
		return "", false
	}
	stages := Phases[pos.phaseIx].Stages
	for i := pos.stageIx + 1; i < len(stages); i++ {
		if !stages[i].Outcome {
			return stages[i].Stage, true
		}
	}
	return "", false
}

// Outcomes returns the decision stages reachable from s within its phase.
func Outcomes(s Stage) []Stage {
	pos, ok := stageIndex[s]
	if !ok || pos.info.Outcome {
		return nil
	}
	var out []Stage
	for _, st := range Phases[pos.phaseIx].Stages {
		if st.Outcome {
			out = append(out, st.Stage)
		}
	}
	return out
}

// FirstStatusOfNextPhase returns the entry stage of the following phase, or
// "" when s sits in the last phase or is unknown.
func FirstStatusOfNextPhase(s Stage) (Stage, bool) {
	pos, ok := stageIndex[s]
	if !ok {
		return "", false
	}
	if pos.phaseIx+1 >= len(Phases) {
		return "", false
	}
	next := Phases[pos.phaseIx+1].Stages
	if len(next) == 0 {
		return "", false
	}
	return next[0].Stage, true
}

// IsTerminal reports whether a stage accepts no further transitions.
func IsTerminal(s Stage) bool {
	return terminalStages[s]
}
