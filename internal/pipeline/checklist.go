package pipeline

// CheckDef is a static checklist item attached to a phase. Required checks
// gate the advance to the next phase; optional ones never block.
type CheckDef struct {
	ID       string `json:"id"`
	Label    string `json:"label"`
	Required bool   `json:"required"`
	HasForm  bool   `json:"has_form"`
}

// phaseChecks is the static check catalog, keyed by phase.
var phaseChecks = map[PhaseID][]CheckDef{
	PhaseProspeccio: {
		{ID: "first_contact", Label: "Primer contacte realitzat", Required: true, HasForm: true},
		{ID: "company_profile", Label: "Fitxa d'empresa completada", Required: true},
		{ID: "sector_research", Label: "Recerca de sector", Required: false},
	},
	PhaseTancament: {
		{ID: "proposal_sent", Label: "Proposta enviada", Required: true, HasForm: true},
		{ID: "budget_confirmed", Label: "Pressupost confirmat", Required: true},
		{ID: "decision_maker", Label: "Decisor identificat", Required: true},
		{ID: "competitor_notes", Label: "Notes de competència", Required: false, HasForm: true},
	},
	PhasePostvenda: {
		{ID: "onboarding_call", Label: "Trucada d'onboarding", Required: true, HasForm: true},
		{ID: "satisfaction_survey", Label: "Enquesta de satisfacció", Required: false},
	},
}

// ChecksOfPhase returns the checklist items of a phase, nil if it has none.
func ChecksOfPhase(id PhaseID) []CheckDef {
	defs := phaseChecks[id]
	out := make([]CheckDef, len(defs))
	copy(out, defs)
	return out
}

// CheckByID finds a check definition inside a phase.
func CheckByID(id PhaseID, checkID string) (CheckDef, bool) {
	for _, d := range phaseChecks[id] {
		if d.ID == checkID {
			return d, true
		}
	}
	return CheckDef{}, false
}
