package survival

// Disease is an active illness. Effects apply once per day until Remaining
// runs out.
type Disease struct {
	ID          string `json:"id"`
	Label       string `json:"label"`
	Description string `json:"description"`
	Health      int    `json:"health"`
	Food        int    `json:"food"`
	Water       int    `json:"water"`
	Remaining   int    `json:"remaining"`
}

var diseaseCatalog = []Disease{
	{
		ID:          "radiation_sickness",
		Label:       "☢️ Radiation Sickness",
		Description: "Cellular damage from radiation exposure",
		Health:      -5,
		Food:        -3,
		Remaining:   5,
	},
	{
		ID:          "wasteland_fever",
		Label:       "🤒 Wasteland Fever",
		Description: "High fever from contaminated environment",
		Health:      -8,
		Water:       -5,
		Remaining:   4,
	},
	{
		ID:          "infected_wound",
		Label:       "🩸 Infected Wound",
		Description: "Deep cut has become severely infected",
		Health:      -10,
		Remaining:   3,
	},
}

func findDisease(id string) (Disease, bool) {
	for _, d := range diseaseCatalog {
		if d.ID == id {
			return d, true
		}
	}
	return Disease{}, false
}

// ContractDisease infects the player with a random disease. It does nothing
// if the player is already sick.
func (e *Engine) ContractDisease() bool {
	if e.disease != nil {
		return false
	}
	d := diseaseCatalog[e.rng.Pick(len(diseaseCatalog))]
	e.disease = &d
	e.logf(SeverityDanger, "🦠 You contracted %s! %s.", d.Label, d.Description)
	e.notifier.Notify(SoundCough)
	return true
}

// processDisease applies one day of disease effects.
func (e *Engine) processDisease() {
	if e.disease == nil {
		return
	}
	d := e.disease
	e.vitals.Apply(Health, d.Health)
	e.vitals.Apply(Food, d.Food)
	e.vitals.Apply(Water, d.Water)
	e.logf(SeverityWarning, "%s weakens you. (%d days remaining)", d.Label, max(d.Remaining-1, 0))
	d.Remaining--
	if d.Remaining <= 0 {
		e.logf(SeveritySuccess, "✨ You recovered from %s!", d.Label)
		e.disease = nil
	}
}

// cureDisease clears the active disease.
func (e *Engine) cureDisease() bool {
	if e.disease == nil {
		return false
	}
	e.logf(SeveritySuccess, "💊 The antibiotics cure your %s!", e.disease.Label)
	e.disease = nil
	return true
}
