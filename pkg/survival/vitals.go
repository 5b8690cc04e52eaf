package survival

const (
	vitalMin = 0
	vitalMax = 100
)

// Vital identifies one of the four tracked resources.
type Vital int

const (
	Health Vital = iota
	Food
	Water
	Radiation
)

func (v Vital) String() string {
	switch v {
	case Health:
		return "health"
	case Food:
		return "food"
	case Water:
		return "water"
	case Radiation:
		return "radiation"
	default:
		return "unknown"
	}
}

// DeathCause names the terminal condition that ended a run.
type DeathCause string

const (
	CauseInjuries   DeathCause = "injuries"
	CauseStarvation DeathCause = "starvation"
	CauseRadiation  DeathCause = "radiation"
)

var deathMessages = map[DeathCause]string{
	CauseInjuries:   "💀 You died from your injuries... The wasteland claims another soul.",
	CauseStarvation: "💀 You died of starvation and thirst... Your body becomes part of the wasteland.",
	CauseRadiation:  "☢️ Radiation poisoning has consumed you... You become one with the toxic earth.",
}

// Vitals holds health, food and water (higher is better) and radiation
// (lower is better). Every value stays within [0, 100].
type Vitals struct {
	Health    int `json:"health"`
	Food      int `json:"food"`
	Water     int `json:"water"`
	Radiation int `json:"radiation"`
}

// NewVitals returns the starting vitals of a new game.
func NewVitals() Vitals {
	return Vitals{Health: 100, Food: 50, Water: 40, Radiation: 0}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func (v *Vitals) ptr(vital Vital) *int {
	switch vital {
	case Health:
		return &v.Health
	case Food:
		return &v.Food
	case Water:
		return &v.Water
	case Radiation:
		return &v.Radiation
	}
	return nil
}

// Get returns the current value of a vital.
func (v Vitals) Get(vital Vital) int {
	if p := v.ptr(vital); p != nil {
		return *p
	}
	return 0
}

// Apply adds amount (which may be negative) and clamps. It returns the delta
// actually applied.
func (v *Vitals) Apply(vital Vital, amount int) int {
	p := v.ptr(vital)
	if p == nil {
		return 0
	}
	before := *p
	*p = clamp(before+amount, vitalMin, vitalMax)
	return *p - before
}

// Set assigns a clamped value.
func (v *Vitals) Set(vital Vital, value int) {
	if p := v.ptr(vital); p != nil {
		*p = clamp(value, vitalMin, vitalMax)
	}
}

// Normalize clamps every vital into range.
func (v *Vitals) Normalize() {
	for _, vital := range []Vital{Health, Food, Water, Radiation} {
		v.Set(vital, v.Get(vital))
	}
}

// Terminal reports whether the vitals describe a dead player. Conditions
// are checked in a fixed order: injuries, starvation, radiation.
func (v Vitals) Terminal() (DeathCause, bool) {
	switch {
	case v.Health <= vitalMin:
		return CauseInjuries, true
	case v.Food <= vitalMin && v.Water <= vitalMin:
		return CauseStarvation, true
	case v.Radiation >= vitalMax:
		return CauseRadiation, true
	}
	return "", false
}
