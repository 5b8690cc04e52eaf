package rng

// Script replays fixed draws. IntN consumes from Ints (reduced modulo n) and
// Float64 consumes from Floats. Once a queue is empty IntN returns 0 and
// Float64 returns 0.999, so ranges resolve to their minimum and chance
// events do not fire.
type Script struct {
	Ints   []int
	Floats []float64
}

var _ Source = (*Script)(nil)

// NewScript creates a scripted source from integer draws.
func NewScript(ints ...int) *Script {
	return &Script{Ints: ints}
}

// WithFloats appends chance draws.
func (s *Script) WithFloats(floats ...float64) *Script {
	s.Floats = append(s.Floats, floats...)
	return s
}

func (s *Script) IntN(n int) int {
	if len(s.Ints) == 0 || n <= 0 {
		return 0
	}
	v := s.Ints[0]
	s.Ints = s.Ints[1:]
	if v < 0 {
		v = -v
	}
	return v % n
}

func (s *Script) Float64() float64 {
	if len(s.Floats) == 0 {
		return 0.999
	}
	v := s.Floats[0]
	s.Floats = s.Floats[1:]
	return v
}
