package impulse

import "math"

type solverParams struct {
	iterations    int
	collisionSlop float64
	collisionBias float64
	errorBias     float64
	warmStart     bool
}

// solver is the sequential impulse solver. Its rows are rebuilt every step and
// never leave the package.
type solver struct {
	rows    []constraint
	skipped int
}

func (s *solver) reset() {
	// drop body pointers so removed bodies are not kept alive by a stale row
	for i := range s.rows {
		s.rows[i] = constraint{}
	}
	s.rows = s.rows[:0]
	s.skipped = 0
}

// addContact adds a contact row starting from cached, the impulse the same pair
// accumulated during the previous step.
func (s *solver) addContact(a, b *Body, pair bodyPair, contact Contact, cached float64) {
	s.rows = append(s.rows, constraint{
		kind:  contactConstraint,
		a:     a,
		b:     b,
		n:     contact.Normal,
		depth: contact.Depth,
		point: contact.Point,
		pair:  pair,
		jnAcc: cached,
	})
}

func (s *solver) addDistance(a, b *Body, joint *DistanceConstraint) {
	s.rows = append(s.rows, constraint{
		kind:  distanceConstraint,
		a:     a,
		b:     b,
		joint: joint,
	})
}

func (s *solver) addCustom(a, b *Body, custom Constrainer) {
	s.rows = append(s.rows, constraint{
		kind:   customConstraint,
		a:      a,
		b:      b,
		custom: custom,
	})
}

// prestep prepares every row and drops the ones with no effective mass (both
// bodies immovable, or an axis neither body can move along) along with custom
// rows that opt out of the step.
func (s *solver) prestep(dt float64, params *solverParams) {
	rows := s.rows[:0]
	for i := range s.rows {
		c := s.rows[i]
		if !c.PreStep(dt, params) {
			s.skipped++
			continue
		}
		rows = append(rows, c)
	}
	s.rows = rows

	if s.skipped > 0 {
		logger.Debug("skipped constraints", "count", s.skipped)
	}
}

func (s *solver) applyCachedImpulses(dt_coef float64) {
	for i := range s.rows {
		s.rows[i].ApplyCachedImpulse(dt_coef)
	}
}

// iterate runs a single pass over all rows in order.
func (s *solver) iterate() {
	for i := range s.rows {
		s.rows[i].ApplyImpulse()
	}
}

func (s *solver) solve(iterations int) {
	trace := tracing()
	for iter := 0; iter < iterations; iter++ {
		if !trace {
			s.iterate()
			continue
		}
		var total float64
		for i := range s.rows {
			total += math.Abs(s.rows[i].ApplyImpulse())
		}
		traceLog("solver iteration", "iter", iter, "rows", len(s.rows), "impulse", total)
	}
}

func (s *solver) postSolve() {
	for i := range s.rows {
		s.rows[i].PostSolve()
	}
}

// contactImpulses records the impulse of every solved contact row into cache,
// replacing what the previous step left there.
func (s *solver) contactImpulses(cache map[bodyPair]float64) {
	clear(cache)
	for i := range s.rows {
		c := &s.rows[i]
		if c.kind == contactConstraint && c.jnAcc != 0 {
			cache[c.pair] = c.jnAcc
		}
	}
}
