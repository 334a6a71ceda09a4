package interp

import "math/rand"

// pseudoRand backs `rand`/`srand`/`rrand` (spec §4.4): a deterministic PRNG
// seeded via `srand`, grounded on math/rand.Rand (the stdlib's own generator
// is a deterministic additive generator, satisfying the spec's "Mersenne
// Twister recommended; implementers may substitute ..." latitude).
type pseudoRand struct {
	r    *rand.Rand
	seed int64
}

func newPseudoRand(seed int64) *pseudoRand {
	return &pseudoRand{r: rand.New(rand.NewSource(seed)), seed: seed}
}

func (p *pseudoRand) Int63() int64 { return p.r.Int63() }

func (p *pseudoRand) Seed(seed int64) {
	p.seed = seed
	p.r = rand.New(rand.NewSource(seed))
}

func (p *pseudoRand) State() int64 { return p.seed }
