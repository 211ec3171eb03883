// Package policy keeps the tabular Q-learning layer that nudges the
// ensemble price. States bucket expiry and stock, actions are coarse
// price moves, and values update online from observed rewards.
package policy

import (
	"math/rand"
	"sync"

	"ShelfPrice/internal/domain/models"
)

const (
	defaultEpsilon      = 0.1
	defaultLearningRate = 0.1
	defaultDiscount     = 0.95
)

// Option configures a Policy.
type Option func(*Policy)

// WithEpsilon overrides the exploration rate.
func WithEpsilon(eps float64) Option {
	return func(p *Policy) { p.epsilon = eps }
}

// WithRand injects the exploration source. Tests pass a seeded rand here.
func WithRand(r *rand.Rand) Option {
	return func(p *Policy) { p.rng = r }
}

// WithLearning overrides the update hyperparameters.
func WithLearning(alpha, gamma float64) Option {
	return func(p *Policy) {
		p.alpha = alpha
		p.gamma = gamma
	}
}

// Policy is a thread-safe epsilon-greedy Q-table over pricing actions.
type Policy struct {
	mu      sync.Mutex
	table   map[models.PolicyState]models.ActionValues
	epsilon float64
	alpha   float64
	gamma   float64
	rng     *rand.Rand
}

// New returns a policy with an empty table. States initialize lazily to
// zero values the first time they are seen.
func New(opts ...Option) *Policy {
	p := &Policy{
		table:   make(map[models.PolicyState]models.ActionValues),
		epsilon: defaultEpsilon,
		alpha:   defaultLearningRate,
		gamma:   defaultDiscount,
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

func (p *Policy) valuesLocked(s models.PolicyState) models.ActionValues {
	v, ok := p.table[s]
	if !ok {
		v = models.NewActionValues()
		p.table[s] = v
	}
	return v
}

// Select picks an action for the state: with probability epsilon any
// action uniformly, otherwise the highest-valued one.
func (p *Policy) Select(s models.PolicyState) models.Action {
	p.mu.Lock()
	defer p.mu.Unlock()

	values := p.valuesLocked(s)
	if p.rng != nil && p.rng.Float64() < p.epsilon {
		return models.Actions[p.rng.Intn(len(models.Actions))]
	}
	if p.rng == nil && rand.Float64() < p.epsilon {
		return models.Actions[rand.Intn(len(models.Actions))]
	}
	return values.Best()
}

// Update applies the one-step Q-learning rule for an observed transition.
func (p *Policy) Update(s models.PolicyState, a models.Action, reward float64, next models.PolicyState) {
	p.mu.Lock()
	defer p.mu.Unlock()

	values := p.valuesLocked(s)
	nextBest := p.valuesLocked(next).Max()
	q := values[a]
	values[a] = q + p.alpha*(reward+p.gamma*nextBest-q)
	p.table[s] = values
}

// Value reports the current estimate for a state/action pair.
func (p *Policy) Value(s models.PolicyState, a models.Action) float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.valuesLocked(s)[a]
}

// States reports how many states the table has seen.
func (p *Policy) States() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.table)
}

// Export deep-copies the table for persistence.
func (p *Policy) Export() map[models.PolicyState]models.ActionValues {
	p.mu.Lock()
	defer p.mu.Unlock()

	out := make(map[models.PolicyState]models.ActionValues, len(p.table))
	for s, v := range p.table {
		cp := make(models.ActionValues, len(v))
		for a, q := range v {
			cp[a] = q
		}
		out[s] = cp
	}
	return out
}

// Restore replaces the table with a persisted copy.
func (p *Policy) Restore(table map[models.PolicyState]models.ActionValues) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.table = make(map[models.PolicyState]models.ActionValues, len(table))
	for s, v := range table {
		cp := models.NewActionValues()
		for a, q := range v {
			cp[a] = q
		}
		p.table[s] = cp
	}
}
