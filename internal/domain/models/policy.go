package models

import "fmt"

// Action is a discrete price-adjustment decision.
type Action string

const (
	ActionIncrease      Action = "increase"
	ActionMaintain      Action = "maintain"
	ActionDecreaseSmall Action = "decrease_small"
	ActionDecreaseLarge Action = "decrease_large"
)

// Actions lists all actions in selection (tie-break) order.
var Actions = []Action{ActionIncrease, ActionMaintain, ActionDecreaseSmall, ActionDecreaseLarge}

// Multiplier returns the price adjustment for the action, applied as
// price *= (1 + Multiplier).
func (a Action) Multiplier() float64 {
	switch a {
	case ActionIncrease:
		return 0.05
	case ActionMaintain:
		return 0.0
	case ActionDecreaseSmall:
		return -0.05
	case ActionDecreaseLarge:
		return -0.15
	default:
		return 0.0
	}
}

// PolicyState is a discretized (days-to-expiry, stock-level) bucket pair.
type PolicyState struct {
	ExpiryBucket int `json:"expiry_bucket"`
	StockBucket  int `json:"stock_bucket"`
}

// NewPolicyState buckets raw product attributes: days capped at 10, stock
// integer-divided into buckets of 20 capped at bucket 5.
func NewPolicyState(daysToExpiry, stockLeft int) PolicyState {
	eb := daysToExpiry
	if eb > 10 {
		eb = 10
	}
	if eb < 0 {
		eb = 0
	}
	sb := stockLeft / 20
	if sb > 5 {
		sb = 5
	}
	return PolicyState{ExpiryBucket: eb, StockBucket: sb}
}

// MarshalText encodes the state as "expiry:stock" so policy tables can be
// used as JSON object keys.
func (s PolicyState) MarshalText() ([]byte, error) {
	return []byte(fmt.Sprintf("%d:%d", s.ExpiryBucket, s.StockBucket)), nil
}

// UnmarshalText decodes the "expiry:stock" key form.
func (s *PolicyState) UnmarshalText(text []byte) error {
	if _, err := fmt.Sscanf(string(text), "%d:%d", &s.ExpiryBucket, &s.StockBucket); err != nil {
		return fmt.Errorf("invalid policy state key %q: %w", text, err)
	}
	return nil
}

// ActionValues holds the running expected-reward estimate per action for one
// state. Entries are created all-zero and only mutated by the policy's
// update rule.
type ActionValues map[Action]float64

// NewActionValues returns a zero-initialized value set.
func NewActionValues() ActionValues {
	av := make(ActionValues, len(Actions))
	for _, a := range Actions {
		av[a] = 0
	}
	return av
}

// Best returns the highest-valued action, ties broken in Actions order.
func (av ActionValues) Best() Action {
	best := Actions[0]
	bestV := av[best]
	for _, a := range Actions[1:] {
		if av[a] > bestV {
			best = a
			bestV = av[a]
		}
	}
	return best
}

// Max returns the highest stored value.
func (av ActionValues) Max() float64 {
	return av[av.Best()]
}
