package types

// Strategy is the routing decision for a consult call
type Strategy string

const (
	// StrategySingleAgent routes a targeted question to exactly one expert
	StrategySingleAgent Strategy = "single_agent"

	// StrategyMultiAgent runs the full council pipeline across all experts
	StrategyMultiAgent Strategy = "multi_agent"
)

// IsValid checks if the strategy is valid
func (s Strategy) IsValid() bool {
	return s == StrategySingleAgent || s == StrategyMultiAgent
}

// String returns the string representation of the strategy
func (s Strategy) String() string {
	return string(s)
}
