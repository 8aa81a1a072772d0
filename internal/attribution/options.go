package attribution

import "discoveryspark/domain/core"

// Options carries the tunable thresholds of the attribution engine.
// Defaults match the documented behavior; there are no hidden constants
// beyond these.
type Options struct {
	// TopN is the insight list cutoff per target.
	TopN int
	// ClassThreshold is the maximum distinct-value count for a target to
	// be treated as classification.
	ClassThreshold int
	// NeutralEpsilon is the correlation magnitude below which a trend is
	// reported as neutral.
	NeutralEpsilon float64
	// MinInteraction is the minimum |correlation| for a target pair to
	// produce an interaction record.
	MinInteraction float64
}

// DefaultOptions returns the documented defaults
func DefaultOptions() Options {
	return Options{
		TopN:           10,
		ClassThreshold: 10,
		NeutralEpsilon: 1e-9,
		MinInteraction: 0.05,
	}
}

// Validate rejects configurations that would make a run meaningless
func (o Options) Validate() error {
	if o.TopN <= 0 {
		return core.NewConfigurationError("top_n", "must be > 0")
	}
	if o.ClassThreshold < 2 {
		return core.NewConfigurationError("class_threshold", "must be >= 2")
	}
	if o.NeutralEpsilon < 0 {
		return core.NewConfigurationError("neutral_epsilon", "must be >= 0")
	}
	if o.MinInteraction < 0 || o.MinInteraction > 1 {
		return core.NewConfigurationError("min_interaction", "must be in [0, 1]")
	}
	return nil
}
