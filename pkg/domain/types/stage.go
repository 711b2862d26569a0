package types

// Stage identifies a pipeline stage of a consult call. Warnings reference the
// stage that degraded.
type Stage string

const (
	StageRouting       Stage = "routing"
	StageExpert        Stage = "expert_analysis"
	StageDeepReasoning Stage = "deep_reasoning"
	StageDebate        Stage = "debate_detection"
	StageSynthesis     Stage = "synthesis"
	StageCitation      Stage = "citation_check"
)

// String returns the string representation of the stage
func (s Stage) String() string {
	return string(s)
}
