package level

// Level range of a tracked interest.
const (
	MinLevel = 1
	MaxLevel = 10
)

// Policy decides whether an interest at currentLevel has earned the next
// level given its trailing scores (oldest first). Implementations must be
// stateless: the same inputs always give the same answer.
type Policy interface {
	ShouldAdvance(scores []int, currentLevel int) bool
}

// PolicyFunc adapts a function to Policy.
type PolicyFunc func(scores []int, currentLevel int) bool

func (f PolicyFunc) ShouldAdvance(scores []int, currentLevel int) bool {
	return f(scores, currentLevel)
}

// Never is the policy used when none is configured.
var Never Policy = PolicyFunc(func([]int, int) bool { return false })

// ThresholdPolicy advances when the trailing Window holds at least
// MinSamples scores and its mean is strictly greater than the bar for the
// current level.
// Levels without a bar never advance.
type ThresholdPolicy struct {
	MinSamples int
	Bars       map[int]float64
}

func (p ThresholdPolicy) ShouldAdvance(scores []int, currentLevel int) bool {
	bar, ok := p.Bars[currentLevel]
	if !ok {
		return false
	}
	w := WindowOf(scores)
	if w.Len() < max(p.MinSamples, 1) {
		return false
	}
	return w.Mean() > bar
}

// ShouldAdvance applies policy with the level range enforced: an interest
// already at MaxLevel never advances, and a nil policy behaves as Never.
func ShouldAdvance(policy Policy, scores []int, currentLevel int) bool {
	if policy == nil || currentLevel >= MaxLevel {
		return false
	}
	return policy.ShouldAdvance(WindowOf(scores).Values(), Clamp(currentLevel))
}

// Next returns the level after current, capped at MaxLevel.
func Next(current int) int {
	return min(Clamp(current)+1, MaxLevel)
}

// Clamp forces a persisted level into [MinLevel, MaxLevel].
func Clamp(level int) int {
	return max(MinLevel, min(level, MaxLevel))
}
