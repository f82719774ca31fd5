package structure

// Rule is one weighted predicate in an additive scoring battery. Detectors
// keep their rules as explicit ordered lists so each contributing factor is
// individually testable and shows up by tag in the result.
type Rule[T any] struct {
	Tag    string
	Weight float64
	Match  func(T) bool
}

// evalRules evaluates a battery against a value and returns the total score
// plus the tags of every rule that matched, in battery order.
func evalRules[T any](rules []Rule[T], v T) (float64, []string) {
	var score float64
	var tags []string
	for _, r := range rules {
		if r.Match(v) {
			score += r.Weight
			tags = append(tags, r.Tag)
		}
	}
	return score, tags
}
