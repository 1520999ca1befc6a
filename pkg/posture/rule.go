package posture

// Rule is one geometric predicate. It reports an issue when its threshold is
// violated; an error means the landmark set could not be read.
type Rule struct {
	Name  string
	Check func(s LandmarkSet, t Thresholds) (Issue, bool, error)
}

// RuleSet runs every rule in order. A triggered rule never stops the rules
// after it.
type RuleSet []Rule

func (rs RuleSet) Evaluate(s LandmarkSet, t Thresholds) ([]Issue, error) {
	issues := make([]Issue, 0, len(rs))
	for _, r := range rs {
		issue, triggered, err := r.Check(s, t)
		if err != nil {
			return nil, err
		}
		if triggered {
			issues = append(issues, issue)
		}
	}
	return issues, nil
}
