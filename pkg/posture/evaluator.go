package posture

import "fmt"

// Evaluator turns one frame's landmarks into posture issues. It keeps no
// state between calls and is safe for concurrent use.
type Evaluator struct {
	thresholds Thresholds
	rules      map[Activity]RuleSet
}

func NewEvaluator(t Thresholds) (*Evaluator, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}

	return &Evaluator{
		thresholds: t,
		rules: map[Activity]RuleSet{
			ActivitySquat: SquatRules,
			ActivityDesk:  DeskRules,
		},
	}, nil
}

func (e *Evaluator) Thresholds() Thresholds {
	return e.thresholds
}

// Evaluate runs the rule set for activity. A nil landmark set is a valid
// outcome: no rule runs and the no-pose sentinel is returned.
func (e *Evaluator) Evaluate(set LandmarkSet, activity Activity) (FrameResult, error) {
	if set == nil {
		return NoPoseResult(), nil
	}

	rules, ok := e.rules[activity]
	if !ok {
		return FrameResult{}, fmt.Errorf("%w: %q", ErrInvalidActivity, activity)
	}

	if err := set.Validate(); err != nil {
		return FrameResult{}, err
	}

	issues, err := rules.Evaluate(set, e.thresholds)
	if err != nil {
		return FrameResult{}, fmt.Errorf("evaluate %s rules: %w", activity, err)
	}

	return FrameResult{
		PoseDetected: true,
		Issues:       issues,
	}, nil
}
