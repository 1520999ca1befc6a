package posture

import "fmt"

type Activity string

const (
	ActivitySquat Activity = "squat"
	ActivityDesk  Activity = "desk"
)

func Activities() []Activity {
	return []Activity{ActivitySquat, ActivityDesk}
}

func (a Activity) Valid() bool {
	return a == ActivitySquat || a == ActivityDesk
}

// ParseActivity accepts exactly the supported names. There is no fallback
// activity.
func ParseActivity(s string) (Activity, error) {
	a := Activity(s)
	if !a.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidActivity, s)
	}
	return a, nil
}
