package posture

import "errors"

var (
	ErrInvalidActivity    = errors.New("invalid exercise type")
	ErrMalformedLandmarks = errors.New("malformed landmark set")
	ErrUnknownJoint       = errors.New("unknown joint")
	ErrInvalidThresholds  = errors.New("invalid thresholds")
)
