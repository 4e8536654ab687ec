package models

import "errors"

// Error taxonomy. Frame source failures are fatal to the monitor loop;
// artifact and delivery failures degrade a single episode and the loop
// continues.
var (
	ErrDeviceUnavailable = errors.New("camera device unavailable")
	ErrCaptureFailed     = errors.New("frame capture failed")
	ErrArtifactWrite     = errors.New("artifact write failed")
	ErrDelivery          = errors.New("notification delivery failed")
	ErrInvalidConfig     = errors.New("invalid configuration")
)
