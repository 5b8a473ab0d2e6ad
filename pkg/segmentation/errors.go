package segmentation

import "fmt"

// InvalidInputError reports a malformed input image: wrong channel count,
// zero dimensions, or non-finite samples. It aborts only the current
// image's pipeline; a batch driver should record it and continue.
type InvalidInputError struct {
	Reason string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid input image: %s", e.Reason)
}

// DegenerateConfigError reports a configuration value the engine cannot
// work with, such as a non-positive minimum distance or an out-of-range
// relative threshold.
type DegenerateConfigError struct {
	Param string
	Value float64
}

func (e *DegenerateConfigError) Error() string {
	return fmt.Sprintf("degenerate configuration: %s=%g is out of range", e.Param, e.Value)
}
