package interview

import "math"

// DisplayReadiness rescales the raw readiness signal for display. Raw values
// run 0-80 during normal progress, with exactly 100 signalling "ready, with
// bonus", so 80 displays as 100% and 100 displays as 125%. The bonus is
// intentionally uncapped upward; progress-bar clamping is the client's job.
// A negative raw value means no signal yet and returns nil, never a number
// derived from the formula.
func DisplayReadiness(raw int) *int {
	if raw < 0 {
		return nil
	}
	display := int(math.Round(float64(raw) / 80.0 * 100.0))
	return &display
}
