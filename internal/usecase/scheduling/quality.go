package scheduling

// DefaultExpectedSeconds is the answer time considered normal when none is configured.
const DefaultExpectedSeconds = 30.0

// TimeToQuality derives a 0-5 recall quality from correctness and answer speed.
// Quality 2 is never produced.
func TimeToQuality(wasCorrect bool, timeTakenSeconds, expectedSeconds float64) int {
	if expectedSeconds <= 0 {
		expectedSeconds = DefaultExpectedSeconds
	}
	fast := 0.5 * expectedSeconds

	if !wasCorrect {
		// a quick wrong answer reads as careless rather than unknown
		if timeTakenSeconds < fast {
			return 1
		}
		return 0
	}

	switch {
	case timeTakenSeconds <= fast:
		return 5
	case timeTakenSeconds <= expectedSeconds:
		return 4
	default:
		return 3
	}
}
