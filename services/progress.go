package services

import "math"

// ComputeProgress returns the completion percentage for completedModules out
// of totalModules, rounded to two decimal places. A course with no modules
// always reports 0. Callers are responsible for clamping completedModules
// before persisting it; the calculation itself does not require
// completedModules <= totalModules.
func ComputeProgress(completedModules, totalModules int) float64 {
	if totalModules <= 0 || completedModules <= 0 {
		return 0
	}
	pct := float64(completedModules) / float64(totalModules) * 100
	return math.Round(pct*100) / 100
}
