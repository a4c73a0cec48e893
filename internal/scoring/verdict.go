package scoring

// Verdict is the categorical relevance of a resume.
type Verdict string

const (
	VerdictHigh   Verdict = "High"
	VerdictMedium Verdict = "Medium"
	VerdictLow    Verdict = "Low"
)

const (
	highThreshold   = 75.0
	mediumThreshold = 45.0
)

// VerdictFor maps a final score to its verdict.
func VerdictFor(score float64) Verdict {
	switch {
	case score >= highThreshold:
		return VerdictHigh
	case score >= mediumThreshold:
		return VerdictMedium
	default:
		return VerdictLow
	}
}
