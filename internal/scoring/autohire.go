package scoring

import (
	"strconv"
	"strings"
)

const (
	autoHireScore     = 75
	autoHireMinHits   = 2
	autoHireMaybeFrom = 40
)

// strongSalesKeywords overlaps with salesKeywords on purpose but is tuned separately.
var strongSalesKeywords = []string{
	"sales",
	"business development",
	"client",
	"target",
	"revenue",
	"conversion",
	"lead",
	"crm",
}

type AutoHireResult struct {
	Verdict Verdict  `json:"verdict"`
	Reasons []string `json:"reasons"`
}

// AutoHireDecision applies the auto-hire rules to a score and the text it came from.
// The first matching rule wins. NaN and negative scores end up as REJECT.
func AutoHireDecision(score float64, resumeText string) AutoHireResult {
	hits := KeywordHits(resumeText)

	if score >= autoHireScore && hits >= autoHireMinHits {
		return AutoHireResult{
			Verdict: VerdictHire,
			Reasons: []string{
				"Strong sales keywords detected",
				"Score " + formatScore(score) + " meets auto-hire threshold",
			},
		}
	}

	if score >= autoHireMaybeFrom {
		return AutoHireResult{
			Verdict: VerdictMaybe,
			Reasons: []string{"Moderate score", "Some sales indicators found"},
		}
	}

	return AutoHireResult{
		Verdict: VerdictReject,
		Reasons: []string{"Low score or insufficient sales relevance"},
	}
}

// KeywordHits counts the distinct auto-hire keywords present in text.
func KeywordHits(text string) int {
	lower := strings.ToLower(text)
	hits := 0
	for _, k := range strongSalesKeywords {
		if strings.Contains(lower, k) {
			hits++
		}
	}
	return hits
}

// formatScore prints whole numbers without a fractional part (75, not 75.0).
func formatScore(score float64) string {
	return strconv.FormatFloat(score, 'f', -1, 64)
}
