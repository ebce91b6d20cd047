// Package scoring holds the deterministic rules used to grade sales-fresher resumes.
package scoring

type Verdict string

const (
	VerdictHire   Verdict = "HIRE"
	VerdictMaybe  Verdict = "MAYBE"
	VerdictReject Verdict = "REJECT"
)

const (
	hireThreshold  = 70
	maybeThreshold = 40
)

// VerdictForScore maps a total score onto the fixed HIRE/MAYBE/REJECT bands.
func VerdictForScore(score int) Verdict {
	switch {
	case score >= hireThreshold:
		return VerdictHire
	case score >= maybeThreshold:
		return VerdictMaybe
	default:
		return VerdictReject
	}
}

func (v Verdict) Valid() bool {
	switch v {
	case VerdictHire, VerdictMaybe, VerdictReject:
		return true
	}
	return false
}
