package scoring

import (
	"strings"
	"unicode/utf8"
)

// Component caps. Quality has no explicit cap; its two bonuses top out at 15.
const (
	MaxKeywordScore    = 40
	MaxExperienceScore = 25
	MaxTechScore       = 20
	MaxQualityScore    = 15
)

var salesKeywords = []string{"sales", "client", "revenue", "customer", "lead", "closing"}

type weightedTerm struct {
	term   string
	points int
}

var experienceTerms = []weightedTerm{
	{"experience", 10},
	{"intern", 5},
	{"year", 10},
}

var techTerms = []weightedTerm{
	{"crm", 10},
	{"excel", 5},
	{"salesforce", 10},
}

// Breakdown is the per-category scorecard behind a total score.
type Breakdown struct {
	Keywords   int `json:"keywords"`
	Experience int `json:"experience"`
	Tech       int `json:"tech"`
	Quality    int `json:"quality"`
}

func (b Breakdown) Total() int {
	return b.Keywords + b.Experience + b.Tech + b.Quality
}

type Result struct {
	Score     int       `json:"score"`
	Verdict   Verdict   `json:"verdict"`
	Breakdown Breakdown `json:"breakdown"`
}

// ScoreSalesFresher grades raw resume text. Matching is case-insensitive substring
// containment; length bonuses use the character count of the unmodified text.
func ScoreSalesFresher(text string) Result {
	lower := strings.ToLower(text)

	keywordScore := 0
	for _, k := range salesKeywords {
		if strings.Contains(lower, k) {
			keywordScore += 5
		}
	}

	breakdown := Breakdown{
		Keywords:   min(keywordScore, MaxKeywordScore),
		Experience: min(sumPresent(lower, experienceTerms), MaxExperienceScore),
		Tech:       min(sumPresent(lower, techTerms), MaxTechScore),
		Quality:    qualityScore(text),
	}

	score := breakdown.Total()
	return Result{
		Score:     score,
		Verdict:   VerdictForScore(score),
		Breakdown: breakdown,
	}
}

func sumPresent(lower string, terms []weightedTerm) int {
	total := 0
	for _, t := range terms {
		if strings.Contains(lower, t.term) {
			total += t.points
		}
	}
	return total
}

func qualityScore(text string) int {
	length := utf8.RuneCountInString(text)
	score := 0
	if length > 800 {
		score += 10
	}
	if length > 1200 {
		score += 5
	}
	return score
}
