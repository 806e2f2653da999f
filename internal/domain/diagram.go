package domain

import "strings"

// DiagramLabel is one numbered label on a diagram image with its expected answer.
type DiagramLabel struct {
	Number int     `json:"number"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Answer string  `json:"answer"`
}

// LabelResult is the per-label outcome of a diagram check.
type LabelResult struct {
	Number    int    `json:"number"`
	Submitted string `json:"submitted"`
	Correct   bool   `json:"correct"`
}

// CheckLabels grades submitted answers against the expected labels.
// Matching is exact string equality after lower-casing and trimming
// surrounding whitespace. No partial credit, no fuzzy matching.
// Labels with no submitted answer grade as incorrect.
func CheckLabels(labels []DiagramLabel, answers map[int]string) []LabelResult {
	results := make([]LabelResult, len(labels))
	for i, label := range labels {
		submitted := answers[label.Number]
		results[i] = LabelResult{
			Number:    label.Number,
			Submitted: submitted,
			Correct:   normalizeAnswer(submitted) == normalizeAnswer(label.Answer),
		}
	}
	return results
}

// Score counts correct results.
func Score(results []LabelResult) int {
	var n int
	for _, r := range results {
		if r.Correct {
			n++
		}
	}
	return n
}

func normalizeAnswer(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
