package eval

import "strings"

// Metrics are the precision/recall scores of one extraction run against
// a gold label set.
type Metrics struct {
	Precision float64
	Recall    float64
	F1        float64
	TruePos   int
	FalsePos  int
	FalseNeg  int
}

// Score compares predicted labels to gold labels, case-insensitively and
// ignoring duplicates on either side.
func Score(predicted, gold []string) Metrics {
	predSet := normalizeSet(predicted)
	goldSet := normalizeSet(gold)

	var m Metrics
	for p := range predSet {
		if _, ok := goldSet[p]; ok {
			m.TruePos++
		} else {
			m.FalsePos++
		}
	}
	for g := range goldSet {
		if _, ok := predSet[g]; !ok {
			m.FalseNeg++
		}
	}

	if m.TruePos+m.FalsePos > 0 {
		m.Precision = float64(m.TruePos) / float64(m.TruePos+m.FalsePos)
	}
	if m.TruePos+m.FalseNeg > 0 {
		m.Recall = float64(m.TruePos) / float64(m.TruePos+m.FalseNeg)
	}
	if m.Precision+m.Recall > 0 {
		m.F1 = 2 * m.Precision * m.Recall / (m.Precision + m.Recall)
	}
	return m
}

func normalizeSet(labels []string) map[string]struct{} {
	set := make(map[string]struct{}, len(labels))
	for _, l := range labels {
		l = strings.ToLower(strings.TrimSpace(l))
		if l != "" {
			set[l] = struct{}{}
		}
	}
	return set
}
