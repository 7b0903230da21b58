package assistant

import "strings"

// QueryKind is the coarse intent of a user question, used to pick the prompt
// template and the history context to attach.
type QueryKind string

const (
	// KindStatistics asks for counts, totals or rankings over history.
	KindStatistics QueryKind = "statistics"
	// KindInstruction asks how to fix or service something.
	KindInstruction QueryKind = "instruction"
	// KindGeneral is everything else.
	KindGeneral QueryKind = "general"
)

var statisticsKeywords = []string{
	"how many", "how often", "count", "statistics", "total",
	"top ", "most frequent", "longest", "downtime", "report",
}

var instructionKeywords = []string{
	"how to", "how do i", "fix", "repair", "instruction",
	"troubleshoot", "not working", "broken", "leaking", "vibrating",
}

// ClassifyQuery maps a free-form question to a QueryKind by keyword match.
// Statistics keywords win over instruction keywords, so "how many repairs"
// is a statistics question.
func ClassifyQuery(query string) QueryKind {
	q := strings.ToLower(query)
	for _, kw := range statisticsKeywords {
		if strings.Contains(q, kw) {
			return KindStatistics
		}
	}
	for _, kw := range instructionKeywords {
		if strings.Contains(q, kw) {
			return KindInstruction
		}
	}
	return KindGeneral
}
