package history

import (
	"strconv"
	"time"

	"resume-analyzer/internal/analyses"
)

// Stats is the summary shown above the history list.
type Stats struct {
	Total        int     `json:"total"`
	AverageScore string  `json:"averageScore"`
	ThisMonth    int     `json:"thisMonth"`
	TopScore     float64 `json:"topScore"`
}

// Summarize computes Stats over records. ThisMonth counts records created
// in the same calendar month and year as now, in now's location.
func Summarize(records []analyses.Record, now time.Time) Stats {
	st := Stats{Total: len(records), AverageScore: "0.0"}
	if len(records) == 0 {
		return st
	}
	var sum float64
	for _, rec := range records {
		sum += rec.OverallScore
		if rec.OverallScore > st.TopScore {
			st.TopScore = rec.OverallScore
		}
		created := rec.CreatedAt.In(now.Location())
		if created.Year() == now.Year() && created.Month() == now.Month() {
			st.ThisMonth++
		}
	}
	st.AverageScore = strconv.FormatFloat(sum/float64(len(records)), 'f', 1, 64)
	return st
}
