// Package history filters, sorts and summarizes analysis records the way
// the history view presents them. Everything here is pure and local to the
// full record list; nothing is paginated server-side.
package history

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"resume-analyzer/internal/analyses"
)

// ScoreBracket selects records by overall score.
type ScoreBracket string

const (
	ScoreAll    ScoreBracket = "all"
	Score9To10  ScoreBracket = "9-10"
	Score8To9   ScoreBracket = "8-9"
	Score7To8   ScoreBracket = "7-8"
	ScoreBelow7 ScoreBracket = "below-7"
)

// SortKey orders the filtered records.
type SortKey string

const (
	SortLatest  SortKey = "latest"
	SortOldest  SortKey = "oldest"
	SortHighest SortKey = "highest"
	SortLowest  SortKey = "lowest"
	SortName    SortKey = "name"
)

// Query combines a free-text filter, a score bracket and a sort key.
// Zero values mean no text filter, all scores and latest first.
type Query struct {
	Text  string
	Score ScoreBracket
	Sort  SortKey
}

// ParseScoreBracket validates a bracket name. Empty means all.
func ParseScoreBracket(raw string) (ScoreBracket, error) {
	switch b := ScoreBracket(strings.ToLower(strings.TrimSpace(raw))); b {
	case "":
		return ScoreAll, nil
	case ScoreAll, Score9To10, Score8To9, Score7To8, ScoreBelow7:
		return b, nil
	default:
		return "", fmt.Errorf("unknown score filter %q (want all, 9-10, 8-9, 7-8 or below-7)", raw)
	}
}

// ParseSort validates a sort name. Empty means latest.
func ParseSort(raw string) (SortKey, error) {
	switch k := SortKey(strings.ToLower(strings.TrimSpace(raw))); k {
	case "":
		return SortLatest, nil
	case SortLatest, SortOldest, SortHighest, SortLowest, SortName:
		return k, nil
	default:
		return "", fmt.Errorf("unknown sort %q (want latest, oldest, highest, lowest or name)", raw)
	}
}

// Apply filters records by q and then sorts the survivors. The input slice
// is not modified.
func Apply(records []analyses.Record, q Query) []analyses.Record {
	out := Filter(records, q.Text, q.Score)
	Sort(out, q.Sort)
	return out
}

// Filter keeps records whose name, email or file name contains text
// (case-insensitively) and whose score falls in bracket. text is matched
// as typed, so surrounding spaces are part of the substring.
func Filter(records []analyses.Record, text string, bracket ScoreBracket) []analyses.Record {
	needle := strings.ToLower(text)
	out := make([]analyses.Record, 0, len(records))
	for _, rec := range records {
		if matchesText(rec, needle) && bracket.Contains(rec.OverallScore) {
			out = append(out, rec)
		}
	}
	return out
}

func matchesText(rec analyses.Record, needle string) bool {
	if needle == "" {
		return true
	}
	for _, field := range []string{rec.Name(), rec.Email(), rec.FileName} {
		if strings.Contains(strings.ToLower(field), needle) {
			return true
		}
	}
	return false
}

// Contains reports whether score falls in the bracket. Unknown brackets
// behave like all.
func (b ScoreBracket) Contains(score float64) bool {
	switch b {
	case Score9To10:
		return score >= 9 && score <= 10
	case Score8To9:
		return score >= 8 && score < 9
	case Score7To8:
		return score >= 7 && score < 8
	case ScoreBelow7:
		return score < 7
	default:
		return true
	}
}

// Sort orders records in place. Ties keep their incoming order.
func Sort(records []analyses.Record, key SortKey) {
	var less func(a, b analyses.Record) bool
	switch key {
	case SortOldest:
		less = func(a, b analyses.Record) bool { return a.CreatedAt.Before(b.CreatedAt) }
	case SortHighest:
		less = func(a, b analyses.Record) bool { return a.OverallScore > b.OverallScore }
	case SortLowest:
		less = func(a, b analyses.Record) bool { return a.OverallScore < b.OverallScore }
	case SortName:
		// Collator is not safe for concurrent use; one per call.
		col := collate.New(language.English)
		less = func(a, b analyses.Record) bool { return col.CompareString(a.Name(), b.Name()) < 0 }
	default:
		less = func(a, b analyses.Record) bool { return a.CreatedAt.After(b.CreatedAt) }
	}
	sort.SliceStable(records, func(i, j int) bool { return less(records[i], records[j]) })
}
