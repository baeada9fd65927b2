package scoring

import (
	"math"

	"github.com/dotcommander/tqa/internal/taxonomy"
)

// ScoreDocument folds segment scores into a document score under the given
// policy. A nil override scores with the defaults. The function is pure: the
// same inputs always produce the same result.
func ScoreDocument(scores []SegmentScore, override *taxonomy.SettingsOverride) DocumentScore {
	settings := taxonomy.Merge(override)

	doc := DocumentScore{
		TotalSegments:     len(scores),
		Settings:          settings,
		CategoryCounts:    make(map[taxonomy.Category]int),
		SeverityCounts:    make(map[taxonomy.Severity]int),
		Matrix:            make(map[taxonomy.Category]map[taxonomy.Severity]int),
		CategoryPenalties: make(map[taxonomy.Category]int),
	}
	for _, c := range taxonomy.Categories() {
		row := make(map[taxonomy.Severity]int)
		for _, s := range taxonomy.Severities() {
			row[s] = 0
		}
		doc.Matrix[c] = row
		doc.CategoryPenalties[c] = 0
	}

	for _, seg := range scores {
		doc.TotalWordCount += seg.WordCount
		doc.TotalPenalty += seg.TotalPenalty
	}

	errorScore := 0.0
	if doc.TotalWordCount > 0 {
		errorScore = float64(doc.TotalPenalty) / float64(doc.TotalWordCount) * 1000
	}
	doc.RawErrorScore = errorScore
	doc.ErrorScore = round2(errorScore)

	for _, seg := range scores {
		for _, a := range seg.Annotations {
			doc.TotalAnnotations++

			cat, catOK := taxonomy.ParseCategory(a.ErrorType)
			sev, sevOK := taxonomy.ParseSeverity(a.Severity)

			if sevOK && sev == taxonomy.Critical {
				doc.CriticalErrorCount++
			}

			if catOK {
				doc.CategoryCounts[cat]++
				doc.CategoryPenalties[cat] += taxonomy.Penalty(a.Severity)
			} else {
				doc.Unclassified.Categories++
			}
			if sevOK {
				doc.SeverityCounts[sev]++
			} else {
				doc.Unclassified.Severities++
			}
			if catOK && sevOK {
				doc.Matrix[cat][sev]++
			}
		}
	}

	doc.ErrorScorePass = errorScore <= settings.PassFailThreshold
	doc.CriticalPass = doc.CriticalErrorCount <= settings.CriticalErrorMax
	doc.OverallPass = doc.ErrorScorePass && doc.CriticalPass
	doc.Rating = settings.RateErrorScore(errorScore)

	return doc
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
