// Package filtering holds the admission policy that decides which analysed
// postings become application packages.
package filtering

import (
	"github.com/spigell/cv-tailor/internal/jobs"
)

// MinimumMatchScore is the fixed admission threshold. It is not configurable.
const MinimumMatchScore = 60

// Candidate is a posting together with its analysis, before admission.
type Candidate struct {
	Job      *jobs.Posting
	Analysis *jobs.MatchAnalysis
}

// Step describes the result of applying the policy.
type Step struct {
	Initial int
	Dropped int
	Left    int
}

// Admitted reports whether a score clears the threshold.
func Admitted(score int) bool {
	return score >= MinimumMatchScore
}

// Admit keeps the candidates whose score clears the threshold, preserving input order.
// Candidates missing a job or an analysis are dropped.
func Admit(candidates []Candidate) (*jobs.Packages, Step) {
	packages := &jobs.Packages{Items: make([]*jobs.ApplicationPackage, 0, len(candidates))}

	for _, c := range candidates {
		if c.Job == nil || c.Analysis == nil {
			continue
		}
		if !Admitted(c.Analysis.MatchScore) {
			continue
		}

		packages.Items = append(packages.Items, &jobs.ApplicationPackage{
			Job:      *c.Job,
			Analysis: *c.Analysis,
		})
	}

	return packages, Step{
		Initial: len(candidates),
		Dropped: len(candidates) - packages.Len(),
		Left:    packages.Len(),
	}
}
