package ai

import (
	"context"

	"github.com/spigell/cv-tailor/internal/jobs"
)

// ListingGenerator turns a search reference (usually a job board URL) into postings.
type ListingGenerator interface {
	GenerateListings(ctx context.Context, ref string) (*jobs.Postings, error)
}

// MatchAnalyzer scores a CV against one posting and rewrites it for that posting.
type MatchAnalyzer interface {
	AnalyzeMatch(ctx context.Context, job *jobs.Posting, cv string) (*jobs.MatchAnalysis, error)
}
