package filtering

import (
	"fmt"
	"testing"

	"github.com/spigell/cv-tailor/internal/jobs"
)

func candidates(scores ...int) []Candidate {
	result := make([]Candidate, 0, len(scores))
	for idx, score := range scores {
		result = append(result, Candidate{
			Job:      &jobs.Posting{Title: fmt.Sprintf("posting%d", idx)},
			Analysis: &jobs.MatchAnalysis{MatchScore: score},
		})
	}
	return result
}

func titles(p *jobs.Packages) []string {
	out := make([]string, 0, p.Len())
	for _, pkg := range p.Items {
		out = append(out, pkg.Job.Title)
	}
	return out
}

func TestAdmitted(t *testing.T) {
	tests := []struct {
		score int
		want  bool
	}{
		{score: 0, want: false},
		{score: 59, want: false},
		{score: 60, want: true},
		{score: 61, want: true},
		{score: 100, want: true},
	}

	for _, tt := range tests {
		if got := Admitted(tt.score); got != tt.want {
			t.Fatalf("Admitted(%d) = %v, want %v", tt.score, got, tt.want)
		}
	}
}

func TestAdmit(t *testing.T) {
	tests := []struct {
		name   string
		scores []int
		want   []string
		step   Step
	}{
		{
			name:   "keeps discovery order",
			scores: []int{90, 40, 75},
			want:   []string{"posting0", "posting2"},
			step:   Step{Initial: 3, Dropped: 1, Left: 2},
		},
		{
			name:   "boundary",
			scores: []int{59, 60},
			want:   []string{"posting1"},
			step:   Step{Initial: 2, Dropped: 1, Left: 1},
		},
		{
			name:   "nothing clears threshold",
			scores: []int{10, 59},
			want:   []string{},
			step:   Step{Initial: 2, Dropped: 2, Left: 0},
		},
		{
			name:   "not a sort",
			scores: []int{61, 99, 70},
			want:   []string{"posting0", "posting1", "posting2"},
			step:   Step{Initial: 3, Dropped: 0, Left: 3},
		},
		{
			name: "empty input",
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			packages, step := Admit(candidates(tt.scores...))

			got := titles(packages)
			if fmt.Sprint(got) != fmt.Sprint(tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
			if step != tt.step {
				t.Fatalf("expected step %+v, got %+v", tt.step, step)
			}
		})
	}
}

func TestAdmitDropsIncompleteCandidates(t *testing.T) {
	input := []Candidate{
		{Job: &jobs.Posting{Title: "no analysis"}},
		{Analysis: &jobs.MatchAnalysis{MatchScore: 99}},
		{Job: &jobs.Posting{Title: "ok"}, Analysis: &jobs.MatchAnalysis{MatchScore: 80}},
	}

	packages, step := Admit(input)
	if packages.Len() != 1 || packages.Items[0].Job.Title != "ok" {
		t.Fatalf("unexpected packages: %v", titles(packages))
	}
	if step.Dropped != 2 {
		t.Fatalf("expected 2 dropped, got %d", step.Dropped)
	}
}

func TestAdmitCopiesValues(t *testing.T) {
	input := candidates(80)
	packages, _ := Admit(input)

	input[0].Job.Title = "mutated"
	input[0].Analysis.MatchScore = 1

	if packages.Items[0].Job.Title != "posting0" || packages.Items[0].Analysis.MatchScore != 80 {
		t.Fatalf("package must not alias its inputs: %+v", packages.Items[0])
	}
}
