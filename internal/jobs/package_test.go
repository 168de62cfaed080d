package jobs

import (
	"encoding/json"
	"os"
	"testing"
)

func samplePackages() *Packages {
	return &Packages{
		Items: []*ApplicationPackage{
			{
				Job:      Posting{Title: "Senior React Developer", Company: "Acme", Location: "Remote"},
				Analysis: MatchAnalysis{MatchScore: 91, MatchSummary: "Strong React background", CustomizedCV: "cv-1"},
			},
			{
				Job:      Posting{Title: "Frontend Lead", Company: "Globex", Location: "Berlin"},
				Analysis: MatchAnalysis{MatchScore: 64, MatchSummary: "Some leadership gaps", CustomizedCV: "cv-2"},
			},
			{
				Job:      Posting{Title: "UI Engineer", Company: "Acme", Location: "London"},
				Analysis: MatchAnalysis{MatchScore: 75, MatchSummary: "Good fit", CustomizedCV: "cv-3"},
			},
		},
	}
}

func TestReportByCompanyGroupsInDiscoveryOrder(t *testing.T) {
	report := samplePackages().ReportByCompany()

	acme, ok := report["Acme"]
	if !ok {
		t.Fatalf("expected Acme key in report")
	}
	if len(acme) != 2 {
		t.Fatalf("expected 2 entries for Acme, got %d", len(acme))
	}
	if acme[0]["title"] != "Senior React Developer" || acme[1]["title"] != "UI Engineer" {
		t.Fatalf("unexpected order: %+v", acme)
	}
	if acme[0]["match_score"] != "91" {
		t.Fatalf("expected match_score 91, got %q", acme[0]["match_score"])
	}

	if len(report["Globex"]) != 1 {
		t.Fatalf("expected 1 entry for Globex, got %d", len(report["Globex"]))
	}
}

func TestFindByTitle(t *testing.T) {
	pkgs := samplePackages()

	found := pkgs.FindByTitle("Frontend Lead")
	if found == nil || found.Analysis.CustomizedCV != "cv-2" {
		t.Fatalf("unexpected package: %+v", found)
	}

	if pkgs.FindByTitle("missing") != nil {
		t.Fatalf("expected nil for unknown title")
	}

	var empty *Packages
	if empty.FindByTitle("Frontend Lead") != nil || empty.Len() != 0 {
		t.Fatalf("nil packages must behave as empty")
	}
}

func TestDumpToTmpFile(t *testing.T) {
	pkgs := samplePackages()

	name, err := pkgs.DumpToTmpFile()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	t.Cleanup(func() { os.Remove(name) })

	data, err := os.ReadFile(name)
	if err != nil {
		t.Fatalf("reading dump: %v", err)
	}

	var decoded Packages
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("decoding dump: %v", err)
	}

	if decoded.Len() != 3 {
		t.Fatalf("expected 3 packages, got %d", decoded.Len())
	}
	if decoded.Items[2].Job.Title != "UI Engineer" {
		t.Fatalf("unexpected last title: %q", decoded.Items[2].Job.Title)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		input   any
		wantErr bool
	}{
		{
			name:  "complete posting",
			input: &Posting{Title: "Go Developer", Company: "Acme", Location: "Remote", Description: "Build services"},
		},
		{
			name:    "posting without company",
			input:   &Posting{Title: "Go Developer", Location: "Remote", Description: "Build services"},
			wantErr: true,
		},
		{
			name:  "analysis at lower bound",
			input: &MatchAnalysis{MatchScore: 0, MatchSummary: "poor", CustomizedCV: "cv"},
		},
		{
			name:  "analysis at upper bound",
			input: &MatchAnalysis{MatchScore: 100, MatchSummary: "perfect", CustomizedCV: "cv"},
		},
		{
			name:    "analysis score above range",
			input:   &MatchAnalysis{MatchScore: 101, MatchSummary: "too good", CustomizedCV: "cv"},
			wantErr: true,
		},
		{
			name:    "analysis without cv",
			input:   &MatchAnalysis{MatchScore: 70, MatchSummary: "ok"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.input)
			if tt.wantErr && err == nil {
				t.Fatalf("expected validation error")
			}
			if !tt.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestPostingNormalize(t *testing.T) {
	p := &Posting{Title: "  Go Developer ", Company: "\tAcme\n", Location: " Remote", Description: " text "}
	p.Normalize()

	if p.Title != "Go Developer" || p.Company != "Acme" || p.Location != "Remote" || p.Description != "text" {
		t.Fatalf("unexpected normalized posting: %+v", p)
	}

	postings := &Postings{Items: []*Posting{p}}
	if titles := postings.Titles(); len(titles) != 1 || titles[0] != "Go Developer" {
		t.Fatalf("unexpected titles: %v", titles)
	}
}
