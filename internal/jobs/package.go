package jobs

import (
	"encoding/json"
	"fmt"
	"os"
)

// MatchAnalysis is the model verdict for one posting and one CV.
type MatchAnalysis struct {
	MatchScore   int    `json:"matchScore" mapstructure:"matchScore" validate:"gte=0,lte=100"`
	MatchSummary string `json:"matchSummary" mapstructure:"matchSummary" validate:"required"`
	CustomizedCV string `json:"customizedCV" mapstructure:"customizedCV" validate:"required"`
}

// ApplicationPackage pairs an admitted posting with its analysis.
type ApplicationPackage struct {
	Job      Posting       `json:"job"`
	Analysis MatchAnalysis `json:"analysis"`
}

type Packages struct {
	Items []*ApplicationPackage `json:"items"`
}

func (p *Packages) Len() int {
	if p == nil {
		return 0
	}
	return len(p.Items)
}

func (p *Packages) FindByTitle(title string) *ApplicationPackage {
	if p == nil {
		return nil
	}

	for _, pkg := range p.Items {
		if pkg.Job.Title == title {
			return pkg
		}
	}

	return nil
}

// ReportByCompany groups packages by company, keeping discovery order inside each group.
func (p *Packages) ReportByCompany() map[string][]map[string]string {
	report := make(map[string][]map[string]string)
	if p == nil {
		return report
	}

	for _, pkg := range p.Items {
		key := pkg.Job.Company
		report[key] = append(report[key], map[string]string{
			"title":       pkg.Job.Title,
			"location":    pkg.Job.Location,
			"match_score": fmt.Sprintf("%d", pkg.Analysis.MatchScore),
			"summary":     pkg.Analysis.MatchSummary,
		})
	}

	return report
}

func (p *Packages) DumpToTmpFile() (string, error) {
	file, err := os.CreateTemp("", "packages_*.json")
	if err != nil {
		return "", err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(p); err != nil {
		return "", err
	}
	return file.Name(), nil
}
