package gemini

import (
	_ "embed"
	"strconv"
	"strings"

	"github.com/spigell/cv-tailor/internal/jobs"
)

//go:embed listings_prompt.md
var listingsPromptTemplate string

//go:embed analysis_prompt.md
var analysisPromptTemplate string

func buildListingsPrompt(ref string, count int) string {
	r := strings.NewReplacer(
		"{{URL}}", strings.TrimSpace(ref),
		"{{COUNT}}", strconv.Itoa(count),
	)
	return r.Replace(listingsPromptTemplate)
}

func buildAnalysisPrompt(job *jobs.Posting, cv string) string {
	r := strings.NewReplacer(
		"{{CV}}", strings.TrimSpace(cv),
		"{{TITLE}}", job.Title,
		"{{COMPANY}}", job.Company,
		"{{LOCATION}}", job.Location,
		"{{DESCRIPTION}}", job.Description,
	)
	return r.Replace(analysisPromptTemplate)
}

func extractJSON(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSpace(raw)
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	raw = strings.Trim(raw, "`")
	return strings.TrimSpace(raw)
}
