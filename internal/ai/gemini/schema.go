package gemini

import "google.golang.org/genai"

func listingsSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeArray,
		Items: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"title":    {Type: genai.TypeString},
				"company":  {Type: genai.TypeString},
				"location": {Type: genai.TypeString},
				"description": {
					Type:        genai.TypeString,
					Description: "A detailed job description, at least 200 words.",
				},
			},
			Required: []string{"title", "company", "location", "description"},
		},
	}
}

func analysisSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"matchScore": {
				Type:        genai.TypeInteger,
				Description: "The match score from 0 to 100.",
			},
			"matchSummary": {
				Type:        genai.TypeString,
				Description: "A paragraph summarizing the analysis.",
			},
			"customizedCV": {
				Type:        genai.TypeString,
				Description: "The full text of the customized CV.",
			},
		},
		Required: []string{"matchScore", "matchSummary", "customizedCV"},
	}
}
