package gemini

import "google.golang.org/genai"

func str() *genai.Schema {
	return &genai.Schema{Type: genai.TypeString}
}

func strList() *genai.Schema {
	return &genai.Schema{Type: genai.TypeArray, Items: str()}
}

func object(required []string, props map[string]*genai.Schema) *genai.Schema {
	return &genai.Schema{Type: genai.TypeObject, Properties: props, Required: required}
}

func list(item *genai.Schema) *genai.Schema {
	return &genai.Schema{Type: genai.TypeArray, Items: item}
}

// ResponseSchema describes the analysis object the model must return.
func ResponseSchema() *genai.Schema {
	minRating, maxRating := 1.0, 10.0
	return object(
		[]string{"personalDetails", "resumeContent", "skills", "aiFeedback"},
		map[string]*genai.Schema{
			"personalDetails": object(nil, map[string]*genai.Schema{
				"name":      str(),
				"email":     str(),
				"phone":     str(),
				"linkedIn":  str(),
				"portfolio": str(),
			}),
			"resumeContent": object(nil, map[string]*genai.Schema{
				"summary": str(),
				"workExperience": list(object(
					[]string{"title", "company", "duration", "description"},
					map[string]*genai.Schema{
						"title":       str(),
						"company":     str(),
						"duration":    str(),
						"description": str(),
					},
				)),
				"education": list(object(
					[]string{"degree", "institution", "duration"},
					map[string]*genai.Schema{
						"degree":      str(),
						"institution": str(),
						"duration":    str(),
						"details":     str(),
					},
				)),
				"projects": list(object(
					[]string{"name", "description"},
					map[string]*genai.Schema{
						"name":         str(),
						"description":  str(),
						"technologies": strList(),
					},
				)),
				"certifications": list(object(
					[]string{"name", "issuer", "date"},
					map[string]*genai.Schema{
						"name":   str(),
						"issuer": str(),
						"date":   str(),
					},
				)),
			}),
			"skills": object([]string{"technical", "soft"}, map[string]*genai.Schema{
				"technical": strList(),
				"soft":      strList(),
			}),
			"aiFeedback": object(
				[]string{"rating", "improvementAreas", "suggestedSkills", "summary"},
				map[string]*genai.Schema{
					"rating":           {Type: genai.TypeNumber, Minimum: &minRating, Maximum: &maxRating},
					"improvementAreas": strList(),
					"suggestedSkills":  strList(),
					"summary":          str(),
				},
			),
		},
	)
}
