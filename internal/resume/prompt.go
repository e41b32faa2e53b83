package resume

import "encoding/json"

const systemPrompt = "You are a professional resume writer. Use action verbs, measurable outcomes, and stay factual. " +
	"Tailor to the target role. Do NOT invent details not provided. Output only valid JSON per schema."

const userPromptPrefix = "Write a resume draft for the following candidate. " +
	"Return ONLY the JSON fields defined by the schema.\n\nInput:\n"

// responseSchema constrains the model output to the Resume shape. The schema
// is part of the generation contract; field names must match types.go.
var responseSchema = json.RawMessage(`{
	"type": "object",
	"additionalProperties": false,
	"required": ["headline", "summary", "sections"],
	"properties": {
		"headline": {"type": "string", "description": "Name + target title line"},
		"summary": {"type": "string", "description": "3-5 sentence summary"},
		"sections": {
			"type": "object",
			"additionalProperties": false,
			"required": ["experience", "skills", "education"],
			"properties": {
				"experience": {
					"type": "array",
					"items": {
						"type": "object",
						"additionalProperties": false,
						"required": ["company", "title", "location", "dates", "bullets"],
						"properties": {
							"company": {"type": "string"},
							"title": {"type": "string"},
							"location": {"type": "string"},
							"dates": {"type": "string"},
							"bullets": {"type": "array", "items": {"type": "string"}, "minItems": 3, "maxItems": 7}
						}
					}
				},
				"skills": {"type": "array", "items": {"type": "string"}, "minItems": 8, "maxItems": 20},
				"education": {
					"type": "array",
					"items": {
						"type": "object",
						"additionalProperties": false,
						"required": ["school", "credential", "year"],
						"properties": {
							"school": {"type": "string"},
							"credential": {"type": "string"},
							"year": {"type": "integer"}
						}
					}
				}
			}
		}
	}
}`)
