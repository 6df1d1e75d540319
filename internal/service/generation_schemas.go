package service

// JSON schemas for the structured payloads the orchestrator must return.
// Validation happens after the brace-span extraction and parse, so a model
// that answers with syntactically valid but wrongly shaped JSON is treated
// as a format failure, not a success.

const projectStructureSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["title", "description", "objectives"],
  "properties": {
    "title": {"type": "string", "minLength": 1},
    "description": {"type": "string", "minLength": 1},
    "objectives": {"type": "array", "items": {"type": "string"}, "minItems": 1},
    "milestones": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["title"],
        "properties": {
          "title": {"type": "string"},
          "description": {"type": "string"}
        }
      }
    },
    "deliverables": {"type": "array", "items": {"type": "string"}},
    "rubric": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["criterion", "maxPoints"],
        "properties": {
          "criterion": {"type": "string"},
          "maxPoints": {"type": "number", "minimum": 0}
        }
      }
    }
  }
}`

const oaMetadataSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["title", "description"],
  "properties": {
    "title": {"type": "string", "minLength": 1},
    "description": {"type": "string", "minLength": 1},
    "objectives": {"type": "array", "items": {"type": "string"}},
    "keywords": {"type": "array", "items": {"type": "string"}},
    "educationalLevel": {"type": "string"},
    "language": {"type": "string"},
    "estimatedDurationMinutes": {"type": "number", "minimum": 0}
  }
}`

const gradeSuggestionSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["suggestions"],
  "properties": {
    "suggestions": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["rubricItemId", "score"],
        "properties": {
          "rubricItemId": {"type": "integer", "minimum": 1},
          "score": {"type": "number", "minimum": 0},
          "feedback": {"type": "string"}
        }
      }
    },
    "generalFeedback": {"type": "string"}
  }
}`
