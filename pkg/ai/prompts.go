package ai

import (
	"fmt"
	"strings"
)

// BuildProjectPrompt produces the prompt for project scaffolding generation.
// The idea text must already be validated and sanitized by the caller.
func BuildProjectPrompt(taskType, tone, idea string) string {
	builder := strings.Builder{}
	builder.WriteString("You are an instructional designer for project-based learning.\n")
	fmt.Fprintf(&builder, "Design a %s for students based on this idea, using a %s tone.\n\n", strings.ToLower(taskType), tone)
	builder.WriteString("## Idea\n")
	builder.WriteString(idea)
	builder.WriteString("\n\nRespond with a single JSON object:\n")
	builder.WriteString(`{
  "title": "...",
  "description": "...",
  "objectives": ["..."],
  "milestones": [{"title": "...", "description": "..."}],
  "deliverables": ["..."],
  "rubric": [{"criterion": "...", "maxPoints": 10}]
}`)
	builder.WriteString("\nReturn JSON only.")
	return builder.String()
}

// BuildMetadataPrompt produces the prompt for learning-object metadata
// extraction from a free-text description.
func BuildMetadataPrompt(description string) string {
	builder := strings.Builder{}
	builder.WriteString("Extract learning object metadata from the following material description.\n\n")
	builder.WriteString("## Description\n")
	builder.WriteString(description)
	builder.WriteString("\n\nRespond with a single JSON object:\n")
	builder.WriteString(`{
  "title": "...",
  "description": "...",
  "objectives": ["..."],
  "keywords": ["..."],
  "educationalLevel": "...",
  "language": "...",
  "estimatedDurationMinutes": 60
}`)
	builder.WriteString("\nReturn JSON only.")
	return builder.String()
}

// RubricCriterion is the slice of a rubric item needed to build a grading
// prompt without importing the model types.
type RubricCriterion struct {
	ID        uint
	Criterion string
	MaxPoints float64
}

// BuildGradingPrompt produces the prompt for AI-assisted grade suggestions.
// documentRef points at the submitted work (file URL or inlined quiz
// answers).
func BuildGradingPrompt(taskTitle, documentRef string, criteria []RubricCriterion) string {
	builder := strings.Builder{}
	builder.WriteString("You are assisting a teacher grading a student submission.\n")
	fmt.Fprintf(&builder, "Task: %s\n", taskTitle)
	fmt.Fprintf(&builder, "Submitted work: %s\n\n", documentRef)
	builder.WriteString("Score the submission against each rubric criterion:\n")
	for _, criterion := range criteria {
		fmt.Fprintf(&builder, "- id %d: %s (0 to %.1f points)\n", criterion.ID, criterion.Criterion, criterion.MaxPoints)
	}
	builder.WriteString("\nRespond with a single JSON object:\n")
	builder.WriteString(`{
  "suggestions": [{"rubricItemId": 1, "score": 8, "feedback": "..."}],
  "generalFeedback": "..."
}`)
	builder.WriteString("\nReturn JSON only.")
	return builder.String()
}
