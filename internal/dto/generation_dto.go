package dto

// GenerateProjectRequest asks the orchestrator to scaffold a project,
// challenge, or problem from a free-text idea.
type GenerateProjectRequest struct {
	Idea          string `json:"idea" validate:"required,min=10"`
	TaskType      string `json:"task_type" validate:"required,oneof=PROJECT CHALLENGE PROBLEM"`
	Tone          string `json:"tone" validate:"omitempty,max=64"`
	SearchEnabled bool   `json:"search_enabled"`
	Provider      string `json:"provider" validate:"omitempty,oneof=gemini openai"`
	Model         string `json:"model" validate:"omitempty,max=64"`
}

// ExtractMetadataRequest asks the orchestrator to extract learning-object
// metadata from a material description.
type ExtractMetadataRequest struct {
	Description string `json:"description" validate:"required,min=10"`
	Provider    string `json:"provider" validate:"omitempty,oneof=gemini openai"`
	Model       string `json:"model" validate:"omitempty,max=64"`
}

// GenerationResponse is the uniform envelope returned by every generation
// call site.
type GenerationResponse struct {
	Success  bool                   `json:"success"`
	Data     map[string]interface{} `json:"data,omitempty"`
	Error    string                 `json:"error,omitempty"`
	Provider string                 `json:"provider,omitempty"`
	Model    string                 `json:"model,omitempty"`
}
