package dto

// RubricScoreInput is one per-criterion score/feedback pair submitted by the
// grader or carried as the grader's current unsaved edits.
type RubricScoreInput struct {
	RubricItemID uint    `json:"rubric_item_id" validate:"required,gt=0"`
	Score        float64 `json:"score" validate:"gte=0"`
	Feedback     string  `json:"feedback"`
}

// GradeSubmissionRequest is the persistence-boundary payload: it must carry
// a fully resolved grading state.
type GradeSubmissionRequest struct {
	RubricScores      []RubricScoreInput `json:"rubric_scores" validate:"dive"`
	GeneralFeedback   string             `json:"general_feedback"`
	QuizScoreOverride *float64           `json:"quiz_score_override" validate:"omitempty,gte=0"`
}

// GradeSuggestionRequest races one AI grading call against a deadline. The
// current unsaved edits are included because a successful suggestion
// overwrites them.
type GradeSuggestionRequest struct {
	CurrentScores []RubricScoreInput `json:"current_scores" validate:"dive"`
	DeadlineMs    int64              `json:"deadline_ms" validate:"omitempty,gt=0"`
	Provider      string             `json:"provider" validate:"omitempty,oneof=gemini openai"`
	Model         string             `json:"model" validate:"omitempty,max=64"`
}

// RubricScoreState is the merged per-criterion state returned after applying
// AI suggestions.
type RubricScoreState struct {
	RubricItemID uint    `json:"rubric_item_id"`
	Criterion    string  `json:"criterion"`
	MaxPoints    float64 `json:"max_points"`
	Score        float64 `json:"score"`
	Feedback     string  `json:"feedback"`
}

// GradeSuggestionResponse carries the merged rubric state plus totals.
// Nothing in it has been persisted.
type GradeSuggestionResponse struct {
	Scores          []RubricScoreState `json:"scores"`
	GeneralFeedback string             `json:"general_feedback"`
	Total           float64            `json:"total"`
	Max             float64            `json:"max"`
	Provider        string             `json:"provider"`
	Model           string             `json:"model"`
}
