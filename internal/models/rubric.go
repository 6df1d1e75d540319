package models

// RubricItem is one criterion of a task's grading rubric. Position fixes the
// order criteria are shown and evaluated in.
type RubricItem struct {
	ID        uint    `gorm:"primaryKey" json:"id"`
	TaskID    uint    `gorm:"not null;index" json:"task_id"`
	Criterion string  `gorm:"size:512;not null" json:"criterion"`
	MaxPoints float64 `gorm:"not null" json:"max_points"`
	Position  int     `gorm:"not null;default:0" json:"position"`
}

// RubricScore is the persisted per-criterion result of a grading action.
type RubricScore struct {
	ID           uint    `gorm:"primaryKey" json:"id"`
	SubmissionID uint    `gorm:"not null;index" json:"submission_id"`
	RubricItemID uint    `gorm:"not null;index" json:"rubric_item_id"`
	Score        float64 `gorm:"not null" json:"score"`
	Feedback     string  `gorm:"type:text" json:"feedback"`
}
