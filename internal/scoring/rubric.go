package scoring

import "github.com/aulaforge/aulaforge-api/internal/models"

// Suggestion is one AI-proposed score/feedback pair for a rubric item.
type Suggestion struct {
	RubricItemID uint
	Score        float64
	Feedback     string
}

type rubricEntry struct {
	score    float64
	feedback string
}

// RubricEvaluator holds the mutable per-criterion grading state of a single
// grading session. It is owned exclusively by that session; no locking.
type RubricEvaluator struct {
	items   []models.RubricItem
	entries map[uint]*rubricEntry

	quizScore float64
	quizMax   float64
}

// NewRubricEvaluator builds the evaluator for the given rubric items, seeded
// from any previously saved scores. Items without a prior score default to
// full credit: the grader adjusts downward from MaxPoints rather than up
// from zero.
func NewRubricEvaluator(items []models.RubricItem, prior []models.RubricScore) *RubricEvaluator {
	evaluator := &RubricEvaluator{
		items:   items,
		entries: make(map[uint]*rubricEntry, len(items)),
	}

	saved := make(map[uint]models.RubricScore, len(prior))
	for _, score := range prior {
		saved[score.RubricItemID] = score
	}

	for _, item := range items {
		entry := &rubricEntry{score: item.MaxPoints}
		if score, ok := saved[item.ID]; ok {
			entry.score = clamp(score.Score, 0, item.MaxPoints)
			entry.feedback = score.Feedback
		}
		evaluator.entries[item.ID] = entry
	}

	return evaluator
}

// SetQuizFallback supplies the quiz score/max mirrored by Total and Max when
// the rubric has no items.
func (e *RubricEvaluator) SetQuizFallback(score, max float64) {
	e.quizScore = score
	e.quizMax = max
}

// SetScore stores the score for a rubric item, clamped into [0, MaxPoints].
// It reports false for unknown item IDs.
func (e *RubricEvaluator) SetScore(itemID uint, value float64) bool {
	entry, ok := e.entries[itemID]
	if !ok {
		return false
	}
	entry.score = clamp(value, 0, e.maxPoints(itemID))
	return true
}

// SetFeedback stores the feedback text for a rubric item.
func (e *RubricEvaluator) SetFeedback(itemID uint, feedback string) bool {
	entry, ok := e.entries[itemID]
	if !ok {
		return false
	}
	entry.feedback = feedback
	return true
}

// Score returns the current score for a rubric item.
func (e *RubricEvaluator) Score(itemID uint) (float64, bool) {
	entry, ok := e.entries[itemID]
	if !ok {
		return 0, false
	}
	return entry.score, true
}

// Apply merges AI grade suggestions into the current state, overwriting any
// unsaved edits for the suggested items. Scores pass through the same clamp
// as manual edits; suggestions for unknown items are dropped.
func (e *RubricEvaluator) Apply(suggestions []Suggestion) {
	for _, suggestion := range suggestions {
		if e.SetScore(suggestion.RubricItemID, suggestion.Score) && suggestion.Feedback != "" {
			e.SetFeedback(suggestion.RubricItemID, suggestion.Feedback)
		}
	}
}

// Total returns the sum of current scores, or the quiz fallback score when
// the rubric has no items.
func (e *RubricEvaluator) Total() float64 {
	if len(e.items) == 0 {
		return e.quizScore
	}
	var total float64
	for _, item := range e.items {
		total += e.entries[item.ID].score
	}
	return total
}

// Max returns the sum of MaxPoints, or the quiz fallback max when the rubric
// has no items.
func (e *RubricEvaluator) Max() float64 {
	if len(e.items) == 0 {
		return e.quizMax
	}
	var max float64
	for _, item := range e.items {
		max += item.MaxPoints
	}
	return max
}

// Scores snapshots the current state as persistable rubric scores in rubric
// order.
func (e *RubricEvaluator) Scores() []models.RubricScore {
	scores := make([]models.RubricScore, 0, len(e.items))
	for _, item := range e.items {
		entry := e.entries[item.ID]
		scores = append(scores, models.RubricScore{
			RubricItemID: item.ID,
			Score:        entry.score,
			Feedback:     entry.feedback,
		})
	}
	return scores
}

func (e *RubricEvaluator) maxPoints(itemID uint) float64 {
	for _, item := range e.items {
		if item.ID == itemID {
			return item.MaxPoints
		}
	}
	return 0
}

func clamp(value, lower, upper float64) float64 {
	if value < lower {
		return lower
	}
	if value > upper {
		return upper
	}
	return value
}
