package models

// MCQ is a multiple-choice question, an alternative study-item type
// alongside flashcards.
type MCQ struct {
	MCQID        int64  `json:"mcq_id"`
	QuestionText string `json:"question_text"`
	OptionA      string `json:"option_a"`
	OptionB      string `json:"option_b"`
	OptionC      string `json:"option_c"`
	OptionD      string `json:"option_d"`
	Difficulty   string `json:"difficulty"`
	DeckName     string `json:"deck_name,omitempty"`
}

// Options returns the four answer options keyed by their letter, in
// presentation order.
func (m MCQ) Options() []MCQOption {
	return []MCQOption{
		{Letter: "A", Text: m.OptionA},
		{Letter: "B", Text: m.OptionB},
		{Letter: "C", Text: m.OptionC},
		{Letter: "D", Text: m.OptionD},
	}
}

// MCQOption is one selectable answer.
type MCQOption struct {
	Letter string
	Text   string
}

// MCQResult is the backend's verdict on a submitted answer.
type MCQResult struct {
	Correct       bool   `json:"correct"`
	CorrectAnswer string `json:"correct_answer"`
	Explanation   string `json:"explanation"`
	PointsEarned  int    `json:"points_earned"`
}
