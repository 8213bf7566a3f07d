package models

// Study item types. A session presents flashcards, MCQs, or an
// interleaved mix of both.
const (
	ItemFlashcard = "flashcard"
	ItemMCQ       = "mcq"
)

// StudyItem is one entry in a study session: either a flashcard or an
// MCQ, discriminated by Type.
type StudyItem struct {
	Type string
	Card Card
	MCQ  MCQ
}

// ID returns the backend identifier of the underlying item.
func (i StudyItem) ID() int64 {
	if i.Type == ItemMCQ {
		return i.MCQ.MCQID
	}
	return i.Card.CardID
}
