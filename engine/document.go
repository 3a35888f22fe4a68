package engine

import (
	"errors"
	"strings"

	"github.com/surveyguy/surveyguy-server/models"
)

var (
	ErrDuplicateID        = errors.New("question id already exists in survey")
	ErrQuestionNotFound   = errors.New("question not found in survey")
	ErrInvalidPermutation = errors.New("order is not a permutation of the survey's question ids")
)

// QuestionPatch is a partial question update; nil fields are left untouched.
type QuestionPatch struct {
	Title    *string                  `json:"title"`
	Required *bool                    `json:"required"`
	Settings *models.QuestionSettings `json:"settings"`
}

// cloneDoc copies the document and its question slice so operators can
// modify the copy freely.
func cloneDoc(doc models.Survey) models.Survey {
	out := doc
	out.Questions = append([]models.Question(nil), doc.Questions...)
	return out
}

// renumber keeps Position equal to slice index; presentation order is the
// slice order and Position only exists so the persistence layer can sort.
func renumber(questions []models.Question) {
	for i := range questions {
		questions[i].Position = i
	}
}

func indexOf(questions []models.Question, id string) int {
	for i := range questions {
		if questions[i].ID == id {
			return i
		}
	}
	return -1
}

// AddQuestion appends q to the document.
func AddQuestion(doc models.Survey, q models.Question) (models.Survey, error) {
	if indexOf(doc.Questions, q.ID) >= 0 {
		return models.Survey{}, ErrDuplicateID
	}
	out := cloneDoc(doc)
	q.SurveyID = out.ID
	out.Questions = append(out.Questions, q)
	renumber(out.Questions)
	out.UpdatedAt = timeNow()
	return out, nil
}

// UpdateQuestion applies patch to the question with the given id.
func UpdateQuestion(doc models.Survey, id string, patch QuestionPatch) (models.Survey, error) {
	i := indexOf(doc.Questions, id)
	if i < 0 {
		return models.Survey{}, ErrQuestionNotFound
	}
	out := cloneDoc(doc)
	q := out.Questions[i]
	if patch.Title != nil {
		q.Title = *patch.Title
	}
	if patch.Required != nil {
		q.Required = *patch.Required
	}
	if patch.Settings != nil {
		if err := q.SetSettings(*patch.Settings); err != nil {
			return models.Survey{}, err
		}
	}
	out.Questions[i] = q
	out.UpdatedAt = timeNow()
	return out, nil
}

// RemoveQuestion deletes the question with the given id and closes the gap.
func RemoveQuestion(doc models.Survey, id string) (models.Survey, error) {
	i := indexOf(doc.Questions, id)
	if i < 0 {
		return models.Survey{}, ErrQuestionNotFound
	}
	out := cloneDoc(doc)
	out.Questions = append(out.Questions[:i], out.Questions[i+1:]...)
	renumber(out.Questions)
	out.UpdatedAt = timeNow()
	return out, nil
}

// DuplicateQuestion clones the question with a fresh id and a " (Copy)"
// title suffix, inserted directly after the source.
func DuplicateQuestion(doc models.Survey, id string) (models.Survey, error) {
	i := indexOf(doc.Questions, id)
	if i < 0 {
		return models.Survey{}, ErrQuestionNotFound
	}
	out := cloneDoc(doc)
	clone := out.Questions[i]
	clone.ID = newID()
	clone.Title = strings.TrimRight(clone.Title, " ") + " (Copy)"
	out.Questions = append(out.Questions, models.Question{})
	copy(out.Questions[i+2:], out.Questions[i+1:])
	out.Questions[i+1] = clone
	renumber(out.Questions)
	out.UpdatedAt = timeNow()
	return out, nil
}

// ReorderQuestions rearranges the document to match orderedIDs, which must
// be exactly a permutation of the existing question ids.
func ReorderQuestions(doc models.Survey, orderedIDs []string) (models.Survey, error) {
	if len(orderedIDs) != len(doc.Questions) {
		return models.Survey{}, ErrInvalidPermutation
	}
	byID := make(map[string]models.Question, len(doc.Questions))
	for _, q := range doc.Questions {
		byID[q.ID] = q
	}
	reordered := make([]models.Question, 0, len(orderedIDs))
	for _, id := range orderedIDs {
		q, ok := byID[id]
		if !ok {
			return models.Survey{}, ErrInvalidPermutation
		}
		delete(byID, id) // reject repeated ids
		reordered = append(reordered, q)
	}
	out := cloneDoc(doc)
	out.Questions = reordered
	renumber(out.Questions)
	out.UpdatedAt = timeNow()
	return out, nil
}
