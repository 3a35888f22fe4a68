package engine

import (
	"fmt"
	"strings"

	"github.com/surveyguy/surveyguy-server/models"
)

// PublishError kinds.
const (
	PublishMissingTitle    = "missing_title"
	PublishNoQuestions     = "no_questions"
	PublishInvalidQuestion = "invalid_question"
)

// PublishError explains why a draft cannot go live. For invalid_question it
// names the offending question and carries the underlying config defect, so
// a builder UI can jump straight to the broken field.
type PublishError struct {
	Kind       string       `json:"kind"`
	QuestionID string       `json:"question_id,omitempty"`
	Config     *ConfigError `json:"config,omitempty"`
}

func (e *PublishError) Error() string {
	switch e.Kind {
	case PublishMissingTitle:
		return "survey title is required to publish"
	case PublishNoQuestions:
		return "survey needs at least one question to publish"
	default:
		return fmt.Sprintf("question %s is invalid: %s", e.QuestionID, e.Config.Message)
	}
}

// Publish moves the document to published if it satisfies the publish
// precondition: a non-blank title, at least one question, and every
// question structurally valid. Publishing an already-published survey is
// not an error; it just refreshes PublishedAt, so unpublish → publish is a
// plain workflow rather than a special case.
func Publish(doc models.Survey) (models.Survey, error) {
	if strings.TrimSpace(doc.Title) == "" {
		return models.Survey{}, &PublishError{Kind: PublishMissingTitle}
	}
	if len(doc.Questions) == 0 {
		return models.Survey{}, &PublishError{Kind: PublishNoQuestions}
	}
	for _, q := range doc.Questions {
		if cfgErr := ValidateQuestionConfig(q); cfgErr != nil {
			return models.Survey{}, &PublishError{
				Kind:       PublishInvalidQuestion,
				QuestionID: q.ID,
				Config:     cfgErr,
			}
		}
	}

	out := cloneDoc(doc)
	now := timeNow()
	out.Status = models.StatusPublished
	out.PublishedAt = &now
	out.UpdatedAt = now
	return out, nil
}

// Unpublish returns the document to draft and clears PublishedAt. Calling it
// on a draft is a no-op, not an error.
func Unpublish(doc models.Survey) models.Survey {
	out := cloneDoc(doc)
	if out.Status == models.StatusDraft {
		return out
	}
	out.Status = models.StatusDraft
	out.PublishedAt = nil
	out.UpdatedAt = timeNow()
	return out
}

// Archive is terminal and legal from any state.
func Archive(doc models.Survey) models.Survey {
	out := cloneDoc(doc)
	out.Status = models.StatusArchived
	out.UpdatedAt = timeNow()
	return out
}
