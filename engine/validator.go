package engine

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/surveyguy/surveyguy-server/models"
	"github.com/surveyguy/surveyguy-server/utils"
)

// Answer error kinds, keyed by question id in a validation result.
const (
	ErrRequired      = "required"
	ErrInvalidFormat = "invalid_format"
	ErrInvalidOption = "invalid_option"
	ErrOutOfRange    = "out_of_range"
)

type AnswerError struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// Result maps question ids to their answer defect. An empty map means the
// submission is acceptable.
type Result struct {
	Errors map[string]AnswerError `json:"errors,omitempty"`
}

func (r Result) Valid() bool { return len(r.Errors) == 0 }

// Conservative: something@something.dot-something. Matches the pattern the
// response form enforces client-side, so the two layers agree.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Validate checks a candidate answer set against a survey document. Every
// offending question is reported, not just the first, so a form can
// highlight all problem fields in one round trip. The document's
// require_all setting promotes every question to required.
//
// Required is strictly a presence rule: an answer that is present but wrong
// gets the type-specific kind (out_of_range, invalid_option, ...), never
// required.
func Validate(doc models.Survey, answers map[string]any) Result {
	settings, err := utils.ParseSettings([]byte(doc.SettingsJSON))
	if err != nil {
		settings = &utils.SurveySettings{}
	}
	requireAll := settings.AllRequired()

	errs := make(map[string]AnswerError)
	for _, q := range doc.Questions {
		value := answers[q.ID]

		if isEmpty(value) {
			if q.Required || requireAll {
				errs[q.ID] = AnswerError{Kind: ErrRequired, Message: "an answer is required"}
			}
			continue
		}
		if ansErr := checkAnswerShape(q, value); ansErr != nil {
			errs[q.ID] = *ansErr
		}
	}

	if len(errs) == 0 {
		return Result{}
	}
	return Result{Errors: errs}
}

func checkAnswerShape(q models.Question, value any) *AnswerError {
	settings, err := q.Settings()
	if err != nil {
		settings = models.QuestionSettings{}
	}

	switch q.Type {
	case models.TypeText, models.TypeTextarea:
		s, ok := asString(value)
		if !ok {
			return &AnswerError{Kind: ErrInvalidFormat, Message: "expected a text answer"}
		}
		if settings.MinLength > 0 && len(s) < settings.MinLength {
			return &AnswerError{
				Kind:    ErrInvalidFormat,
				Message: fmt.Sprintf("answer must be at least %d characters", settings.MinLength),
			}
		}
		if settings.MaxLength > 0 && len(s) > settings.MaxLength {
			return &AnswerError{
				Kind:    ErrInvalidFormat,
				Message: fmt.Sprintf("answer must be no more than %d characters", settings.MaxLength),
			}
		}

	case models.TypeEmail:
		s, ok := asString(value)
		if !ok || !emailPattern.MatchString(strings.TrimSpace(s)) {
			return &AnswerError{Kind: ErrInvalidFormat, Message: "enter a valid email address"}
		}

	case models.TypeMultipleChoice:
		s, ok := asString(value)
		if !ok || !contains(settings.Options, s) {
			return &AnswerError{Kind: ErrInvalidOption, Message: "select one of the listed options"}
		}

	case models.TypeYesNo:
		s, ok := asString(value)
		if !ok || !contains(yesNoOptions, strings.ToLower(s)) {
			return &AnswerError{Kind: ErrInvalidOption, Message: "answer yes or no"}
		}

	case models.TypeCheckbox:
		items, ok := asStringSlice(value)
		if !ok {
			return &AnswerError{Kind: ErrInvalidOption, Message: "select from the listed options"}
		}
		for _, item := range items {
			if !contains(settings.Options, item) {
				return &AnswerError{Kind: ErrInvalidOption, Message: "select from the listed options"}
			}
		}

	case models.TypeRating:
		n, ok := asInt(value)
		if !ok || n < 1 || n > settings.MaxRating {
			return &AnswerError{
				Kind:    ErrOutOfRange,
				Message: fmt.Sprintf("rating must be between 1 and %d", settings.MaxRating),
			}
		}

	case models.TypeNPS:
		n, ok := asInt(value)
		if !ok || n < npsMin || n > npsMax {
			return &AnswerError{
				Kind:    ErrOutOfRange,
				Message: fmt.Sprintf("score must be between %d and %d", npsMin, npsMax),
			}
		}

	case models.TypeEmojiScale:
		n, ok := asInt(value)
		if !ok || n < 1 || n > settings.Scale {
			return &AnswerError{
				Kind:    ErrOutOfRange,
				Message: fmt.Sprintf("selection must be between 1 and %d", settings.Scale),
			}
		}

	case models.TypeMatrix:
		m, ok := asStringMap(value)
		if !ok {
			return &AnswerError{Kind: ErrInvalidOption, Message: "answer every row with a listed column"}
		}
		for row, col := range m {
			if !contains(settings.Rows, row) || !contains(settings.Columns, col) {
				return &AnswerError{Kind: ErrInvalidOption, Message: "answer every row with a listed column"}
			}
		}
		for _, row := range settings.Rows {
			if _, answered := m[row]; !answered {
				return &AnswerError{Kind: ErrInvalidOption, Message: "answer every row with a listed column"}
			}
		}
	}

	// Unknown types pass through; they fail publish, not submission.
	return nil
}
