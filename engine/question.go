package engine

import (
	"fmt"
	"strings"

	"github.com/surveyguy/surveyguy-server/models"
)

// ConfigError kinds, reported by ValidateQuestionConfig.
const (
	ConfigMissingOptions = "missing_options"
	ConfigInvalidRange   = "invalid_range"
	ConfigEmptyTitle     = "empty_title"
)

// ConfigError describes one structural defect in a question's definition.
type ConfigError struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

func (e *ConfigError) Error() string { return e.Message }

// yes_no questions have a fixed answer vocabulary.
var yesNoOptions = []string{"yes", "no"}

const (
	defaultMaxRating  = 5
	defaultEmojiScale = 5
	npsMin            = 0
	npsMax            = 10
	ratingCap         = 10
)

// DefaultSettings returns the builder defaults applied when a question of
// the given type is created without explicit settings.
func DefaultSettings(qtype string) models.QuestionSettings {
	switch qtype {
	case models.TypeMultipleChoice, models.TypeCheckbox:
		return models.QuestionSettings{Options: []string{"Option 1", "Option 2"}}
	case models.TypeRating:
		return models.QuestionSettings{MaxRating: defaultMaxRating}
	case models.TypeEmojiScale:
		return models.QuestionSettings{Scale: defaultEmojiScale}
	case models.TypeMatrix:
		return models.QuestionSettings{
			Rows:    []string{"Row 1"},
			Columns: []string{"Column 1", "Column 2"},
		}
	default:
		return models.QuestionSettings{}
	}
}

// ValidateQuestionConfig checks the type-specific invariants of a question
// definition, independent of any response. A corrupt settings blob is
// treated as absent settings so the failure reads as the missing invariant
// rather than a JSON error.
func ValidateQuestionConfig(q models.Question) *ConfigError {
	settings, err := q.Settings()
	if err != nil {
		settings = models.QuestionSettings{}
	}

	if strings.TrimSpace(q.Title) == "" {
		return &ConfigError{Kind: ConfigEmptyTitle, Message: "question title is empty"}
	}

	switch q.Type {
	case models.TypeMultipleChoice, models.TypeCheckbox:
		if err := checkOptions(settings.Options); err != nil {
			return err
		}
	case models.TypeRating:
		if settings.MaxRating < 1 || settings.MaxRating > ratingCap {
			return &ConfigError{
				Kind:    ConfigInvalidRange,
				Message: fmt.Sprintf("maxRating must be between 1 and %d", ratingCap),
			}
		}
	case models.TypeEmojiScale:
		if settings.Scale < 1 || settings.Scale > ratingCap {
			return &ConfigError{
				Kind:    ConfigInvalidRange,
				Message: fmt.Sprintf("scale must be between 1 and %d", ratingCap),
			}
		}
	case models.TypeMatrix:
		if len(settings.Rows) == 0 || len(settings.Columns) == 0 {
			return &ConfigError{Kind: ConfigMissingOptions, Message: "matrix requires rows and columns"}
		}
	}

	// nps is a fixed 0..10 scale; text, textarea, email and yes_no carry no
	// settings invariants.
	return nil
}

func checkOptions(options []string) *ConfigError {
	distinct := make(map[string]bool, len(options))
	for _, o := range options {
		o = strings.TrimSpace(o)
		if o == "" {
			return &ConfigError{Kind: ConfigMissingOptions, Message: "options must not contain empty entries"}
		}
		if distinct[o] {
			return &ConfigError{Kind: ConfigMissingOptions, Message: "options must be distinct"}
		}
		distinct[o] = true
	}
	if len(distinct) < 2 {
		return &ConfigError{Kind: ConfigMissingOptions, Message: "at least 2 options are required"}
	}
	return nil
}

// RequiredSatisfied reports whether value counts as a present answer for the
// question's type. It is a presence check only; shape validation happens in
// Validate.
func RequiredSatisfied(q models.Question, value any) bool {
	settings, err := q.Settings()
	if err != nil {
		settings = models.QuestionSettings{}
	}

	switch q.Type {
	case models.TypeText, models.TypeTextarea, models.TypeEmail:
		s, ok := asString(value)
		return ok && strings.TrimSpace(s) != ""

	case models.TypeMultipleChoice:
		s, ok := asString(value)
		return ok && contains(settings.Options, s)

	case models.TypeYesNo:
		s, ok := asString(value)
		return ok && contains(yesNoOptions, strings.ToLower(s))

	case models.TypeCheckbox:
		items, ok := asStringSlice(value)
		return ok && len(items) > 0

	case models.TypeRating:
		n, ok := asInt(value)
		return ok && n >= 1 && n <= settings.MaxRating

	case models.TypeNPS:
		n, ok := asInt(value)
		return ok && n >= npsMin && n <= npsMax

	case models.TypeEmojiScale:
		n, ok := asInt(value)
		return ok && n >= 1 && n <= settings.Scale

	case models.TypeMatrix:
		m, ok := asStringMap(value)
		if !ok {
			return false
		}
		for _, row := range settings.Rows {
			if _, answered := m[row]; !answered {
				return false
			}
		}
		return true

	default:
		return !isEmpty(value)
	}
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
