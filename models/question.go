package models

import "encoding/json"

// Question types supported by the builder and the response validator.
const (
	TypeText           = "text"
	TypeTextarea       = "textarea"
	TypeEmail          = "email"
	TypeMultipleChoice = "multiple_choice"
	TypeCheckbox       = "checkbox"
	TypeRating         = "rating"
	TypeNPS            = "nps"
	TypeYesNo          = "yes_no"
	TypeEmojiScale     = "emoji_scale"
	TypeMatrix         = "matrix"
)

var questionTypes = map[string]bool{
	TypeText:           true,
	TypeTextarea:       true,
	TypeEmail:          true,
	TypeMultipleChoice: true,
	TypeCheckbox:       true,
	TypeRating:         true,
	TypeNPS:            true,
	TypeYesNo:          true,
	TypeEmojiScale:     true,
	TypeMatrix:         true,
}

// KnownQuestionType reports whether t is one of the supported type names.
func KnownQuestionType(t string) bool {
	return questionTypes[t]
}

type Question struct {
	ID       string `gorm:"column:id;primaryKey;size:36" json:"id"`
	SurveyID string `gorm:"column:survey_id;size:36;index;not null" json:"survey_id"`
	Title    string `gorm:"column:title;type:text" json:"title"`
	Type     string `gorm:"column:type;size:30;not null" json:"type"`
	Required bool   `gorm:"column:required;default:false" json:"required"`
	Position int    `gorm:"column:position;default:0" json:"position"`

	SettingsJSON string `gorm:"column:settings_json;type:text" json:"-"`
}

func (Question) TableName() string {
	return "questions"
}

// QuestionSettings carries the per-type configuration. Only the fields a
// type uses are populated; the rest marshal away under omitempty.
type QuestionSettings struct {
	// multiple_choice, checkbox
	Options []string `json:"options,omitempty"`

	// rating (1..MaxRating); nps is fixed 0..10 and ignores it
	MaxRating int `json:"maxRating,omitempty"`

	// emoji_scale (1..Scale)
	Scale int `json:"scale,omitempty"`

	// matrix
	Rows    []string `json:"rows,omitempty"`
	Columns []string `json:"columns,omitempty"`

	// text, textarea
	MinLength   int    `json:"minLength,omitempty"`
	MaxLength   int    `json:"maxLength,omitempty"`
	Placeholder string `json:"placeholder,omitempty"`
}

// Settings decodes the stored settings blob. An empty column decodes to the
// zero value; a corrupt column returns the zero value alongside the error.
func (q Question) Settings() (QuestionSettings, error) {
	var s QuestionSettings
	if q.SettingsJSON == "" {
		return s, nil
	}
	if err := json.Unmarshal([]byte(q.SettingsJSON), &s); err != nil {
		return QuestionSettings{}, err
	}
	return s, nil
}

// SetSettings serializes s into the stored settings blob.
func (q *Question) SetSettings(s QuestionSettings) error {
	b, err := json.Marshal(s)
	if err != nil {
		return err
	}
	q.SettingsJSON = string(b)
	return nil
}
