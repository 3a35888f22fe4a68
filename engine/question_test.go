package engine

import (
	"testing"

	"github.com/surveyguy/surveyguy-server/models"
)

func mustQuestion(t *testing.T, id, qtype, title string, required bool, s models.QuestionSettings) models.Question {
	t.Helper()
	q := models.Question{ID: id, Type: qtype, Title: title, Required: required}
	if err := q.SetSettings(s); err != nil {
		t.Fatalf("SetSettings: %v", err)
	}
	return q
}

func TestValidateQuestionConfig(t *testing.T) {
	tests := []struct {
		name     string
		question models.Question
		wantKind string // "" means valid
	}{
		{
			name:     "text with title is valid",
			question: mustQuestion(t, "q1", models.TypeText, "Your name", false, models.QuestionSettings{}),
		},
		{
			name:     "empty title",
			question: mustQuestion(t, "q1", models.TypeText, "   ", false, models.QuestionSettings{}),
			wantKind: ConfigEmptyTitle,
		},
		{
			name: "multiple choice with two options is valid",
			question: mustQuestion(t, "q1", models.TypeMultipleChoice, "Pick one", false,
				models.QuestionSettings{Options: []string{"A", "B"}}),
		},
		{
			name: "multiple choice with one option",
			question: mustQuestion(t, "q1", models.TypeMultipleChoice, "Pick one", false,
				models.QuestionSettings{Options: []string{"A"}}),
			wantKind: ConfigMissingOptions,
		},
		{
			name: "multiple choice with duplicate options",
			question: mustQuestion(t, "q1", models.TypeMultipleChoice, "Pick one", false,
				models.QuestionSettings{Options: []string{"A", "A"}}),
			wantKind: ConfigMissingOptions,
		},
		{
			name: "multiple choice with blank option",
			question: mustQuestion(t, "q1", models.TypeMultipleChoice, "Pick one", false,
				models.QuestionSettings{Options: []string{"A", "  "}}),
			wantKind: ConfigMissingOptions,
		},
		{
			name:     "multiple choice with no options at all",
			question: mustQuestion(t, "q1", models.TypeMultipleChoice, "Pick one", false, models.QuestionSettings{}),
			wantKind: ConfigMissingOptions,
		},
		{
			name: "checkbox shares the option invariant",
			question: mustQuestion(t, "q1", models.TypeCheckbox, "Pick some", false,
				models.QuestionSettings{Options: []string{"A", "B", "C"}}),
		},
		{
			name: "rating in range is valid",
			question: mustQuestion(t, "q1", models.TypeRating, "Rate us", false,
				models.QuestionSettings{MaxRating: 5}),
		},
		{
			name:     "rating with unset max",
			question: mustQuestion(t, "q1", models.TypeRating, "Rate us", false, models.QuestionSettings{}),
			wantKind: ConfigInvalidRange,
		},
		{
			name: "rating above cap",
			question: mustQuestion(t, "q1", models.TypeRating, "Rate us", false,
				models.QuestionSettings{MaxRating: 11}),
			wantKind: ConfigInvalidRange,
		},
		{
			name:     "nps needs no settings",
			question: mustQuestion(t, "q1", models.TypeNPS, "Recommend us?", false, models.QuestionSettings{}),
		},
		{
			name:     "yes_no needs no settings",
			question: mustQuestion(t, "q1", models.TypeYesNo, "Attending?", false, models.QuestionSettings{}),
		},
		{
			name: "emoji scale in range",
			question: mustQuestion(t, "q1", models.TypeEmojiScale, "Mood?", false,
				models.QuestionSettings{Scale: 5}),
		},
		{
			name:     "emoji scale unset",
			question: mustQuestion(t, "q1", models.TypeEmojiScale, "Mood?", false, models.QuestionSettings{}),
			wantKind: ConfigInvalidRange,
		},
		{
			name: "matrix with rows and columns",
			question: mustQuestion(t, "q1", models.TypeMatrix, "Grade each", false,
				models.QuestionSettings{Rows: []string{"Speed"}, Columns: []string{"Good", "Bad"}}),
		},
		{
			name: "matrix without rows",
			question: mustQuestion(t, "q1", models.TypeMatrix, "Grade each", false,
				models.QuestionSettings{Columns: []string{"Good", "Bad"}}),
			wantKind: ConfigMissingOptions,
		},
		{
			name: "matrix without columns",
			question: mustQuestion(t, "q1", models.TypeMatrix, "Grade each", false,
				models.QuestionSettings{Rows: []string{"Speed"}}),
			wantKind: ConfigMissingOptions,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateQuestionConfig(tt.question)
			if tt.wantKind == "" {
				if err != nil {
					t.Fatalf("ValidateQuestionConfig = %v, want nil", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("ValidateQuestionConfig = nil, want kind %s", tt.wantKind)
			}
			if err.Kind != tt.wantKind {
				t.Fatalf("kind = %s, want %s", err.Kind, tt.wantKind)
			}
		})
	}
}

func TestValidateQuestionConfigCorruptSettings(t *testing.T) {
	q := models.Question{ID: "q1", Type: models.TypeMultipleChoice, Title: "Pick", SettingsJSON: "{not json"}
	err := ValidateQuestionConfig(q)
	if err == nil || err.Kind != ConfigMissingOptions {
		t.Fatalf("ValidateQuestionConfig = %v, want missing_options", err)
	}
}

func TestRequiredSatisfied(t *testing.T) {
	choice := mustQuestion(t, "q1", models.TypeMultipleChoice, "Pick", true,
		models.QuestionSettings{Options: []string{"A", "B"}})
	rating := mustQuestion(t, "q2", models.TypeRating, "Rate", true,
		models.QuestionSettings{MaxRating: 5})
	matrix := mustQuestion(t, "q3", models.TypeMatrix, "Grade", true,
		models.QuestionSettings{Rows: []string{"r1", "r2"}, Columns: []string{"c1", "c2"}})
	boxes := mustQuestion(t, "q4", models.TypeCheckbox, "Select", true,
		models.QuestionSettings{Options: []string{"A", "B"}})
	text := mustQuestion(t, "q5", models.TypeText, "Name", true, models.QuestionSettings{})
	yesno := mustQuestion(t, "q6", models.TypeYesNo, "Coming?", true, models.QuestionSettings{})

	tests := []struct {
		name     string
		question models.Question
		value    any
		want     bool
	}{
		{"text non-empty", text, "Ada", true},
		{"text blank", text, "   ", false},
		{"text missing", text, nil, false},
		{"choice valid option", choice, "A", true},
		{"choice unknown option", choice, "Z", false},
		{"yes no lowercase", yesno, "yes", true},
		{"yes no uppercase", yesno, "NO", true},
		{"yes no other", yesno, "maybe", false},
		{"checkbox one selection", boxes, []any{"A"}, true},
		{"checkbox empty selection", boxes, []any{}, false},
		{"rating in range", rating, float64(3), true},
		{"rating above range", rating, float64(6), false},
		{"rating numeric string", rating, "4", true},
		{"matrix all rows", matrix, map[string]any{"r1": "c1", "r2": "c2"}, true},
		{"matrix missing row", matrix, map[string]any{"r1": "c1"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RequiredSatisfied(tt.question, tt.value); got != tt.want {
				t.Fatalf("RequiredSatisfied = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDefaultSettings(t *testing.T) {
	if s := DefaultSettings(models.TypeRating); s.MaxRating != 5 {
		t.Fatalf("rating default max = %d, want 5", s.MaxRating)
	}
	if s := DefaultSettings(models.TypeMultipleChoice); len(s.Options) != 2 {
		t.Fatalf("choice default options = %v, want 2 entries", s.Options)
	}
	if s := DefaultSettings(models.TypeMatrix); len(s.Rows) == 0 || len(s.Columns) == 0 {
		t.Fatalf("matrix defaults missing rows or columns: %+v", s)
	}
	if s := DefaultSettings(models.TypeText); s.Options != nil || s.MaxRating != 0 || s.Scale != 0 {
		t.Fatalf("text defaults should be empty, got %+v", s)
	}
}
