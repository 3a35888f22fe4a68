package models

import "testing"

func TestKnownQuestionType(t *testing.T) {
	for _, typ := range []string{
		TypeText, TypeTextarea, TypeEmail, TypeMultipleChoice, TypeCheckbox,
		TypeRating, TypeNPS, TypeYesNo, TypeEmojiScale, TypeMatrix,
	} {
		if !KnownQuestionType(typ) {
			t.Fatalf("KnownQuestionType(%s) = false", typ)
		}
	}
	for _, typ := range []string{"", "TEXT", "dropdown", "hologram"} {
		if KnownQuestionType(typ) {
			t.Fatalf("KnownQuestionType(%s) = true", typ)
		}
	}
}

func TestQuestionSettingsRoundTrip(t *testing.T) {
	var q Question
	in := QuestionSettings{
		Options:   []string{"A", "B"},
		MaxRating: 7,
	}
	if err := q.SetSettings(in); err != nil {
		t.Fatalf("SetSettings: %v", err)
	}
	out, err := q.Settings()
	if err != nil {
		t.Fatalf("Settings: %v", err)
	}
	if len(out.Options) != 2 || out.Options[0] != "A" || out.MaxRating != 7 {
		t.Fatalf("round trip lost data: %+v", out)
	}
}

func TestQuestionSettingsEmptyAndCorrupt(t *testing.T) {
	var q Question
	s, err := q.Settings()
	if err != nil || s.MaxRating != 0 || s.Options != nil {
		t.Fatalf("empty column should decode to zero value: %+v, %v", s, err)
	}

	q.SettingsJSON = "{broken"
	if _, err := q.Settings(); err == nil {
		t.Fatal("corrupt column should report an error")
	}
}
