package engine

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/surveyguy/surveyguy-server/models"
)

// fixClock pins timeNow and newID for the duration of a test so timestamps
// and generated ids are predictable.
func fixClock(t *testing.T, at time.Time) {
	t.Helper()
	prevNow, prevID := timeNow, newID
	timeNow = func() time.Time { return at }
	seq := 0
	newID = func() string {
		seq++
		return fmt.Sprintf("gen-%d", seq)
	}
	t.Cleanup(func() {
		timeNow, newID = prevNow, prevID
	})
}

func draftWithQuestions(t *testing.T, ids ...string) models.Survey {
	t.Helper()
	doc := models.Survey{ID: "s1", Title: "Customer feedback", Status: models.StatusDraft}
	for i, id := range ids {
		doc.Questions = append(doc.Questions, models.Question{
			ID:       id,
			SurveyID: "s1",
			Title:    "Question " + id,
			Type:     models.TypeText,
			Position: i,
		})
	}
	return doc
}

func questionIDs(doc models.Survey) []string {
	out := make([]string, 0, len(doc.Questions))
	for _, q := range doc.Questions {
		out = append(out, q.ID)
	}
	return out
}

func equalIDs(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestAddQuestion(t *testing.T) {
	at := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	fixClock(t, at)

	doc := draftWithQuestions(t, "q1")
	got, err := AddQuestion(doc, models.Question{ID: "q2", Title: "Age", Type: models.TypeText})
	if err != nil {
		t.Fatalf("AddQuestion: %v", err)
	}
	if !equalIDs(questionIDs(got), []string{"q1", "q2"}) {
		t.Fatalf("ids = %v, want [q1 q2]", questionIDs(got))
	}
	if got.Questions[1].Position != 1 || got.Questions[1].SurveyID != "s1" {
		t.Fatalf("appended question = %+v", got.Questions[1])
	}
	if !got.UpdatedAt.Equal(at) {
		t.Fatalf("UpdatedAt = %v, want %v", got.UpdatedAt, at)
	}
	// The input document is untouched.
	if len(doc.Questions) != 1 {
		t.Fatalf("input mutated: %d questions", len(doc.Questions))
	}
}

func TestAddQuestionDuplicateID(t *testing.T) {
	doc := draftWithQuestions(t, "q1")
	_, err := AddQuestion(doc, models.Question{ID: "q1", Title: "Again"})
	if !errors.Is(err, ErrDuplicateID) {
		t.Fatalf("err = %v, want ErrDuplicateID", err)
	}
}

func TestUpdateQuestion(t *testing.T) {
	fixClock(t, time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC))

	doc := draftWithQuestions(t, "q1", "q2")
	title := "Renamed"
	required := true
	got, err := UpdateQuestion(doc, "q2", QuestionPatch{Title: &title, Required: &required})
	if err != nil {
		t.Fatalf("UpdateQuestion: %v", err)
	}
	if got.Questions[1].Title != "Renamed" || !got.Questions[1].Required {
		t.Fatalf("patched question = %+v", got.Questions[1])
	}
	if doc.Questions[1].Title == "Renamed" {
		t.Fatal("input mutated")
	}

	if _, err := UpdateQuestion(doc, "missing", QuestionPatch{Title: &title}); !errors.Is(err, ErrQuestionNotFound) {
		t.Fatalf("err = %v, want ErrQuestionNotFound", err)
	}
}

func TestUpdateQuestionSettings(t *testing.T) {
	fixClock(t, time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC))

	doc := draftWithQuestions(t, "q1")
	doc.Questions[0].Type = models.TypeRating
	s := models.QuestionSettings{MaxRating: 7}
	got, err := UpdateQuestion(doc, "q1", QuestionPatch{Settings: &s})
	if err != nil {
		t.Fatalf("UpdateQuestion: %v", err)
	}
	stored, err := got.Questions[0].Settings()
	if err != nil {
		t.Fatalf("Settings: %v", err)
	}
	if stored.MaxRating != 7 {
		t.Fatalf("MaxRating = %d, want 7", stored.MaxRating)
	}
}

func TestRemoveQuestion(t *testing.T) {
	fixClock(t, time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC))

	doc := draftWithQuestions(t, "q1", "q2", "q3")
	got, err := RemoveQuestion(doc, "q2")
	if err != nil {
		t.Fatalf("RemoveQuestion: %v", err)
	}
	if !equalIDs(questionIDs(got), []string{"q1", "q3"}) {
		t.Fatalf("ids = %v, want [q1 q3]", questionIDs(got))
	}
	for i, q := range got.Questions {
		if q.Position != i {
			t.Fatalf("position gap at %d: %+v", i, q)
		}
	}

	if _, err := RemoveQuestion(doc, "nope"); !errors.Is(err, ErrQuestionNotFound) {
		t.Fatalf("err = %v, want ErrQuestionNotFound", err)
	}
}

func TestDuplicateQuestion(t *testing.T) {
	fixClock(t, time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC))

	doc := draftWithQuestions(t, "q1", "q2")
	doc.Questions[0].Title = "Name"
	got, err := DuplicateQuestion(doc, "q1")
	if err != nil {
		t.Fatalf("DuplicateQuestion: %v", err)
	}
	if len(got.Questions) != 3 {
		t.Fatalf("question count = %d, want 3", len(got.Questions))
	}
	clone := got.Questions[1]
	if clone.ID != "gen-1" {
		t.Fatalf("clone id = %s, want gen-1", clone.ID)
	}
	if clone.Title != "Name (Copy)" {
		t.Fatalf("clone title = %q, want %q", clone.Title, "Name (Copy)")
	}
	if !equalIDs(questionIDs(got), []string{"q1", "gen-1", "q2"}) {
		t.Fatalf("ids = %v", questionIDs(got))
	}

	if _, err := DuplicateQuestion(doc, "nope"); !errors.Is(err, ErrQuestionNotFound) {
		t.Fatalf("err = %v, want ErrQuestionNotFound", err)
	}
}

func TestReorderQuestions(t *testing.T) {
	fixClock(t, time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC))
	doc := draftWithQuestions(t, "q1", "q2")

	got, err := ReorderQuestions(doc, []string{"q2", "q1"})
	if err != nil {
		t.Fatalf("ReorderQuestions: %v", err)
	}
	if !equalIDs(questionIDs(got), []string{"q2", "q1"}) {
		t.Fatalf("ids = %v, want [q2 q1]", questionIDs(got))
	}
	if got.Questions[0].Position != 0 || got.Questions[1].Position != 1 {
		t.Fatalf("positions not renumbered: %+v", got.Questions)
	}

	bad := [][]string{
		{"q1"},               // too short
		{"q1", "q2", "q3"},   // too long
		{"q1", "q1"},         // repeated id
		{"q1", "unknown-id"}, // foreign id
	}
	for _, order := range bad {
		if _, err := ReorderQuestions(doc, order); !errors.Is(err, ErrInvalidPermutation) {
			t.Fatalf("order %v: err = %v, want ErrInvalidPermutation", order, err)
		}
	}
}
