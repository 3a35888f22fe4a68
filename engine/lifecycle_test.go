package engine

import (
	"errors"
	"testing"
	"time"

	"github.com/surveyguy/surveyguy-server/models"
)

func publishableDraft(t *testing.T) models.Survey {
	t.Helper()
	doc := models.Survey{ID: "s1", Title: "Customer feedback", Status: models.StatusDraft}
	doc.Questions = []models.Question{
		mustQuestion(t, "q1", models.TypeText, "Your name", false, models.QuestionSettings{}),
		mustQuestion(t, "q2", models.TypeMultipleChoice, "Pick one", true,
			models.QuestionSettings{Options: []string{"A", "B"}}),
	}
	return doc
}

func TestPublish(t *testing.T) {
	at := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	fixClock(t, at)

	doc := publishableDraft(t)
	got, err := Publish(doc)
	if err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if got.Status != models.StatusPublished {
		t.Fatalf("status = %s, want published", got.Status)
	}
	if got.PublishedAt == nil || !got.PublishedAt.Equal(at) {
		t.Fatalf("PublishedAt = %v, want %v", got.PublishedAt, at)
	}
	if doc.Status != models.StatusDraft {
		t.Fatal("input mutated")
	}
}

func TestPublishRepeatedRefreshesTimestamp(t *testing.T) {
	first := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	fixClock(t, first)

	live, err := Publish(publishableDraft(t))
	if err != nil {
		t.Fatalf("Publish: %v", err)
	}

	later := first.Add(48 * time.Hour)
	timeNow = func() time.Time { return later }
	again, err := Publish(live)
	if err != nil {
		t.Fatalf("second Publish: %v", err)
	}
	if again.Status != models.StatusPublished {
		t.Fatalf("status = %s, want published", again.Status)
	}
	if again.PublishedAt == nil || !again.PublishedAt.Equal(later) {
		t.Fatalf("PublishedAt = %v, want %v", again.PublishedAt, later)
	}
}

func TestPublishPrecondition(t *testing.T) {
	fixClock(t, time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC))

	t.Run("blank title", func(t *testing.T) {
		doc := publishableDraft(t)
		doc.Title = "   "
		_, err := Publish(doc)
		var pubErr *PublishError
		if !errors.As(err, &pubErr) || pubErr.Kind != PublishMissingTitle {
			t.Fatalf("err = %v, want missing_title", err)
		}
	})

	t.Run("no questions", func(t *testing.T) {
		doc := publishableDraft(t)
		doc.Questions = nil
		_, err := Publish(doc)
		var pubErr *PublishError
		if !errors.As(err, &pubErr) || pubErr.Kind != PublishNoQuestions {
			t.Fatalf("err = %v, want no_questions", err)
		}
	})

	t.Run("invalid question names the offender", func(t *testing.T) {
		doc := publishableDraft(t)
		doc.Questions[1] = mustQuestion(t, "q2", models.TypeMultipleChoice, "Pick one", true,
			models.QuestionSettings{Options: []string{"Only"}})
		_, err := Publish(doc)
		var pubErr *PublishError
		if !errors.As(err, &pubErr) || pubErr.Kind != PublishInvalidQuestion {
			t.Fatalf("err = %v, want invalid_question", err)
		}
		if pubErr.QuestionID != "q2" {
			t.Fatalf("QuestionID = %s, want q2", pubErr.QuestionID)
		}
		if pubErr.Config == nil || pubErr.Config.Kind != ConfigMissingOptions {
			t.Fatalf("Config = %+v, want missing_options", pubErr.Config)
		}
	})

	t.Run("question with empty title", func(t *testing.T) {
		doc := publishableDraft(t)
		doc.Questions[0].Title = ""
		_, err := Publish(doc)
		var pubErr *PublishError
		if !errors.As(err, &pubErr) || pubErr.Kind != PublishInvalidQuestion {
			t.Fatalf("err = %v, want invalid_question", err)
		}
		if pubErr.Config == nil || pubErr.Config.Kind != ConfigEmptyTitle {
			t.Fatalf("Config = %+v, want empty_title", pubErr.Config)
		}
	})
}

func TestUnpublishRestoresDraft(t *testing.T) {
	fixClock(t, time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC))

	draft := publishableDraft(t)
	live, err := Publish(draft)
	if err != nil {
		t.Fatalf("Publish: %v", err)
	}

	back := Unpublish(live)
	if back.Status != models.StatusDraft {
		t.Fatalf("status = %s, want draft", back.Status)
	}
	if back.PublishedAt != nil {
		t.Fatalf("PublishedAt = %v, want nil", back.PublishedAt)
	}
	if !equalIDs(questionIDs(back), questionIDs(draft)) {
		t.Fatalf("questions changed: %v", questionIDs(back))
	}
}

func TestUnpublishDraftIsNoOp(t *testing.T) {
	fixClock(t, time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC))

	draft := publishableDraft(t)
	stamp := time.Date(2025, 2, 1, 9, 0, 0, 0, time.UTC)
	draft.UpdatedAt = stamp

	got := Unpublish(draft)
	if got.Status != models.StatusDraft {
		t.Fatalf("status = %s, want draft", got.Status)
	}
	if !got.UpdatedAt.Equal(stamp) {
		t.Fatalf("UpdatedAt bumped on no-op: %v", got.UpdatedAt)
	}
}

func TestArchive(t *testing.T) {
	fixClock(t, time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC))

	for _, status := range []string{models.StatusDraft, models.StatusPublished} {
		doc := publishableDraft(t)
		doc.Status = status
		got := Archive(doc)
		if got.Status != models.StatusArchived {
			t.Fatalf("from %s: status = %s, want archived", status, got.Status)
		}
	}
}
