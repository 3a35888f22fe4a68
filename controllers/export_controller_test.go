package controllers

import (
	"strings"
	"testing"

	"github.com/surveyguy/surveyguy-server/models"
)

func TestCanReadExport(t *testing.T) {
	ownerID := "user-1"
	survey := models.Survey{ID: "s1", OwnerID: &ownerID}
	orphan := models.Survey{ID: "s2"}

	tests := []struct {
		name   string
		user   models.User
		survey models.Survey
		want   bool
	}{
		{"owner", models.User{ID: "user-1"}, survey, true},
		{"other user", models.User{ID: "user-2"}, survey, false},
		{"admin on someone else's survey", models.User{ID: "user-2", IsAdmin: true}, survey, true},
		{"non-admin on ownerless survey", models.User{ID: "user-1"}, orphan, false},
		{"admin on ownerless survey", models.User{ID: "user-2", IsAdmin: true}, orphan, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := canReadExport(tt.user, tt.survey); got != tt.want {
				t.Fatalf("canReadExport = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestExportCell(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  string
	}{
		{"string", `"hello"`, "hello"},
		{"integer", `5`, "5"},
		{"selection list", `["A","B"]`, "A; B"},
		{"not json", `{broken`, `{broken`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := exportCell(tt.value); got != tt.want {
				t.Fatalf("exportCell(%s) = %q, want %q", tt.value, got, tt.want)
			}
		})
	}
}

func TestExportCellRowMap(t *testing.T) {
	// Map iteration order is not fixed, so only check the pieces.
	got := exportCell(`{"Speed":"Good","Price":"Bad"}`)
	for _, part := range []string{"Speed: Good", "Price: Bad"} {
		if !strings.Contains(got, part) {
			t.Fatalf("exportCell row map = %q, missing %q", got, part)
		}
	}
}
