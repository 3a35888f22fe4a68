package utils

import (
	"encoding/json"
	"errors"
)

// NullableInt distinguishes "field absent" from "field explicitly null" in a
// JSON patch, so a client can clear max_responses by sending null.
type NullableInt struct {
	Set   bool
	Value *int
}

func (n *NullableInt) UnmarshalJSON(data []byte) error {
	n.Set = true
	if string(data) == "null" {
		n.Value = nil
		return nil
	}
	var v int
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	n.Value = &v
	return nil
}

func (n NullableInt) MarshalJSON() ([]byte, error) {
	if n.Value == nil {
		return []byte("null"), nil
	}
	return json.Marshal(*n.Value)
}

// SurveySettings is the recognized survey-level option set. All fields are
// pointers so a PATCH only overwrites what the client actually sent.
type SurveySettings struct {
	AllowAnonymous     *bool       `json:"allow_anonymous,omitempty"`
	CollectEmail       *bool       `json:"collect_email,omitempty"`
	ShowProgress       *bool       `json:"show_progress,omitempty"`
	RandomizeQuestions *bool       `json:"randomize_questions,omitempty"`
	RequireAll         *bool       `json:"require_all,omitempty"`
	MaxResponses       NullableInt `json:"max_responses,omitempty"`
}

// Defaults: anonymous responses are allowed unless the owner opts out;
// everything else is off.

func (s *SurveySettings) AnonymousAllowed() bool {
	return s == nil || s.AllowAnonymous == nil || *s.AllowAnonymous
}

func (s *SurveySettings) EmailRequired() bool {
	return s != nil && s.CollectEmail != nil && *s.CollectEmail
}

func (s *SurveySettings) Randomized() bool {
	return s != nil && s.RandomizeQuestions != nil && *s.RandomizeQuestions
}

func (s *SurveySettings) AllRequired() bool {
	return s != nil && s.RequireAll != nil && *s.RequireAll
}

// ResponseCap returns the response limit, or 0 when unlimited.
func (s *SurveySettings) ResponseCap() int {
	if s == nil || s.MaxResponses.Value == nil {
		return 0
	}
	return *s.MaxResponses.Value
}

// ValidateSettings clamps a sub-1 max_responses up to 1 rather than reject.
func ValidateSettings(s *SurveySettings) error {
	if s == nil {
		return errors.New("empty settings")
	}
	if s.MaxResponses.Set && s.MaxResponses.Value != nil {
		if *s.MaxResponses.Value < 1 {
			v := 1
			s.MaxResponses.Value = &v
		}
	}
	return nil
}

func ParseSettings(raw []byte) (*SurveySettings, error) {
	if len(raw) == 0 {
		return &SurveySettings{}, nil
	}
	var s SurveySettings
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, errors.New("settings is not valid JSON")
	}
	if err := ValidateSettings(&s); err != nil {
		return nil, err
	}
	return &s, nil
}

func SettingsJSON(s *SurveySettings) (string, error) {
	if s == nil {
		s = &SurveySettings{}
	}
	b, err := json.Marshal(s)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// MergeSettings overlays patch onto base. Only fields the client sent
// (non-nil pointers, or a Set NullableInt) overwrite base.
func MergeSettings(base *SurveySettings, patch *SurveySettings) *SurveySettings {
	if base == nil {
		base = &SurveySettings{}
	}
	if patch == nil {
		patch = &SurveySettings{}
	}
	out := *base

	if patch.AllowAnonymous != nil {
		out.AllowAnonymous = patch.AllowAnonymous
	}
	if patch.CollectEmail != nil {
		out.CollectEmail = patch.CollectEmail
	}
	if patch.ShowProgress != nil {
		out.ShowProgress = patch.ShowProgress
	}
	if patch.RandomizeQuestions != nil {
		out.RandomizeQuestions = patch.RandomizeQuestions
	}
	if patch.RequireAll != nil {
		out.RequireAll = patch.RequireAll
	}
	if patch.MaxResponses.Set {
		out.MaxResponses = patch.MaxResponses
	}
	return &out
}
