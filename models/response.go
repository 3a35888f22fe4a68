package models

import "time"

// Response is one respondent's accepted submission. Rows are written once,
// inside the same transaction as their Answer rows, and never updated.
type Response struct {
	ID        string  `gorm:"column:id;primaryKey;size:36" json:"id"`
	SurveyID  string  `gorm:"column:survey_id;size:36;index;not null" json:"survey_id"`
	SessionID string  `gorm:"column:session_id;size:36" json:"session_id"`
	UserID    *string `gorm:"column:user_id;size:36" json:"user_id"`
	Email     *string `gorm:"column:email;size:255" json:"email,omitempty"`

	CompletionTimeSeconds int       `gorm:"column:completion_time_seconds;default:0" json:"completion_time_seconds"`
	SubmittedAt           time.Time `gorm:"column:submitted_at;autoCreateTime" json:"submitted_at"`

	Answers []Answer `gorm:"foreignKey:ResponseID" json:"answers,omitempty"`
}

func (Response) TableName() string {
	return "responses"
}

// Answer stores one question's answer value as its JSON encoding, so every
// value shape (string, selection list, number, row map) fits one column.
type Answer struct {
	ID         uint   `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	ResponseID string `gorm:"column:response_id;size:36;index;not null" json:"response_id"`
	QuestionID string `gorm:"column:question_id;size:36;index;not null" json:"question_id"`
	ValueJSON  string `gorm:"column:value_json;type:text" json:"value_json"`
}

func (Answer) TableName() string {
	return "answers"
}
