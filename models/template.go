package models

import "time"

// Template is a reusable question set. Its questions are blueprints: they
// have no live question id until applied to a survey.
type Template struct {
	ID          string    `gorm:"column:id;primaryKey;size:36" json:"id"`
	Title       string    `gorm:"column:title;size:255;not null" json:"title"`
	Description string    `gorm:"column:description;type:text" json:"description"`
	Category    string    `gorm:"column:category;size:50" json:"category"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`

	Questions []TemplateQuestion `gorm:"foreignKey:TemplateID" json:"questions,omitempty"`
}

func (Template) TableName() string {
	return "templates"
}

type TemplateQuestion struct {
	ID         uint   `gorm:"column:id;primaryKey;autoIncrement" json:"-"`
	TemplateID string `gorm:"column:template_id;size:36;index;not null" json:"-"`
	Title      string `gorm:"column:title;type:text" json:"title"`
	Type       string `gorm:"column:type;size:30;not null" json:"type"`
	Required   bool   `gorm:"column:required;default:false" json:"required"`
	Position   int    `gorm:"column:position;default:0" json:"position"`

	SettingsJSON string `gorm:"column:settings_json;type:text" json:"-"`
}

func (TemplateQuestion) TableName() string {
	return "template_questions"
}
