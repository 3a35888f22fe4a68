package models

import "time"

// Survey lifecycle states. Deleted surveys stay in the table as tombstones so
// shared links fail closed instead of leaking a recycled id.
const (
	StatusDraft     = "draft"
	StatusPublished = "published"
	StatusArchived  = "archived"
	StatusDeleted   = "deleted"
)

type Survey struct {
	ID          string     `gorm:"column:id;primaryKey;size:36" json:"id"`
	OwnerID     *string    `gorm:"column:owner_id;size:36;index" json:"owner_id"`
	Title       string     `gorm:"column:title;size:255;not null" json:"title"`
	Description string     `gorm:"column:description;type:text" json:"description"`
	Status      string     `gorm:"column:status;size:20;default:'draft'" json:"status"`
	PublishedAt *time.Time `gorm:"column:published_at" json:"published_at"`
	TemplateID  *string    `gorm:"column:template_id;size:36" json:"template_id"`

	SettingsJSON  string `gorm:"column:settings_json;type:text" json:"-"`
	EditTokenHash string `gorm:"column:edit_token_hash;type:text" json:"-"`
	ResponseCount int    `gorm:"column:response_count;default:0" json:"response_count"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`

	Owner *User `gorm:"foreignKey:OwnerID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"-"`

	Questions []Question `gorm:"foreignKey:SurveyID" json:"questions,omitempty"`
	Responses []Response `gorm:"foreignKey:SurveyID" json:"-"`
}

func (Survey) TableName() string {
	return "surveys"
}
