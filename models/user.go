package models

import "time"

type User struct {
	ID           string    `gorm:"column:id;primaryKey;size:36" json:"id"`
	Name         string    `gorm:"column:name;size:100;not null" json:"name"`
	Email        string    `gorm:"column:email;size:100;unique;not null" json:"email"`
	PasswordHash string    `gorm:"column:password_hash;size:255" json:"-"`
	IsAdmin      bool      `gorm:"column:is_admin;not null;default:false" json:"is_admin"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`

	Surveys []Survey `gorm:"foreignKey:OwnerID" json:"-"`
}

func (User) TableName() string {
	return "users"
}
