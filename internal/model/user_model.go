package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	Id             uuid.UUID  `gorm:"type:varchar(36);primaryKey"`
	Passcode       string     `gorm:"type:varchar(255);uniqueIndex:idx_users_passcode;not null"`
	LastLogin      *time.Time `gorm:"column:last_login"`
	ContextSummary *string    `gorm:"column:context_summary;type:text"`
	CreatedAt      time.Time  `gorm:"autoCreateTime"`
	UpdatedAt      time.Time  `gorm:"autoUpdateTime"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.Id == uuid.Nil {
		u.Id = uuid.New()
	}
	return nil
}
