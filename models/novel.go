package models

import "time"

type Novel struct {
	ID          uint      `json:"id" gorm:"primarykey"`
	Title       string    `json:"title" gorm:"size:200;not null;index"`
	Description string    `json:"description" gorm:"type:text"`
	AuthorID    uint      `json:"author_id" gorm:"not null"`
	Author      User      `json:"author" gorm:"foreignKey:AuthorID"`
	Chapters    []Chapter `json:"chapters,omitempty" gorm:"foreignKey:NovelID"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
