package models

import "time"

type BranchType string

const (
	BranchMain   BranchType = "main"
	BranchFork   BranchType = "fork"
	BranchMerged BranchType = "merged"
)

// Chapter rows form the fork lineage: a main chapter has no parent, a fork
// points at the chapter it branched from and shares its chapter_number, and a
// merged chapter is a fork whose merge request was approved. The row is
// flagged, never replaced.
type Chapter struct {
	ID              uint       `json:"id" gorm:"primarykey"`
	NovelID         uint       `json:"novel_id" gorm:"not null;index"`
	Title           string     `json:"title" gorm:"size:200;not null"`
	Content         string     `json:"content" gorm:"type:text;not null"`
	ChapterNumber   int        `json:"chapter_number" gorm:"not null"`
	ParentChapterID *uint      `json:"parent_chapter_id" gorm:"index"`
	ParentChapter   *Chapter   `json:"-" gorm:"foreignKey:ParentChapterID"`
	BranchType      BranchType `json:"branch_type" gorm:"size:20;default:'main';not null"`
	AuthorID        uint       `json:"author_id" gorm:"not null"`
	Author          User       `json:"-" gorm:"foreignKey:AuthorID"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}
