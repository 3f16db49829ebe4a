package models

import "time"

type MergeStatus string

const (
	MergePending  MergeStatus = "pending"
	MergeApproved MergeStatus = "approved"
	MergeRejected MergeStatus = "rejected"
)

// A merge request is "active" while pending or approved: it occupies its fork
// chapter, and the ux_merge_requests_active index allows at most one such row
// per chapter. Status moves out of pending exactly once.
type MergeRequest struct {
	ID            uint        `json:"id" gorm:"primarykey"`
	FromChapterID uint        `json:"from_chapter_id" gorm:"not null;index"`
	FromChapter   *Chapter    `json:"-" gorm:"foreignKey:FromChapterID"`
	ToNovelID     uint        `json:"to_novel_id" gorm:"not null;index"`
	Status        MergeStatus `json:"status" gorm:"size:20;default:'pending';not null"`
	RequestedBy   uint        `json:"requested_by" gorm:"not null"`
	Requester     User        `json:"-" gorm:"foreignKey:RequestedBy"`
	ReviewComment *string     `json:"review_comment"`
	CreatedAt     time.Time   `json:"created_at"`
	ReviewedAt    *time.Time  `json:"reviewed_at"`
}
