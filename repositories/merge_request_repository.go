package repositories

import (
	"errors"
	"time"

	"novelbranch/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// MergeRequestRepository tracks review requests for fork chapters. It owns
// the status lifecycle and, on approval, coordinates with the chapters table
// to promote the fork in the same transaction.
type MergeRequestRepository interface {
	Create(mr *models.MergeRequest) error
	GetByID(id uint) (*models.MergeRequest, error)
	GetByNovel(novelID uint) ([]models.MergeRequest, error)
	FindActiveForChapter(chapterID uint) (*models.MergeRequest, error)
	Approve(id uint) (*models.MergeRequest, error)
	Reject(id uint, reviewComment *string) (*models.MergeRequest, error)
}

type mergeRequestRepository struct {
	db *gorm.DB
}

func NewMergeRequestRepository(db *gorm.DB) MergeRequestRepository {
	return &mergeRequestRepository{db: db}
}

// Create records a pending request. The partial unique index on active
// requests backstops the caller's eligibility check: a lost race comes back
// as a duplicate key and is reported as Conflict.
func (r *mergeRequestRepository) Create(mr *models.MergeRequest) error {
	mr.Status = models.MergePending
	err := r.db.Create(mr).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return models.ErrorConflict{Message: "chapter already has an active merge request"}
	}
	return err
}

func (r *mergeRequestRepository) GetByID(id uint) (*models.MergeRequest, error) {
	var mr models.MergeRequest
	err := r.db.Preload("Requester").Preload("FromChapter").First(&mr, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.ErrorNotFound{Message: "merge request not found"}
	}
	return &mr, err
}

func (r *mergeRequestRepository) GetByNovel(novelID uint) ([]models.MergeRequest, error) {
	var mrs []models.MergeRequest
	err := r.db.Where("to_novel_id = ?", novelID).
		Preload("Requester").
		Preload("FromChapter").
		Order("id asc").
		Find(&mrs).Error
	return mrs, err
}

// FindActiveForChapter returns the single pending or approved request
// occupying a chapter, or nil when the chapter is free.
func (r *mergeRequestRepository) FindActiveForChapter(chapterID uint) (*models.MergeRequest, error) {
	var mr models.MergeRequest
	err := r.db.Where("from_chapter_id = ? AND status IN ?", chapterID,
		[]models.MergeStatus{models.MergePending, models.MergeApproved}).
		First(&mr).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &mr, nil
}

// Approve marks the request approved and promotes its fork chapter to merged
// in one transaction, with both rows locked. A reader never sees an approved
// request whose chapter is still a fork, or the reverse.
func (r *mergeRequestRepository) Approve(id uint) (*models.MergeRequest, error) {
	var mr models.MergeRequest
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&mr, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.ErrorNotFound{Message: "merge request not found"}
			}
			return err
		}
		if mr.Status != models.MergePending {
			return models.ErrorConflict{Message: "merge request already reviewed"}
		}

		var chapter models.Chapter
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&chapter, mr.FromChapterID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.ErrorNotFound{Message: "chapter not found"}
			}
			return err
		}
		if chapter.BranchType != models.BranchFork {
			return models.ErrorConflict{Message: "chapter is not a fork"}
		}

		now := time.Now()
		mr.Status = models.MergeApproved
		mr.ReviewedAt = &now
		if err := tx.Save(&mr).Error; err != nil {
			return err
		}

		chapter.BranchType = models.BranchMerged
		return tx.Save(&chapter).Error
	})
	if err != nil {
		return nil, err
	}
	return &mr, nil
}

// Reject is terminal for the request but leaves the chapter a fork, so it may
// be resubmitted later.
func (r *mergeRequestRepository) Reject(id uint, reviewComment *string) (*models.MergeRequest, error) {
	var mr models.MergeRequest
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&mr, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.ErrorNotFound{Message: "merge request not found"}
			}
			return err
		}
		if mr.Status != models.MergePending {
			return models.ErrorConflict{Message: "merge request already reviewed"}
		}

		now := time.Now()
		mr.Status = models.MergeRejected
		mr.ReviewedAt = &now
		if reviewComment != nil {
			mr.ReviewComment = reviewComment
		}
		return tx.Save(&mr).Error
	})
	if err != nil {
		return nil, err
	}
	return &mr, nil
}
