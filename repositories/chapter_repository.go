package repositories

import (
	"errors"

	"novelbranch/models"

	"gorm.io/gorm"
)

// ChapterRepository is the chapter store: CRUD plus lineage queries. It holds
// no authorization logic; author checks belong to the services.
type ChapterRepository interface {
	Create(chapter *models.Chapter) error
	GetByID(id uint) (*models.Chapter, error)
	GetByNovel(novelID uint) ([]models.Chapter, error)
	GetMainChapters(novelID uint) ([]models.Chapter, error)
	GetMergedChapters(novelID uint) ([]models.Chapter, error)
	GetForkChapters(parentChapterID uint) ([]models.Chapter, error)
	GetMergedChaptersForParent(parentChapterID uint) ([]models.Chapter, error)
	Fork(parentChapterID, authorID uint, title, content string) (*models.Chapter, error)
	UpdateContent(id uint, title, content string) (*models.Chapter, error)
	Delete(id uint) (bool, error)
}

type chapterRepository struct {
	db *gorm.DB
}

func NewChapterRepository(db *gorm.DB) ChapterRepository {
	return &chapterRepository{db: db}
}

func (r *chapterRepository) Create(chapter *models.Chapter) error {
	return r.db.Create(chapter).Error
}

func (r *chapterRepository) GetByID(id uint) (*models.Chapter, error) {
	var chapter models.Chapter
	err := r.db.Preload("Author").Preload("ParentChapter").First(&chapter, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.ErrorNotFound{Message: "chapter not found"}
	}
	return &chapter, err
}

func (r *chapterRepository) GetByNovel(novelID uint) ([]models.Chapter, error) {
	var chapters []models.Chapter
	err := r.db.Where("novel_id = ?", novelID).
		Preload("Author").
		Preload("ParentChapter").
		Order("chapter_number asc, id asc").
		Find(&chapters).Error
	return chapters, err
}

func (r *chapterRepository) GetMainChapters(novelID uint) ([]models.Chapter, error) {
	return r.byNovelAndBranch(novelID, models.BranchMain)
}

func (r *chapterRepository) GetMergedChapters(novelID uint) ([]models.Chapter, error) {
	return r.byNovelAndBranch(novelID, models.BranchMerged)
}

func (r *chapterRepository) byNovelAndBranch(novelID uint, branch models.BranchType) ([]models.Chapter, error) {
	var chapters []models.Chapter
	err := r.db.Where("novel_id = ? AND branch_type = ?", novelID, branch).
		Preload("Author").
		Preload("ParentChapter").
		Order("chapter_number asc, id asc").
		Find(&chapters).Error
	return chapters, err
}

// GetForkChapters returns the live competing drafts of a parent; forks that
// were already promoted to merged are excluded.
func (r *chapterRepository) GetForkChapters(parentChapterID uint) ([]models.Chapter, error) {
	return r.byParentAndBranch(parentChapterID, models.BranchFork)
}

func (r *chapterRepository) GetMergedChaptersForParent(parentChapterID uint) ([]models.Chapter, error) {
	return r.byParentAndBranch(parentChapterID, models.BranchMerged)
}

func (r *chapterRepository) byParentAndBranch(parentChapterID uint, branch models.BranchType) ([]models.Chapter, error) {
	var chapters []models.Chapter
	err := r.db.Where("parent_chapter_id = ? AND branch_type = ?", parentChapterID, branch).
		Preload("Author").
		Order("id asc").
		Find(&chapters).Error
	return chapters, err
}

// Fork copies the parent's novel and chapter_number into a new fork row.
// Multiple concurrent forks of the same parent are permitted.
func (r *chapterRepository) Fork(parentChapterID, authorID uint, title, content string) (*models.Chapter, error) {
	var parent models.Chapter
	if err := r.db.First(&parent, parentChapterID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrorNotFound{Message: "chapter not found"}
		}
		return nil, err
	}

	chapter := &models.Chapter{
		NovelID:         parent.NovelID,
		Title:           title,
		Content:         content,
		ChapterNumber:   parent.ChapterNumber,
		ParentChapterID: &parent.ID,
		BranchType:      models.BranchFork,
		AuthorID:        authorID,
	}

	if err := r.db.Create(chapter).Error; err != nil {
		return nil, err
	}

	return chapter, nil
}

// UpdateContent replaces title and content only. Branch type, parent, novel
// and author are immutable through this path.
func (r *chapterRepository) UpdateContent(id uint, title, content string) (*models.Chapter, error) {
	var chapter models.Chapter
	if err := r.db.First(&chapter, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrorNotFound{Message: "chapter not found"}
		}
		return nil, err
	}

	chapter.Title = title
	chapter.Content = content
	if err := r.db.Save(&chapter).Error; err != nil {
		return nil, err
	}

	return &chapter, nil
}

// Delete hard-deletes a chapter and any merge requests submitted from it.
// Returns false, not an error, when the chapter does not exist.
func (r *chapterRepository) Delete(id uint) (bool, error) {
	deleted := false
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("from_chapter_id = ?", id).Delete(&models.MergeRequest{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Chapter{}, id)
		if res.Error != nil {
			return res.Error
		}
		deleted = res.RowsAffected > 0
		return nil
	})
	return deleted, err
}
