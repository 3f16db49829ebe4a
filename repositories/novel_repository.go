package repositories

import (
	"errors"

	"novelbranch/models"

	"gorm.io/gorm"
)

type NovelRepository interface {
	Create(novel *models.Novel) error
	GetByID(id uint) (*models.Novel, error)
	GetList(params models.NovelListParams) ([]models.Novel, int64, error)
	Update(novel *models.Novel) error
	DeleteCascade(id uint) (bool, error)
}

type novelRepository struct {
	db *gorm.DB
}

func NewNovelRepository(db *gorm.DB) NovelRepository {
	return &novelRepository{db: db}
}

func (r *novelRepository) Create(novel *models.Novel) error {
	return r.db.Create(novel).Error
}

func (r *novelRepository) GetByID(id uint) (*models.Novel, error) {
	var novel models.Novel
	err := r.db.Preload("Author").First(&novel, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.ErrorNotFound{Message: "novel not found"}
	}
	return &novel, err
}

func (r *novelRepository) GetList(params models.NovelListParams) ([]models.Novel, int64, error) {
	var novels []models.Novel
	var total int64

	query := r.db.Model(&models.Novel{}).Preload("Author")
	query.Count(&total)

	offset := (params.Page - 1) * params.Limit
	err := query.Order("created_at desc").Offset(offset).Limit(params.Limit).Find(&novels).Error

	return novels, total, err
}

func (r *novelRepository) Update(novel *models.Novel) error {
	return r.db.Save(novel).Error
}

// DeleteCascade removes the novel's merge requests, then its chapters, then
// the novel itself, in one transaction. Merge requests go first so no row is
// ever left pointing at a deleted chapter.
func (r *novelRepository) DeleteCascade(id uint) (bool, error) {
	deleted := false
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("to_novel_id = ?", id).Delete(&models.MergeRequest{}).Error; err != nil {
			return err
		}
		if err := tx.Where("novel_id = ?", id).Delete(&models.Chapter{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Novel{}, id)
		if res.Error != nil {
			return res.Error
		}
		deleted = res.RowsAffected > 0
		return nil
	})
	return deleted, err
}
