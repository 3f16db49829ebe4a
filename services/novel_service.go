package services

import (
	"novelbranch/models"
	"novelbranch/repositories"
)

type NovelService interface {
	CreateNovel(req models.CreateNovelRequest, userID uint) (*models.Novel, error)
	GetNovel(id uint) (*models.Novel, error)
	GetNovels(params models.NovelListParams) ([]models.Novel, int64, error)
	UpdateNovel(id uint, req models.UpdateNovelRequest, userID uint) (*models.Novel, error)
	DeleteNovel(id uint, userID uint) error
}

type novelService struct {
	novelRepo repositories.NovelRepository
}

func NewNovelService(novelRepo repositories.NovelRepository) NovelService {
	return &novelService{novelRepo: novelRepo}
}

func (s *novelService) CreateNovel(req models.CreateNovelRequest, userID uint) (*models.Novel, error) {
	novel := &models.Novel{
		Title:       req.Title,
		Description: req.Description,
		AuthorID:    userID,
	}

	if err := s.novelRepo.Create(novel); err != nil {
		return nil, err
	}

	return s.novelRepo.GetByID(novel.ID)
}

func (s *novelService) GetNovel(id uint) (*models.Novel, error) {
	return s.novelRepo.GetByID(id)
}

func (s *novelService) GetNovels(params models.NovelListParams) ([]models.Novel, int64, error) {
	return s.novelRepo.GetList(params)
}

func (s *novelService) UpdateNovel(id uint, req models.UpdateNovelRequest, userID uint) (*models.Novel, error) {
	novel, err := s.novelRepo.GetByID(id)
	if err != nil {
		return nil, err
	}

	if novel.AuthorID != userID {
		return nil, models.ErrorForbidden{Message: "not authorized to update this novel"}
	}

	novel.Title = req.Title
	novel.Description = req.Description
	if err := s.novelRepo.Update(novel); err != nil {
		return nil, err
	}

	return novel, nil
}

func (s *novelService) DeleteNovel(id uint, userID uint) error {
	novel, err := s.novelRepo.GetByID(id)
	if err != nil {
		return err
	}

	if novel.AuthorID != userID {
		return models.ErrorForbidden{Message: "not authorized to delete this novel"}
	}

	_, err = s.novelRepo.DeleteCascade(id)
	return err
}
