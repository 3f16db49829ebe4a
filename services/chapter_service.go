package services

import (
	"novelbranch/models"
	"novelbranch/repositories"
)

type ChapterService interface {
	CreateChapter(novelID uint, req models.CreateChapterRequest, userID uint) (*models.Chapter, error)
	GetChapter(id uint) (*models.ChapterResponse, error)
	GetNovelChapters(novelID uint) ([]models.ChapterResponse, error)
	GetMainChapters(novelID uint) ([]models.ChapterResponse, error)
	GetMergedChapters(novelID uint) ([]models.ChapterResponse, error)
	ForkChapter(parentChapterID uint, req models.ForkChapterRequest, userID uint) (*models.Chapter, error)
	GetForkChapters(parentChapterID uint) ([]models.ChapterResponse, error)
	GetMergedChaptersForParent(parentChapterID uint) ([]models.ChapterResponse, error)
	UpdateChapter(id uint, req models.UpdateChapterRequest, userID uint) (*models.Chapter, error)
	DeleteChapter(id uint, userID uint) error
}

type chapterService struct {
	chapterRepo repositories.ChapterRepository
	novelRepo   repositories.NovelRepository
}

func NewChapterService(chapterRepo repositories.ChapterRepository, novelRepo repositories.NovelRepository) ChapterService {
	return &chapterService{
		chapterRepo: chapterRepo,
		novelRepo:   novelRepo,
	}
}

// CreateChapter adds a main chapter to the novel's primary sequence. Chapter
// numbers are not checked for uniqueness; ordering is numeric with id as the
// tie breaker.
func (s *chapterService) CreateChapter(novelID uint, req models.CreateChapterRequest, userID uint) (*models.Chapter, error) {
	if _, err := s.novelRepo.GetByID(novelID); err != nil {
		return nil, err
	}

	chapter := &models.Chapter{
		NovelID:       novelID,
		Title:         req.Title,
		Content:       req.Content,
		ChapterNumber: req.ChapterNumber,
		BranchType:    models.BranchMain,
		AuthorID:      userID,
	}

	if err := s.chapterRepo.Create(chapter); err != nil {
		return nil, err
	}

	return chapter, nil
}

func (s *chapterService) GetChapter(id uint) (*models.ChapterResponse, error) {
	chapter, err := s.chapterRepo.GetByID(id)
	if err != nil {
		return nil, err
	}

	resp := toChapterResponse(*chapter)
	return &resp, nil
}

func (s *chapterService) GetNovelChapters(novelID uint) ([]models.ChapterResponse, error) {
	chapters, err := s.chapterRepo.GetByNovel(novelID)
	if err != nil {
		return nil, err
	}
	return toChapterResponses(chapters), nil
}

func (s *chapterService) GetMainChapters(novelID uint) ([]models.ChapterResponse, error) {
	chapters, err := s.chapterRepo.GetMainChapters(novelID)
	if err != nil {
		return nil, err
	}
	return toChapterResponses(chapters), nil
}

func (s *chapterService) GetMergedChapters(novelID uint) ([]models.ChapterResponse, error) {
	chapters, err := s.chapterRepo.GetMergedChapters(novelID)
	if err != nil {
		return nil, err
	}
	return toChapterResponses(chapters), nil
}

func (s *chapterService) ForkChapter(parentChapterID uint, req models.ForkChapterRequest, userID uint) (*models.Chapter, error) {
	return s.chapterRepo.Fork(parentChapterID, userID, req.Title, req.Content)
}

func (s *chapterService) GetForkChapters(parentChapterID uint) ([]models.ChapterResponse, error) {
	parent, err := s.chapterRepo.GetByID(parentChapterID)
	if err != nil {
		return nil, err
	}

	chapters, err := s.chapterRepo.GetForkChapters(parentChapterID)
	if err != nil {
		return nil, err
	}

	result := toChapterResponses(chapters)
	for i := range result {
		result[i].ParentChapterTitle = &parent.Title
	}
	return result, nil
}

func (s *chapterService) GetMergedChaptersForParent(parentChapterID uint) ([]models.ChapterResponse, error) {
	parent, err := s.chapterRepo.GetByID(parentChapterID)
	if err != nil {
		return nil, err
	}

	chapters, err := s.chapterRepo.GetMergedChaptersForParent(parentChapterID)
	if err != nil {
		return nil, err
	}

	result := toChapterResponses(chapters)
	for i := range result {
		result[i].ParentChapterTitle = &parent.Title
	}
	return result, nil
}

func (s *chapterService) UpdateChapter(id uint, req models.UpdateChapterRequest, userID uint) (*models.Chapter, error) {
	chapter, err := s.chapterRepo.GetByID(id)
	if err != nil {
		return nil, err
	}

	if chapter.AuthorID != userID {
		return nil, models.ErrorForbidden{Message: "not authorized to update this chapter"}
	}

	return s.chapterRepo.UpdateContent(id, req.Title, req.Content)
}

func (s *chapterService) DeleteChapter(id uint, userID uint) error {
	chapter, err := s.chapterRepo.GetByID(id)
	if err != nil {
		return err
	}

	if chapter.AuthorID != userID {
		return models.ErrorForbidden{Message: "not authorized to delete this chapter"}
	}

	_, err = s.chapterRepo.Delete(id)
	return err
}

// The author username and parent chapter title are presentation joins; they
// live on the response, not on the stored entity.
func toChapterResponse(chapter models.Chapter) models.ChapterResponse {
	resp := models.ChapterResponse{
		Chapter:        chapter,
		AuthorUsername: chapter.Author.Username,
	}
	if chapter.ParentChapter != nil {
		resp.ParentChapterTitle = &chapter.ParentChapter.Title
	}
	return resp
}

func toChapterResponses(chapters []models.Chapter) []models.ChapterResponse {
	result := make([]models.ChapterResponse, 0, len(chapters))
	for _, chapter := range chapters {
		result = append(result, toChapterResponse(chapter))
	}
	return result
}
