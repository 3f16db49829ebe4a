package services

import (
	"novelbranch/models"
	"novelbranch/repositories"
)

// MergeService is the workflow orchestrator for the fork/merge lifecycle. It
// is the only mutation path callers should use: it enforces the cross-entity
// rules (who may submit, who may review, one active request per chapter) and
// delegates persistence to the chapter store and merge request tracker.
type MergeService interface {
	SubmitForReview(novelID uint, req models.CreateMergeRequestRequest, requestedBy uint) (*models.MergeRequest, error)
	CheckSubmissionEligibility(chapterID, requestedBy uint) (*models.EligibilityResponse, error)
	Approve(mrID, approverID uint) (*models.MergeRequest, error)
	Reject(mrID, approverID uint, reviewComment *string) (*models.MergeRequest, error)
	GetMergeRequests(novelID uint) ([]models.MergeRequestResponse, error)
}

type mergeService struct {
	mergeRepo   repositories.MergeRequestRepository
	chapterRepo repositories.ChapterRepository
	novelRepo   repositories.NovelRepository
}

func NewMergeService(
	mergeRepo repositories.MergeRequestRepository,
	chapterRepo repositories.ChapterRepository,
	novelRepo repositories.NovelRepository,
) MergeService {
	return &mergeService{
		mergeRepo:   mergeRepo,
		chapterRepo: chapterRepo,
		novelRepo:   novelRepo,
	}
}

// SubmitForReview creates a pending merge request for a fork chapter. Only
// the fork's author may submit, and only while no pending or approved request
// occupies the chapter. The pending and approved cases are reported as
// distinct conflicts.
func (s *mergeService) SubmitForReview(novelID uint, req models.CreateMergeRequestRequest, requestedBy uint) (*models.MergeRequest, error) {
	if _, err := s.novelRepo.GetByID(novelID); err != nil {
		return nil, err
	}

	chapter, err := s.chapterRepo.GetByID(req.FromChapterID)
	if err != nil {
		return nil, err
	}

	if chapter.BranchType != models.BranchFork {
		return nil, models.ErrorForbidden{Message: "only fork chapters can be submitted"}
	}
	if chapter.AuthorID != requestedBy {
		return nil, models.ErrorForbidden{Message: "only the fork author can submit this chapter"}
	}

	active, err := s.mergeRepo.FindActiveForChapter(req.FromChapterID)
	if err != nil {
		return nil, err
	}
	if active != nil {
		switch active.Status {
		case models.MergeApproved:
			return nil, models.ErrorConflict{Message: models.ReasonAlreadyApproved}
		default:
			return nil, models.ErrorConflict{Message: models.ReasonAlreadyPending}
		}
	}

	mr := &models.MergeRequest{
		FromChapterID: req.FromChapterID,
		ToNovelID:     novelID,
		RequestedBy:   requestedBy,
		ReviewComment: req.ReviewComment,
	}

	if err := s.mergeRepo.Create(mr); err != nil {
		return nil, err
	}

	return mr, nil
}

// CheckSubmissionEligibility mirrors the SubmitForReview checks without side
// effects, so callers can pre-flight a submission.
func (s *mergeService) CheckSubmissionEligibility(chapterID, requestedBy uint) (*models.EligibilityResponse, error) {
	chapter, err := s.chapterRepo.GetByID(chapterID)
	if err != nil {
		return nil, err
	}

	if chapter.BranchType != models.BranchFork {
		return &models.EligibilityResponse{CanSubmit: false, Reason: models.ReasonNotAFork}, nil
	}
	if chapter.AuthorID != requestedBy {
		return &models.EligibilityResponse{CanSubmit: false, Reason: models.ReasonNotAuthor}, nil
	}

	active, err := s.mergeRepo.FindActiveForChapter(chapterID)
	if err != nil {
		return nil, err
	}
	if active != nil {
		switch active.Status {
		case models.MergeApproved:
			return &models.EligibilityResponse{CanSubmit: false, Reason: models.ReasonAlreadyApproved}, nil
		default:
			return &models.EligibilityResponse{CanSubmit: false, Reason: models.ReasonAlreadyPending}, nil
		}
	}

	return &models.EligibilityResponse{CanSubmit: true}, nil
}

// Approve authorizes the caller as the novel's owner, then hands off to the
// tracker, which marks the request approved and promotes the fork chapter as
// one unit. Only the approved request's own chapter is promoted.
func (s *mergeService) Approve(mrID, approverID uint) (*models.MergeRequest, error) {
	mr, err := s.mergeRepo.GetByID(mrID)
	if err != nil {
		return nil, err
	}

	novel, err := s.novelRepo.GetByID(mr.ToNovelID)
	if err != nil {
		return nil, err
	}
	if novel.AuthorID != approverID {
		return nil, models.ErrorForbidden{Message: "only the novel author can approve merge requests"}
	}

	return s.mergeRepo.Approve(mrID)
}

func (s *mergeService) Reject(mrID, approverID uint, reviewComment *string) (*models.MergeRequest, error) {
	mr, err := s.mergeRepo.GetByID(mrID)
	if err != nil {
		return nil, err
	}

	novel, err := s.novelRepo.GetByID(mr.ToNovelID)
	if err != nil {
		return nil, err
	}
	if novel.AuthorID != approverID {
		return nil, models.ErrorForbidden{Message: "only the novel author can reject merge requests"}
	}

	return s.mergeRepo.Reject(mrID, reviewComment)
}

func (s *mergeService) GetMergeRequests(novelID uint) ([]models.MergeRequestResponse, error) {
	mrs, err := s.mergeRepo.GetByNovel(novelID)
	if err != nil {
		return nil, err
	}

	result := make([]models.MergeRequestResponse, 0, len(mrs))
	for _, mr := range mrs {
		resp := models.MergeRequestResponse{
			MergeRequest:      mr,
			RequesterUsername: mr.Requester.Username,
		}
		if mr.FromChapter != nil {
			resp.FromChapterTitle = mr.FromChapter.Title
		}
		result = append(result, resp)
	}
	return result, nil
}
