package services

import (
	"time"

	"novelbranch/models"
	"novelbranch/repositories"
)

var nowFunc = time.Now

// In-memory stand-ins for the repositories so the service tests run without a
// database. The merge fake mirrors the tracker's real coupling: approving a
// request also flips its chapter to merged, and neither write happens if the
// transition is rejected.

type fakeStore struct {
	users         map[uint]*models.User
	novels        map[uint]*models.Novel
	chapters      map[uint]*models.Chapter
	mergeRequests map[uint]*models.MergeRequest
	nextID        uint
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:         make(map[uint]*models.User),
		novels:        make(map[uint]*models.Novel),
		chapters:      make(map[uint]*models.Chapter),
		mergeRequests: make(map[uint]*models.MergeRequest),
	}
}

func (s *fakeStore) id() uint {
	s.nextID++
	return s.nextID
}

func (s *fakeStore) addUser(username string) *models.User {
	user := &models.User{ID: s.id(), Username: username, IsActive: true}
	s.users[user.ID] = user
	return user
}

type fakeNovelRepo struct {
	store *fakeStore
}

func (r *fakeNovelRepo) Create(novel *models.Novel) error {
	novel.ID = r.store.id()
	r.store.novels[novel.ID] = novel
	return nil
}

func (r *fakeNovelRepo) GetByID(id uint) (*models.Novel, error) {
	novel, ok := r.store.novels[id]
	if !ok {
		return nil, models.ErrorNotFound{Message: "novel not found"}
	}
	if author, ok := r.store.users[novel.AuthorID]; ok {
		novel.Author = *author
	}
	return novel, nil
}

func (r *fakeNovelRepo) GetList(params models.NovelListParams) ([]models.Novel, int64, error) {
	var novels []models.Novel
	for _, novel := range r.store.novels {
		novels = append(novels, *novel)
	}
	return novels, int64(len(novels)), nil
}

func (r *fakeNovelRepo) Update(novel *models.Novel) error {
	r.store.novels[novel.ID] = novel
	return nil
}

func (r *fakeNovelRepo) DeleteCascade(id uint) (bool, error) {
	if _, ok := r.store.novels[id]; !ok {
		return false, nil
	}
	for mrID, mr := range r.store.mergeRequests {
		if mr.ToNovelID == id {
			delete(r.store.mergeRequests, mrID)
		}
	}
	for chID, ch := range r.store.chapters {
		if ch.NovelID == id {
			delete(r.store.chapters, chID)
		}
	}
	delete(r.store.novels, id)
	return true, nil
}

type fakeChapterRepo struct {
	store *fakeStore
}

func (r *fakeChapterRepo) Create(chapter *models.Chapter) error {
	chapter.ID = r.store.id()
	if chapter.BranchType == "" {
		chapter.BranchType = models.BranchMain
	}
	r.store.chapters[chapter.ID] = chapter
	return nil
}

func (r *fakeChapterRepo) GetByID(id uint) (*models.Chapter, error) {
	chapter, ok := r.store.chapters[id]
	if !ok {
		return nil, models.ErrorNotFound{Message: "chapter not found"}
	}
	if author, ok := r.store.users[chapter.AuthorID]; ok {
		chapter.Author = *author
	}
	if chapter.ParentChapterID != nil {
		chapter.ParentChapter = r.store.chapters[*chapter.ParentChapterID]
	}
	return chapter, nil
}

func (r *fakeChapterRepo) GetByNovel(novelID uint) ([]models.Chapter, error) {
	return r.filter(func(c *models.Chapter) bool { return c.NovelID == novelID }), nil
}

func (r *fakeChapterRepo) GetMainChapters(novelID uint) ([]models.Chapter, error) {
	return r.filter(func(c *models.Chapter) bool {
		return c.NovelID == novelID && c.BranchType == models.BranchMain
	}), nil
}

func (r *fakeChapterRepo) GetMergedChapters(novelID uint) ([]models.Chapter, error) {
	return r.filter(func(c *models.Chapter) bool {
		return c.NovelID == novelID && c.BranchType == models.BranchMerged
	}), nil
}

func (r *fakeChapterRepo) GetForkChapters(parentChapterID uint) ([]models.Chapter, error) {
	return r.filter(func(c *models.Chapter) bool {
		return c.ParentChapterID != nil && *c.ParentChapterID == parentChapterID && c.BranchType == models.BranchFork
	}), nil
}

func (r *fakeChapterRepo) GetMergedChaptersForParent(parentChapterID uint) ([]models.Chapter, error) {
	return r.filter(func(c *models.Chapter) bool {
		return c.ParentChapterID != nil && *c.ParentChapterID == parentChapterID && c.BranchType == models.BranchMerged
	}), nil
}

func (r *fakeChapterRepo) filter(keep func(*models.Chapter) bool) []models.Chapter {
	var result []models.Chapter
	for _, chapter := range r.store.chapters {
		if keep(chapter) {
			result = append(result, *chapter)
		}
	}
	return result
}

func (r *fakeChapterRepo) Fork(parentChapterID, authorID uint, title, content string) (*models.Chapter, error) {
	parent, ok := r.store.chapters[parentChapterID]
	if !ok {
		return nil, models.ErrorNotFound{Message: "chapter not found"}
	}
	chapter := &models.Chapter{
		ID:              r.store.id(),
		NovelID:         parent.NovelID,
		Title:           title,
		Content:         content,
		ChapterNumber:   parent.ChapterNumber,
		ParentChapterID: &parent.ID,
		BranchType:      models.BranchFork,
		AuthorID:        authorID,
	}
	r.store.chapters[chapter.ID] = chapter
	return chapter, nil
}

func (r *fakeChapterRepo) UpdateContent(id uint, title, content string) (*models.Chapter, error) {
	chapter, ok := r.store.chapters[id]
	if !ok {
		return nil, models.ErrorNotFound{Message: "chapter not found"}
	}
	chapter.Title = title
	chapter.Content = content
	return chapter, nil
}

func (r *fakeChapterRepo) Delete(id uint) (bool, error) {
	if _, ok := r.store.chapters[id]; !ok {
		return false, nil
	}
	for mrID, mr := range r.store.mergeRequests {
		if mr.FromChapterID == id {
			delete(r.store.mergeRequests, mrID)
		}
	}
	delete(r.store.chapters, id)
	return true, nil
}

type fakeMergeRepo struct {
	store *fakeStore
}

func (r *fakeMergeRepo) Create(mr *models.MergeRequest) error {
	for _, existing := range r.store.mergeRequests {
		if existing.FromChapterID == mr.FromChapterID && existing.Status != models.MergeRejected {
			return models.ErrorConflict{Message: "chapter already has an active merge request"}
		}
	}
	mr.ID = r.store.id()
	mr.Status = models.MergePending
	r.store.mergeRequests[mr.ID] = mr
	return nil
}

func (r *fakeMergeRepo) GetByID(id uint) (*models.MergeRequest, error) {
	mr, ok := r.store.mergeRequests[id]
	if !ok {
		return nil, models.ErrorNotFound{Message: "merge request not found"}
	}
	if requester, ok := r.store.users[mr.RequestedBy]; ok {
		mr.Requester = *requester
	}
	mr.FromChapter = r.store.chapters[mr.FromChapterID]
	return mr, nil
}

func (r *fakeMergeRepo) GetByNovel(novelID uint) ([]models.MergeRequest, error) {
	var result []models.MergeRequest
	for _, mr := range r.store.mergeRequests {
		if mr.ToNovelID == novelID {
			loaded, _ := r.GetByID(mr.ID)
			result = append(result, *loaded)
		}
	}
	return result, nil
}

func (r *fakeMergeRepo) FindActiveForChapter(chapterID uint) (*models.MergeRequest, error) {
	for _, mr := range r.store.mergeRequests {
		if mr.FromChapterID == chapterID &&
			(mr.Status == models.MergePending || mr.Status == models.MergeApproved) {
			return mr, nil
		}
	}
	return nil, nil
}

func (r *fakeMergeRepo) Approve(id uint) (*models.MergeRequest, error) {
	mr, ok := r.store.mergeRequests[id]
	if !ok {
		return nil, models.ErrorNotFound{Message: "merge request not found"}
	}
	if mr.Status != models.MergePending {
		return nil, models.ErrorConflict{Message: "merge request already reviewed"}
	}
	chapter, ok := r.store.chapters[mr.FromChapterID]
	if !ok {
		return nil, models.ErrorNotFound{Message: "chapter not found"}
	}
	if chapter.BranchType != models.BranchFork {
		return nil, models.ErrorConflict{Message: "chapter is not a fork"}
	}
	now := nowFunc()
	mr.Status = models.MergeApproved
	mr.ReviewedAt = &now
	chapter.BranchType = models.BranchMerged
	return mr, nil
}

func (r *fakeMergeRepo) Reject(id uint, reviewComment *string) (*models.MergeRequest, error) {
	mr, ok := r.store.mergeRequests[id]
	if !ok {
		return nil, models.ErrorNotFound{Message: "merge request not found"}
	}
	if mr.Status != models.MergePending {
		return nil, models.ErrorConflict{Message: "merge request already reviewed"}
	}
	now := nowFunc()
	mr.Status = models.MergeRejected
	mr.ReviewedAt = &now
	if reviewComment != nil {
		mr.ReviewComment = reviewComment
	}
	return mr, nil
}

var _ repositories.NovelRepository = (*fakeNovelRepo)(nil)
var _ repositories.ChapterRepository = (*fakeChapterRepo)(nil)
var _ repositories.MergeRequestRepository = (*fakeMergeRepo)(nil)
