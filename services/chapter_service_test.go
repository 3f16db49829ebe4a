package services

import (
	"testing"

	"novelbranch/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type chapterFixture struct {
	store   *fakeStore
	service ChapterService
	owner   *models.User
	other   *models.User
	novel   *models.Novel
}

func newChapterFixture(t *testing.T) *chapterFixture {
	t.Helper()

	store := newFakeStore()
	novelRepo := &fakeNovelRepo{store: store}
	chapterRepo := &fakeChapterRepo{store: store}

	owner := store.addUser("owner")
	other := store.addUser("other")

	novel := &models.Novel{Title: "Tidelands", AuthorID: owner.ID}
	require.NoError(t, novelRepo.Create(novel))

	return &chapterFixture{
		store:   store,
		service: NewChapterService(chapterRepo, novelRepo),
		owner:   owner,
		other:   other,
		novel:   novel,
	}
}

func TestCreateChapterIsMainWithoutParent(t *testing.T) {
	f := newChapterFixture(t)

	chapter, err := f.service.CreateChapter(f.novel.ID, models.CreateChapterRequest{
		Title:         "Ch1",
		Content:       "The tide was out.",
		ChapterNumber: 1,
	}, f.owner.ID)
	require.NoError(t, err)

	assert.Equal(t, models.BranchMain, chapter.BranchType)
	assert.Nil(t, chapter.ParentChapterID)
	assert.Equal(t, 1, chapter.ChapterNumber)
	assert.Equal(t, f.owner.ID, chapter.AuthorID)
}

func TestCreateChapterMissingNovel(t *testing.T) {
	f := newChapterFixture(t)

	_, err := f.service.CreateChapter(999, models.CreateChapterRequest{
		Title:         "Ch1",
		Content:       "x",
		ChapterNumber: 1,
	}, f.owner.ID)
	assert.IsType(t, models.ErrorNotFound{}, err)
}

func TestForkInheritsParentPosition(t *testing.T) {
	f := newChapterFixture(t)
	main, err := f.service.CreateChapter(f.novel.ID, models.CreateChapterRequest{
		Title:         "Ch3",
		Content:       "Storm.",
		ChapterNumber: 3,
	}, f.owner.ID)
	require.NoError(t, err)

	fork, err := f.service.ForkChapter(main.ID, models.ForkChapterRequest{
		Title:   "Ch3 rewritten",
		Content: "Calm.",
	}, f.other.ID)
	require.NoError(t, err)

	assert.Equal(t, models.BranchFork, fork.BranchType)
	require.NotNil(t, fork.ParentChapterID)
	assert.Equal(t, main.ID, *fork.ParentChapterID)
	assert.Equal(t, main.ChapterNumber, fork.ChapterNumber)
	assert.Equal(t, main.NovelID, fork.NovelID)
	assert.Equal(t, f.other.ID, fork.AuthorID)
}

func TestForkMissingParentNotFound(t *testing.T) {
	f := newChapterFixture(t)

	_, err := f.service.ForkChapter(12345, models.ForkChapterRequest{
		Title:   "x",
		Content: "y",
	}, f.other.ID)
	assert.IsType(t, models.ErrorNotFound{}, err)
}

func TestConcurrentForksOfSameParentAllowed(t *testing.T) {
	f := newChapterFixture(t)
	main, err := f.service.CreateChapter(f.novel.ID, models.CreateChapterRequest{
		Title:         "Ch1",
		Content:       "x",
		ChapterNumber: 1,
	}, f.owner.ID)
	require.NoError(t, err)

	_, err = f.service.ForkChapter(main.ID, models.ForkChapterRequest{Title: "a", Content: "a"}, f.other.ID)
	require.NoError(t, err)
	_, err = f.service.ForkChapter(main.ID, models.ForkChapterRequest{Title: "b", Content: "b"}, f.other.ID)
	require.NoError(t, err)

	forks, err := f.service.GetForkChapters(main.ID)
	require.NoError(t, err)
	assert.Len(t, forks, 2)
}

func TestUpdateChapterAuthorOnly(t *testing.T) {
	f := newChapterFixture(t)
	chapter, err := f.service.CreateChapter(f.novel.ID, models.CreateChapterRequest{
		Title:         "Ch1",
		Content:       "old",
		ChapterNumber: 1,
	}, f.owner.ID)
	require.NoError(t, err)

	_, err = f.service.UpdateChapter(chapter.ID, models.UpdateChapterRequest{
		Title:   "Ch1",
		Content: "new",
	}, f.other.ID)
	assert.IsType(t, models.ErrorForbidden{}, err)

	updated, err := f.service.UpdateChapter(chapter.ID, models.UpdateChapterRequest{
		Title:   "Ch1 revised",
		Content: "new",
	}, f.owner.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ch1 revised", updated.Title)
	assert.Equal(t, "new", updated.Content)
	// Everything else is immutable through this path.
	assert.Equal(t, models.BranchMain, updated.BranchType)
	assert.Equal(t, f.novel.ID, updated.NovelID)
	assert.Equal(t, f.owner.ID, updated.AuthorID)
}

func TestDeleteChapterAuthorOnly(t *testing.T) {
	f := newChapterFixture(t)
	chapter, err := f.service.CreateChapter(f.novel.ID, models.CreateChapterRequest{
		Title:         "Ch1",
		Content:       "x",
		ChapterNumber: 1,
	}, f.owner.ID)
	require.NoError(t, err)

	err = f.service.DeleteChapter(chapter.ID, f.other.ID)
	assert.IsType(t, models.ErrorForbidden{}, err)

	require.NoError(t, f.service.DeleteChapter(chapter.ID, f.owner.ID))
	_, err = f.service.GetChapter(chapter.ID)
	assert.IsType(t, models.ErrorNotFound{}, err)
}

func TestChapterResponseDisplayFields(t *testing.T) {
	f := newChapterFixture(t)
	main, err := f.service.CreateChapter(f.novel.ID, models.CreateChapterRequest{
		Title:         "Ch1",
		Content:       "x",
		ChapterNumber: 1,
	}, f.owner.ID)
	require.NoError(t, err)

	fork, err := f.service.ForkChapter(main.ID, models.ForkChapterRequest{
		Title:   "Ch1 alt",
		Content: "y",
	}, f.other.ID)
	require.NoError(t, err)

	resp, err := f.service.GetChapter(fork.ID)
	require.NoError(t, err)
	assert.Equal(t, "other", resp.AuthorUsername)
	require.NotNil(t, resp.ParentChapterTitle)
	assert.Equal(t, "Ch1", *resp.ParentChapterTitle)
}

func TestMainAndMergedChapterQueries(t *testing.T) {
	f := newChapterFixture(t)
	main, err := f.service.CreateChapter(f.novel.ID, models.CreateChapterRequest{
		Title:         "Ch1",
		Content:       "x",
		ChapterNumber: 1,
	}, f.owner.ID)
	require.NoError(t, err)

	fork, err := f.service.ForkChapter(main.ID, models.ForkChapterRequest{Title: "alt", Content: "y"}, f.other.ID)
	require.NoError(t, err)

	mains, err := f.service.GetMainChapters(f.novel.ID)
	require.NoError(t, err)
	require.Len(t, mains, 1)
	assert.Equal(t, main.ID, mains[0].ID)

	merged, err := f.service.GetMergedChapters(f.novel.ID)
	require.NoError(t, err)
	assert.Empty(t, merged)

	// Promote the fork; it moves from the live-forks view to the merged views.
	f.store.chapters[fork.ID].BranchType = models.BranchMerged

	forks, err := f.service.GetForkChapters(main.ID)
	require.NoError(t, err)
	assert.Empty(t, forks)

	merged, err = f.service.GetMergedChapters(f.novel.ID)
	require.NoError(t, err)
	require.Len(t, merged, 1)
	assert.Equal(t, fork.ID, merged[0].ID)

	mergedForParent, err := f.service.GetMergedChaptersForParent(main.ID)
	require.NoError(t, err)
	require.Len(t, mergedForParent, 1)
	assert.Equal(t, fork.ID, mergedForParent[0].ID)
}
