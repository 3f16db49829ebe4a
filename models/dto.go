package models

type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=3,max=50"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type AuthResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

type CreateNovelRequest struct {
	Title       string `json:"title" binding:"required,min=1,max=200"`
	Description string `json:"description"`
}

type UpdateNovelRequest struct {
	Title       string `json:"title" binding:"required,min=1,max=200"`
	Description string `json:"description"`
}

type CreateChapterRequest struct {
	Title         string `json:"title" binding:"required,min=1,max=200"`
	Content       string `json:"content" binding:"required"`
	ChapterNumber int    `json:"chapter_number" binding:"required,min=1"`
}

type UpdateChapterRequest struct {
	Title   string `json:"title" binding:"required,min=1,max=200"`
	Content string `json:"content" binding:"required"`
}

type ForkChapterRequest struct {
	Title   string `json:"title" binding:"required,min=1,max=200"`
	Content string `json:"content" binding:"required"`
}

type CreateMergeRequestRequest struct {
	FromChapterID uint    `json:"from_chapter_id" binding:"required"`
	ReviewComment *string `json:"review_comment"`
}

type RejectMergeRequestRequest struct {
	ReviewComment *string `json:"review_comment"`
}

// ChapterResponse carries the read-time joins (author username, parent
// chapter title); they are computed at the boundary, never stored.
type ChapterResponse struct {
	Chapter
	AuthorUsername     string  `json:"author_username,omitempty"`
	ParentChapterTitle *string `json:"parent_chapter_title,omitempty"`
}

type MergeRequestResponse struct {
	MergeRequest
	FromChapterTitle  string `json:"from_chapter_title,omitempty"`
	RequesterUsername string `json:"requester_username,omitempty"`
}

// Eligibility reasons returned by the pre-flight can-submit check.
const (
	ReasonNotAFork        = "not-a-fork"
	ReasonNotAuthor       = "not-author"
	ReasonAlreadyPending  = "already-pending"
	ReasonAlreadyApproved = "already-approved"
)

type EligibilityResponse struct {
	CanSubmit bool   `json:"can_submit"`
	Reason    string `json:"reason,omitempty"`
}

type NovelListParams struct {
	Page  int `form:"page,default=1"`
	Limit int `form:"limit,default=20"`
}
