package handlers

import (
	"net/http"
	"strconv"

	"novelbranch/helper"
	"novelbranch/models"
	"novelbranch/services"

	"github.com/gin-gonic/gin"
)

type MergeRequestHandler struct {
	mergeService services.MergeService
	Helper       *helper.HTTPHelper
}

func NewMergeRequestHandler(mergeService services.MergeService) *MergeRequestHandler {
	return &MergeRequestHandler{mergeService: mergeService}
}

func (h *MergeRequestHandler) GetMergeRequests(c *gin.Context) {
	novelID, err := strconv.ParseUint(c.Param("novel_id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid novel ID"})
		return
	}

	mrs, err := h.mergeService.GetMergeRequests(uint(novelID))
	if err != nil {
		c.JSON(h.Helper.GetStatusCode(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, mrs)
}

func (h *MergeRequestHandler) SubmitForReview(c *gin.Context) {
	userID, _ := c.Get("user_id")
	novelID, err := strconv.ParseUint(c.Param("novel_id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid novel ID"})
		return
	}

	var req models.CreateMergeRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	mr, err := h.mergeService.SubmitForReview(uint(novelID), req, userID.(uint))
	if err != nil {
		c.JSON(h.Helper.GetStatusCode(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, mr)
}

func (h *MergeRequestHandler) ApproveMergeRequest(c *gin.Context) {
	userID, _ := c.Get("user_id")
	mrID, err := strconv.ParseUint(c.Param("mr_id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid merge request ID"})
		return
	}

	mr, err := h.mergeService.Approve(uint(mrID), userID.(uint))
	if err != nil {
		c.JSON(h.Helper.GetStatusCode(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, mr)
}

func (h *MergeRequestHandler) RejectMergeRequest(c *gin.Context) {
	userID, _ := c.Get("user_id")
	mrID, err := strconv.ParseUint(c.Param("mr_id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid merge request ID"})
		return
	}

	var req models.RejectMergeRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	mr, err := h.mergeService.Reject(uint(mrID), userID.(uint), req.ReviewComment)
	if err != nil {
		c.JSON(h.Helper.GetStatusCode(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, mr)
}

func (h *MergeRequestHandler) CheckSubmissionEligibility(c *gin.Context) {
	userID, _ := c.Get("user_id")
	chapterID, err := strconv.ParseUint(c.Param("chapter_id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid chapter ID"})
		return
	}

	eligibility, err := h.mergeService.CheckSubmissionEligibility(uint(chapterID), userID.(uint))
	if err != nil {
		c.JSON(h.Helper.GetStatusCode(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, eligibility)
}
