package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"stackit.dev/forum/internal/dto"
	"stackit.dev/forum/internal/service"
	"stackit.dev/forum/pkg/apperror"
	"stackit.dev/forum/pkg/response"
)

type CommentHandler struct {
	service service.CommentService
}

func NewCommentHandler(service service.CommentService) *CommentHandler {
	return &CommentHandler{service: service}
}

func (h *CommentHandler) CreateComment(c *gin.Context) {
	questionID, err := uuid.Parse(c.Param("question_id"))
	if err != nil {
		response.ResponseError(c, apperror.ErrInvalidInput)
		return
	}

	answerID, err := uuid.Parse(c.Param("answer_id"))
	if err != nil {
		response.ResponseError(c, apperror.ErrInvalidInput)
		return
	}

	var req dto.CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ResponseError(c, err)
		return
	}

	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	comment, err := h.service.CreateComment(c.Request.Context(), userID, questionID, answerID, req)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	response.Created(c, "comment created successfully", comment)
}

func (h *CommentHandler) GetComments(c *gin.Context) {
	questionID, err := uuid.Parse(c.Param("question_id"))
	if err != nil {
		response.ResponseError(c, apperror.ErrInvalidInput)
		return
	}

	answerID, err := uuid.Parse(c.Param("answer_id"))
	if err != nil {
		response.ResponseError(c, apperror.ErrInvalidInput)
		return
	}

	comments, err := h.service.GetComments(c.Request.Context(), questionID, answerID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	response.OK(c, "comments retrieved successfully", comments)
}

func (h *CommentHandler) UpdateComment(c *gin.Context) {
	commentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.ResponseError(c, apperror.ErrInvalidInput)
		return
	}

	var req dto.UpdateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ResponseError(c, err)
		return
	}

	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	comment, err := h.service.UpdateComment(c.Request.Context(), userID, commentID, req)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	response.OK(c, "comment updated successfully", comment)
}

func (h *CommentHandler) DeleteComment(c *gin.Context) {
	commentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.ResponseError(c, apperror.ErrInvalidInput)
		return
	}

	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	if err := h.service.DeleteComment(c.Request.Context(), userID, commentID); err != nil {
		response.ResponseError(c, err)
		return
	}

	response.OK(c, "comment deleted successfully", nil)
}
