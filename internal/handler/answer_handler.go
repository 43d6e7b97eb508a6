package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"stackit.dev/forum/internal/dto"
	"stackit.dev/forum/internal/repository"
	"stackit.dev/forum/internal/service"
	"stackit.dev/forum/pkg/apperror"
	"stackit.dev/forum/pkg/response"
)

type AnswerHandler struct {
	service     service.AnswerService
	voteService service.VoteService
}

func NewAnswerHandler(service service.AnswerService, voteService service.VoteService) *AnswerHandler {
	return &AnswerHandler{service: service, voteService: voteService}
}

func (h *AnswerHandler) CreateAnswer(c *gin.Context) {
	questionID, err := uuid.Parse(c.Param("question_id"))
	if err != nil {
		response.ResponseError(c, apperror.ErrInvalidInput)
		return
	}

	var req dto.CreateAnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ResponseError(c, err)
		return
	}

	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	answer, err := h.service.CreateAnswer(c.Request.Context(), userID, questionID, req)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	response.Created(c, "answer created successfully", answer)
}

func (h *AnswerHandler) GetAnswers(c *gin.Context) {
	questionID, err := uuid.Parse(c.Param("question_id"))
	if err != nil {
		response.ResponseError(c, apperror.ErrInvalidInput)
		return
	}

	answers, err := h.service.GetAnswers(c.Request.Context(), questionID, response.OptionalUserID(c))
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	response.OK(c, "answers retrieved successfully", answers)
}

func (h *AnswerHandler) ToggleAccept(c *gin.Context) {
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

	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	result, err := h.service.ToggleAccept(c.Request.Context(), userID, questionID, answerID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	response.OK(c, result.Status, result)
}

func (h *AnswerHandler) UpdateAnswer(c *gin.Context) {
	answerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.ResponseError(c, apperror.ErrInvalidInput)
		return
	}

	var req dto.UpdateAnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ResponseError(c, err)
		return
	}

	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	answer, err := h.service.UpdateAnswer(c.Request.Context(), userID, answerID, req)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	response.OK(c, "answer updated successfully", answer)
}

func (h *AnswerHandler) DeleteAnswer(c *gin.Context) {
	answerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.ResponseError(c, apperror.ErrInvalidInput)
		return
	}

	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	if err := h.service.DeleteAnswer(c.Request.Context(), userID, answerID); err != nil {
		response.ResponseError(c, err)
		return
	}

	response.OK(c, "answer deleted successfully", nil)
}

func (h *AnswerHandler) Upvote(c *gin.Context) {
	h.vote(c, repository.DirectionUp)
}

func (h *AnswerHandler) Downvote(c *gin.Context) {
	h.vote(c, repository.DirectionDown)
}

func (h *AnswerHandler) vote(c *gin.Context, dir repository.Direction) {
	answerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.ResponseError(c, apperror.ErrInvalidInput)
		return
	}

	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	result, err := h.voteService.ToggleAnswerVote(c.Request.Context(), userID, answerID, dir)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	response.OK(c, result.Status, result)
}
