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

type QuestionHandler struct {
	service     service.QuestionService
	voteService service.VoteService
}

func NewQuestionHandler(service service.QuestionService, voteService service.VoteService) *QuestionHandler {
	return &QuestionHandler{service: service, voteService: voteService}
}

func (h *QuestionHandler) CreateQuestion(c *gin.Context) {
	var req dto.CreateQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ResponseError(c, err)
		return
	}

	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	question, err := h.service.CreateQuestion(c.Request.Context(), userID, req)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	response.Created(c, "question created successfully", question)
}

func (h *QuestionHandler) GetQuestions(c *gin.Context) {
	var filter dto.QuestionFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.ResponseError(c, err)
		return
	}

	questions, err := h.service.GetQuestions(c.Request.Context(), response.OptionalUserID(c), filter)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	response.OK(c, "questions retrieved successfully", questions)
}

func (h *QuestionHandler) GetQuestionBySlug(c *gin.Context) {
	slug := c.Param("slug")
	if slug == "" {
		response.ResponseError(c, apperror.ErrInvalidInput)
		return
	}

	question, err := h.service.GetQuestionBySlug(c.Request.Context(), slug, response.OptionalUserID(c))
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	response.OK(c, "question retrieved successfully", question)
}

func (h *QuestionHandler) GetQuestionByID(c *gin.Context) {
	questionID, err := uuid.Parse(c.Param("question_id"))
	if err != nil {
		response.ResponseError(c, apperror.ErrInvalidInput)
		return
	}

	question, err := h.service.GetQuestionByID(c.Request.Context(), questionID, response.OptionalUserID(c))
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	response.OK(c, "question retrieved successfully", question)
}

func (h *QuestionHandler) UpdateQuestion(c *gin.Context) {
	questionID, err := uuid.Parse(c.Param("question_id"))
	if err != nil {
		response.ResponseError(c, apperror.ErrInvalidInput)
		return
	}

	var req dto.UpdateQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ResponseError(c, err)
		return
	}

	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	question, err := h.service.UpdateQuestion(c.Request.Context(), userID, questionID, req)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	response.OK(c, "question updated successfully", question)
}

func (h *QuestionHandler) DeleteQuestion(c *gin.Context) {
	questionID, err := uuid.Parse(c.Param("question_id"))
	if err != nil {
		response.ResponseError(c, apperror.ErrInvalidInput)
		return
	}

	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	if err := h.service.DeleteQuestion(c.Request.Context(), userID, questionID); err != nil {
		response.ResponseError(c, err)
		return
	}

	response.OK(c, "question deleted successfully", nil)
}

func (h *QuestionHandler) Upvote(c *gin.Context) {
	h.vote(c, repository.DirectionUp)
}

func (h *QuestionHandler) Downvote(c *gin.Context) {
	h.vote(c, repository.DirectionDown)
}

func (h *QuestionHandler) vote(c *gin.Context, dir repository.Direction) {
	questionID, err := uuid.Parse(c.Param("question_id"))
	if err != nil {
		response.ResponseError(c, apperror.ErrInvalidInput)
		return
	}

	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	result, err := h.voteService.ToggleQuestionVote(c.Request.Context(), userID, questionID, dir)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	response.OK(c, result.Status, result)
}
