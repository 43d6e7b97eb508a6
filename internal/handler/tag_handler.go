package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"stackit.dev/forum/internal/dto"
	"stackit.dev/forum/internal/service"
	"stackit.dev/forum/pkg/apperror"
	"stackit.dev/forum/pkg/response"
)

type TagHandler struct {
	service service.TagService
}

func NewTagHandler(service service.TagService) *TagHandler {
	return &TagHandler{service: service}
}

func (h *TagHandler) CreateTag(c *gin.Context) {
	var req dto.CreateTagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ResponseError(c, err)
		return
	}

	tag, err := h.service.CreateTag(c.Request.Context(), req)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	response.Created(c, "tag created successfully", tag)
}

func (h *TagHandler) GetTags(c *gin.Context) {
	var filter dto.TagFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.ResponseError(c, err)
		return
	}

	tags, err := h.service.GetTags(c.Request.Context(), filter.Search)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	response.OK(c, "tags retrieved successfully", tags)
}

func (h *TagHandler) GetTag(c *gin.Context) {
	tagID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.ResponseError(c, apperror.ErrInvalidInput)
		return
	}

	tag, err := h.service.GetTag(c.Request.Context(), tagID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	response.OK(c, "tag retrieved successfully", tag)
}

func (h *TagHandler) DeleteTag(c *gin.Context) {
	tagID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.ResponseError(c, apperror.ErrInvalidInput)
		return
	}

	if err := h.service.DeleteTag(c.Request.Context(), tagID); err != nil {
		response.ResponseError(c, err)
		return
	}

	response.OK(c, "tag deleted successfully", nil)
}
