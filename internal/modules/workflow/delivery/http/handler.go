package http

import (
	"net/http"

	workflowDto "anoa.com/trackforge/internal/modules/workflow/dto"
	workflowService "anoa.com/trackforge/internal/modules/workflow/service"
	"anoa.com/trackforge/pkg/response"
	"anoa.com/trackforge/pkg/validator"
	"github.com/gin-gonic/gin"
)

type WorkflowHandler struct {
	service workflowService.WorkflowService
}

func NewWorkflowHandler(service workflowService.WorkflowService) *WorkflowHandler {
	return &WorkflowHandler{service: service}
}

func (h *WorkflowHandler) GetWorkflow(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	wf, err := h.service.GetWorkflow(c.Request.Context(), userID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": wf})
}

func (h *WorkflowHandler) SaveWorkflow(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	var req workflowDto.SaveWorkflowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	result, err := h.service.SaveWorkflow(c.Request.Context(), userID, req)
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": result})
}

func (h *WorkflowHandler) ResetWorkflow(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	result, err := h.service.ResetWorkflow(c.Request.Context(), userID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": result})
}

func (h *WorkflowHandler) GetSongProgress(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	songID, err := response.ParamUUID(c, "song_id")
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	progress, err := h.service.GetSongProgress(c.Request.Context(), userID, songID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": progress})
}

func (h *WorkflowHandler) UpdateStep(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	songID, err := response.ParamUUID(c, "song_id")
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	var req workflowDto.UpdateStepRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	progress, err := h.service.UpdateStep(c.Request.Context(), userID, songID, c.Param("step"), req)
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": progress})
}

func (h *WorkflowHandler) GetPackCompletion(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	packID, err := response.ParamUUID(c, "pack_id")
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	completion, err := h.service.GetPackCompletion(c.Request.Context(), userID, packID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": completion})
}
