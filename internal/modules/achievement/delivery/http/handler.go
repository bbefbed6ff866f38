package http

import (
	"net/http"

	"anoa.com/trackforge/internal/entity"
	achievementDto "anoa.com/trackforge/internal/modules/achievement/dto"
	achievementService "anoa.com/trackforge/internal/modules/achievement/service"
	"anoa.com/trackforge/pkg/response"
	"anoa.com/trackforge/pkg/validator"
	"github.com/gin-gonic/gin"
)

type AchievementHandler struct {
	service achievementService.AchievementService
}

func NewAchievementHandler(service achievementService.AchievementService) *AchievementHandler {
	return &AchievementHandler{service: service}
}

func (h *AchievementHandler) Evaluate(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	var query achievementDto.EvaluateQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	var codes []string
	if query.Family == "" {
		codes, err = h.service.EvaluateAll(c.Request.Context(), userID)
	} else {
		codes, err = h.service.EvaluateFamily(c.Request.Context(), userID, entity.MetricFamily(query.Family))
	}
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": achievementDto.EvaluateResponse{NewAchievements: codes}})
}

func (h *AchievementHandler) ListCatalog(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	entries, err := h.service.ListCatalog(c.Request.Context(), userID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": entries})
}

func (h *AchievementHandler) GetProgress(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	entries, err := h.service.GetProgress(c.Request.Context(), userID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": entries})
}

func (h *AchievementHandler) RepairPoints(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	result, err := h.service.RepairPoints(c.Request.Context(), userID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": result})
}
