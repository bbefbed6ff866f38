package http

import (
	"net/http"

	leaderboardDto "anoa.com/trackforge/internal/modules/leaderboard/dto"
	leaderboardService "anoa.com/trackforge/internal/modules/leaderboard/service"
	"anoa.com/trackforge/pkg/response"
	"anoa.com/trackforge/pkg/validator"
	"github.com/gin-gonic/gin"
)

type LeaderboardHandler struct {
	service      leaderboardService.LeaderboardService
	defaultLimit int
	maxLimit     int
}

func NewLeaderboardHandler(service leaderboardService.LeaderboardService, defaultLimit, maxLimit int) *LeaderboardHandler {
	return &LeaderboardHandler{service: service, defaultLimit: defaultLimit, maxLimit: maxLimit}
}

func (h *LeaderboardHandler) GetLeaderboard(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	var query leaderboardDto.LeaderboardQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	limit := query.Limit
	if limit < 1 {
		limit = h.defaultLimit
	}
	if limit > h.maxLimit {
		limit = h.maxLimit
	}

	leaderboard, err := h.service.GetLeaderboard(c.Request.Context(), userID, limit)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": leaderboard})
}
