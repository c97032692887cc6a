package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"socialnet/repository"
)

func (h *Handler) GetSearchHistory(c *gin.Context) {
	userID, err := pathID(c, "user_id")
	if err != nil {
		h.fail(c, err)
		return
	}
	limit, err := queryInt64(c, "limit")
	if err != nil {
		h.fail(c, err)
		return
	}

	ctx, cancel := h.context(c)
	defer cancel()

	history, err := h.repo.SearchHistory(ctx, userID, limit)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, listResponse(userID, "history", history, len(history)))
}

func (h *Handler) AddSearch(c *gin.Context) {
	userID, err := pathID(c, "user_id")
	if err != nil {
		h.fail(c, err)
		return
	}
	var req struct {
		SearchedUserID string `json:"searched_user_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}
	searchedID, err := repository.ParseID("searched_user_id", req.SearchedUserID)
	if err != nil {
		h.fail(c, err)
		return
	}

	ctx, cancel := h.context(c)
	defer cancel()

	if _, err := h.repo.AddSearch(ctx, userID, searchedID); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "message": "Added to search history"})
}
