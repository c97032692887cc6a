package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"socialnet/repository"
)

func (h *Handler) GetBestFriends(c *gin.Context) {
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

	friends, err := h.repo.BestFriends(ctx, userID, limit)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, listResponse(userID, "best_friends", friends, len(friends)))
}

func (h *Handler) AddBestFriend(c *gin.Context) {
	userID, err := pathID(c, "user_id")
	if err != nil {
		h.fail(c, err)
		return
	}
	var req struct {
		FriendID string `json:"friend_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}
	friendID, err := repository.ParseID("friend_id", req.FriendID)
	if err != nil {
		h.fail(c, err)
		return
	}

	ctx, cancel := h.context(c)
	defer cancel()

	id, err := h.repo.AddBestFriend(ctx, userID, friendID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "message": "Best friend added", "id": id.Hex()})
}

func (h *Handler) RemoveBestFriend(c *gin.Context) {
	userID, err := pathID(c, "user_id")
	if err != nil {
		h.fail(c, err)
		return
	}
	friendID, err := repository.ParseID("friend_id", c.Query("friend_id"))
	if err != nil {
		h.fail(c, err)
		return
	}

	ctx, cancel := h.context(c)
	defer cancel()

	if err := h.repo.RemoveBestFriend(ctx, userID, friendID); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Best friend removed"})
}
