package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"socialnet/repository"
)

func (h *Handler) GetFollowing(c *gin.Context) {
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

	following, err := h.repo.Following(ctx, userID, limit)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, listResponse(userID, "following", following, len(following)))
}

func (h *Handler) Follow(c *gin.Context) {
	userID, err := pathID(c, "user_id")
	if err != nil {
		h.fail(c, err)
		return
	}
	var req struct {
		FollowingID string `json:"following_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}
	followingID, err := repository.ParseID("following_id", req.FollowingID)
	if err != nil {
		h.fail(c, err)
		return
	}

	ctx, cancel := h.context(c)
	defer cancel()

	id, err := h.repo.Follow(ctx, userID, followingID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "message": "User followed", "id": id.Hex()})
}

func (h *Handler) Unfollow(c *gin.Context) {
	userID, err := pathID(c, "user_id")
	if err != nil {
		h.fail(c, err)
		return
	}
	followingID, err := repository.ParseID("following_id", c.Query("following_id"))
	if err != nil {
		h.fail(c, err)
		return
	}

	ctx, cancel := h.context(c)
	defer cancel()

	if err := h.repo.Unfollow(ctx, userID, followingID); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "User unfollowed"})
}
