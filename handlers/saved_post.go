package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"socialnet/repository"
)

func (h *Handler) GetSavedPosts(c *gin.Context) {
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

	saved, err := h.repo.SavedPosts(ctx, userID, limit)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, listResponse(userID, "saved_posts", saved, len(saved)))
}

func (h *Handler) SavePost(c *gin.Context) {
	userID, err := pathID(c, "user_id")
	if err != nil {
		h.fail(c, err)
		return
	}
	var req struct {
		PostID         string `json:"post_id" binding:"required"`
		CollectionName string `json:"collection_name"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}
	postID, err := repository.ParseID("post_id", req.PostID)
	if err != nil {
		h.fail(c, err)
		return
	}

	ctx, cancel := h.context(c)
	defer cancel()

	id, err := h.repo.SavePost(ctx, userID, postID, req.CollectionName)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "message": "Post saved", "id": id.Hex()})
}

func (h *Handler) UnsavePost(c *gin.Context) {
	userID, err := pathID(c, "user_id")
	if err != nil {
		h.fail(c, err)
		return
	}
	postID, err := repository.ParseID("post_id", c.Query("post_id"))
	if err != nil {
		h.fail(c, err)
		return
	}

	ctx, cancel := h.context(c)
	defer cancel()

	if err := h.repo.UnsavePost(ctx, userID, postID); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Post unsaved"})
}
